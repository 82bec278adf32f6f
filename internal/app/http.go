package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/juliansalvador727/InterviewDefender/internal/auth/handler"
	"github.com/juliansalvador727/InterviewDefender/internal/auth/provider"
	"github.com/juliansalvador727/InterviewDefender/internal/auth/provider/github"
	"github.com/juliansalvador727/InterviewDefender/internal/auth/resolver"
	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/githubapp"
	"github.com/juliansalvador727/InterviewDefender/internal/logger"
	"github.com/juliansalvador727/InterviewDefender/internal/middleware"
	"github.com/juliansalvador727/InterviewDefender/internal/token"
	"github.com/juliansalvador727/InterviewDefender/internal/user"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	userStore := user.NewPostgresStore(infra.DB)
	identityResolver := resolver.NewStoreResolver(userStore)

	codec, err := token.NewCodec(cfg.JWTSecret, cfg.JWTAlg, cfg.AccessTokenTTL)
	if err != nil {
		return nil, nil, err
	}

	var githubProvider provider.OAuthProvider
	p, err := github.New(github.Config{
		ClientID:     cfg.GithubClientID,
		ClientSecret: cfg.GithubClientSecret,
		RedirectURL:  cfg.GithubRedirectURI,
		AuthURL:      cfg.GithubAuthURL,
		TokenURL:     cfg.GithubTokenURL,
		UserURL:      cfg.GithubUserURL,
	})
	switch {
	case err == nil:
		githubProvider = p
	case errors.Is(err, github.ErrNotConfigured):
		// Login and callback answer 503 until credentials arrive.
		logger.Warn("github oauth not configured", nil)
	default:
		return nil, nil, err
	}

	authHandler := handler.NewHandler(githubProvider, identityResolver, codec, cfg)
	authMiddleware := middleware.NewAuthMiddleware(codec, userStore, cfg.TokenSource)

	appService := githubapp.NewService(
		cfg.GithubAppID,
		cfg.GithubAppSlug,
		cfg.GithubAppPrivateKeyPath,
		cfg.GithubAPIBaseURL,
	)
	appHandler := githubapp.NewHandler(appService, userStore, cfg)

	// ----------------------------
	// Router
	// ----------------------------

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	// ----------------------------
	// Public Routes
	// ----------------------------

	authHandler.RegisterRoutes(router)
	appHandler.RegisterRoutes(router, authMiddleware.RequireAuth())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ----------------------------
	// Protected Routes
	// ----------------------------

	router.GET("/me", authMiddleware.RequireAuth(), func(c *gin.Context) {
		u, ok := middleware.PrincipalFromContext(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id":         u.ID,
			"github_id":  u.GithubID,
			"username":   u.Username,
			"avatar_url": u.AvatarURL,
		})
	})

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
