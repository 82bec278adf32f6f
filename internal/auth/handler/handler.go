package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/juliansalvador727/InterviewDefender/internal/auth/provider"
	"github.com/juliansalvador727/InterviewDefender/internal/auth/resolver"
	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/logger"
	"github.com/juliansalvador727/InterviewDefender/internal/session"
	"github.com/juliansalvador727/InterviewDefender/internal/token"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	provider provider.OAuthProvider // nil until OAuth credentials are configured
	resolver resolver.Resolver
	codec    *token.Codec
	cfg      config.Config
}

func NewHandler(
	p provider.OAuthProvider,
	r resolver.Resolver,
	codec *token.Codec,
	cfg config.Config,
) *Handler {
	return &Handler{
		provider: p,
		resolver: r,
		codec:    codec,
		cfg:      cfg,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/login", h.login)
	r.GET("/auth/callback", h.callback)
	r.POST("/auth/logout", h.logout)

	if !h.cfg.IsProduction() {
		r.POST("/auth/dev-login", h.devLogin)
	}
}

func (h *Handler) login(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "github oauth is not configured"})
		return
	}

	state, err := newStateToken()
	if err != nil {
		logger.Error("failed to generate oauth state", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start login"})
		return
	}

	setStateCookie(c.Writer, state, h.cfg.CookieSecure)
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

func (h *Handler) callback(c *gin.Context) {
	if h.provider == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "github oauth is not configured"})
		return
	}

	// The state cookie is single-use regardless of outcome. Clear it
	// before any response write so the header actually ships.
	clearStateCookie(c.Writer, h.cfg.CookieSecure)

	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("github callback returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "github authorization was declined"})
		return
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code or state"})
		return
	}

	if !stateMatches(c.Request, state) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}

	accessToken, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		h.providerError(c, "github token exchange failed", err)
		return
	}

	identity, err := h.provider.FetchUser(c.Request.Context(), accessToken)
	if err != nil {
		h.providerError(c, "github user info failed", err)
		return
	}

	u, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		logger.Error("identity resolution failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
		return
	}

	credential, err := h.codec.Issue(strconv.FormatInt(u.ID, 10))
	if err != nil {
		logger.Error("failed to issue session credential", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session"})
		return
	}

	logger.Info("login succeeded", map[string]any{
		"user_id":   u.ID,
		"github_id": u.GithubID,
	})

	h.deliver(c, credential)
}

func (h *Handler) logout(c *gin.Context) {
	session.ClearCookie(c.Writer, session.CookieOptions{
		Secure: h.cfg.CookieSecure,
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// providerError maps a provider failure onto a response. Upstream
// status and body pass through so the frontend can diagnose; handshake
// defects stay 400.
func (h *Handler) providerError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{"error": err.Error()})

	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{"error": msg, "detail": apiErr.Body})
		return
	}
	if errors.Is(err, provider.ErrNoAccessToken) || errors.Is(err, provider.ErrMissingIdentity) {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": msg})
}

// deliver hands the session credential to the client in the configured
// mode: a cookie for the web deployment, a token-bearing redirect for
// SPA deployments that store it client-side.
func (h *Handler) deliver(c *gin.Context, credential string) {
	if h.cfg.TokenDelivery == config.DeliveryRedirect {
		c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/?token="+url.QueryEscape(credential))
		return
	}

	session.SetCookie(c.Writer, credential, session.CookieOptions{
		Secure: h.cfg.CookieSecure,
	})
	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/")
}
