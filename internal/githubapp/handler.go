package githubapp

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/juliansalvador727/InterviewDefender/internal/auth/provider"
	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/logger"
	"github.com/juliansalvador727/InterviewDefender/internal/middleware"
	"github.com/juliansalvador727/InterviewDefender/internal/user"

	"github.com/gin-gonic/gin"
)

const (
	connectCookieName = "gh_connect"
	connectCookiePath = "/delegated"
	connectTTL        = 10 * time.Minute
)

type Handler struct {
	service *Service
	users   user.Store
	cfg     config.Config
}

func NewHandler(service *Service, users user.Store, cfg config.Config) *Handler {
	return &Handler{
		service: service,
		users:   users,
		cfg:     cfg,
	}
}

// RegisterRoutes mounts the linking flow. The callback is reached by a
// GitHub redirect and carries no session credential; start and
// resources require an authenticated principal.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.POST("/delegated/start", requireAuth, h.start)
	r.GET("/delegated/callback", h.callback)
	r.GET("/delegated/resources", requireAuth, h.resources)
}

func newNonce() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("githubapp: failed to generate nonce: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (h *Handler) start(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	installURL, err := h.service.InstallURL()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "github app is not configured"})
		return
	}

	nonce, err := newNonce()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start connect"})
		return
	}

	// The cookie is the only link between this principal and the
	// unauthenticated install callback.
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     connectCookieName,
		Value:    fmt.Sprintf("%d:%s", principal.ID, nonce),
		Path:     connectCookiePath,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(connectTTL.Seconds()),
	})

	c.JSON(http.StatusOK, gin.H{"install_url": installURL})
}

func (h *Handler) callback(c *gin.Context) {
	installationParam := c.Query("installation_id")
	if installationParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing installation_id"})
		return
	}
	installationID, err := strconv.ParseInt(installationParam, 10, 64)
	if err != nil || installationID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid installation_id"})
		return
	}

	cookie, err := c.Request.Cookie(connectCookieName)
	if err != nil || !strings.Contains(cookie.Value, ":") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid connect cookie"})
		return
	}

	userIDPart, _, _ := strings.Cut(cookie.Value, ":")
	userID, err := strconv.ParseInt(userIDPart, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid connect cookie user id"})
		return
	}

	u, err := h.users.GetByID(c.Request.Context(), userID)
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user not found for connect cookie"})
		return
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
		return
	}

	// Overwrite semantics: re-linking replaces the previous installation.
	if err := h.users.SetInstallationID(c.Request.Context(), u.ID, installationID); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
		return
	}

	logger.Info("github app linked", map[string]any{
		"user_id":         u.ID,
		"installation_id": installationID,
	})

	h.clearConnectCookie(c)
	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"/")
}

func (h *Handler) resources(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	// No linkage, no network call.
	if !principal.InstallationID.Valid {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrNotConnected.Error()})
		return
	}

	listing, err := h.service.ListRepositories(c.Request.Context(), principal.InstallationID.Int64)
	if err != nil {
		var apiErr *provider.APIError
		switch {
		case errors.As(err, &apiErr):
			c.JSON(apiErr.StatusCode, gin.H{"error": "github api error", "detail": apiErr.Body})
		case errors.Is(err, ErrNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "github app is not configured"})
		default:
			logger.Error("repository listing failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusBadGateway, gin.H{"error": "github api request failed"})
		}
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *Handler) clearConnectCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     connectCookieName,
		Value:    "",
		Path:     connectCookiePath,
		HttpOnly: true,
		Secure:   h.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
