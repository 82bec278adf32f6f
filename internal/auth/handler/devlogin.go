package handler

import (
	"net/http"
	"strconv"

	"github.com/juliansalvador727/InterviewDefender/internal/auth"
	"github.com/juliansalvador727/InterviewDefender/internal/config"
	"github.com/juliansalvador727/InterviewDefender/internal/logger"
	"github.com/juliansalvador727/InterviewDefender/internal/session"

	"github.com/gin-gonic/gin"
)

type devLoginRequest struct {
	GithubID  string `json:"github_id" binding:"required"`
	Username  string `json:"username" binding:"required"`
	AvatarURL string `json:"avatar_url"`
}

// devLogin upserts an identity directly, bypassing the provider
// handshake. Registered only outside production.
func (h *Handler) devLogin(c *gin.Context) {
	var req devLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	u, err := h.resolver.Resolve(c.Request.Context(), &auth.Identity{
		GithubID:  req.GithubID,
		Username:  req.Username,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		logger.Error("dev-login resolution failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
		return
	}

	credential, err := h.codec.Issue(strconv.FormatInt(u.ID, 10))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue session"})
		return
	}

	if h.cfg.TokenDelivery == config.DeliveryRedirect {
		c.JSON(http.StatusOK, gin.H{"access_token": credential})
		return
	}

	session.SetCookie(c.Writer, credential, session.CookieOptions{
		Secure: h.cfg.CookieSecure,
	})
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
