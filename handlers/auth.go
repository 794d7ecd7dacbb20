package handlers

import (
	"net/http"
	"time"

	"telecare/middleware"
	"telecare/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	Denylist utils.TokenDenylist
	Now      func() time.Time
	Logger   *zap.Logger
}

func NewAuthHandler(denylist utils.TokenDenylist, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{Denylist: denylist, Now: time.Now, Logger: logger}
}

// RevokeTokenHandler denies the caller's current token until it expires.
func (h *AuthHandler) RevokeTokenHandler(c *gin.Context) {
	hash, exp, ok := middleware.TokenFrom(c)
	if !ok {
		utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "missing token")
		return
	}
	if h.Denylist == nil {
		utils.JSONError(c, http.StatusServiceUnavailable, "Revocation unavailable", "no deny-list configured")
		return
	}

	ttl := exp.Sub(h.Now())
	if err := h.Denylist.Revoke(c.Request.Context(), hash, ttl); err != nil {
		h.Logger.Error("Failed to revoke token", zap.Error(err))
		utils.JSONError(c, http.StatusServiceUnavailable, "Revocation unavailable", "try again later")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Token revoked"})
}
