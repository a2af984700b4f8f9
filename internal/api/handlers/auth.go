package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/admin"
	"github.com/playmatatu/cueassist/internal/config"
)

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

// Login exchanges the operator password for a bearer token.
func Login(cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
			return
		}

		if err := admin.VerifyPassword(cfg.OperatorPasswordHash, req.Password); err != nil {
			if errors.Is(err, admin.ErrNotConfigured) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "operator login disabled"})
				return
			}
			log.Warn().Str("ip", c.ClientIP()).Msg("operator login failed")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
			return
		}

		token, exp, err := admin.IssueToken(cfg.JWTSecret, admin.TokenTTL, time.Now())
		if err != nil {
			log.Error().Err(err).Msg("failed to issue operator token")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "expires_at": exp.UTC().Format(time.RFC3339)})
	}
}
