package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/playmatatu/cueassist/internal/ws"
)

// OverlaySocket attaches the caller to the overlay hub.
func OverlaySocket(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeHTTP(c.Writer, c.Request)
	}
}
