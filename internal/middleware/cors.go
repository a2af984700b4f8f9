package middleware

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/config"
)

// AllowedOrigins lists the browser origins that may call the API and open the
// overlay socket.
func AllowedOrigins(cfg *config.Config) []string {
	if !cfg.IsProduction() {
		origins := []string{
			"http://localhost:5173", // Vite dev server
			"http://127.0.0.1:5173",
		}
		if cfg.FrontendURL != "" && cfg.FrontendURL != origins[0] {
			origins = append(origins, cfg.FrontendURL)
		}
		return origins
	}
	if cfg.FrontendURL == "" {
		return nil
	}
	return []string{cfg.FrontendURL}
}

// CORSMiddleware returns a CORS middleware configured for the environment
func CORSMiddleware(cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	origins := AllowedOrigins(cfg)
	log.Info().Str("component", "cors").Str("env", cfg.Environment).Strs("origins", origins).Msg("cors configured")

	corsConfig := cors.Config{
		AllowMethods: []string{
			"GET", "POST", "PUT", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin", "Content-Length", "Content-Type", "Authorization",
			"Accept", "Cache-Control", "X-Requested-With",
		},
		ExposeHeaders: []string{
			"Content-Length", "X-Trajectory-ID",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour, // Cache preflight responses
	}
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = origins
	}

	return cors.New(corsConfig)
}

// WebSocketOriginCheck is the upgrader's origin check for the overlay socket.
// Requests without an Origin header come from non-browser clients and are allowed.
func WebSocketOriginCheck(cfg *config.Config) func(r *http.Request) bool {
	origins := AllowedOrigins(cfg)
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || len(origins) == 0 {
			return true
		}
		if !cfg.IsProduction() {
			if u, err := url.Parse(origin); err == nil {
				host := u.Hostname()
				if host == "localhost" || host == "127.0.0.1" {
					return true
				}
			}
		}
		for _, allowed := range origins {
			if strings.EqualFold(origin, allowed) {
				return true
			}
		}
		return false
	}
}
