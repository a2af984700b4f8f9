package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/api/handlers"
	"github.com/playmatatu/cueassist/internal/config"
	"github.com/playmatatu/cueassist/internal/history"
	"github.com/playmatatu/cueassist/internal/logging"
	"github.com/playmatatu/cueassist/internal/middleware"
	"github.com/playmatatu/cueassist/internal/overlay"
	"github.com/playmatatu/cueassist/internal/pipeline"
	"github.com/playmatatu/cueassist/internal/vision"
	"github.com/playmatatu/cueassist/internal/ws"
)

// Deps are the services the HTTP surface exposes. History may be nil.
type Deps struct {
	Config   *config.Config
	Pipeline *pipeline.Pipeline
	Scene    *vision.SceneStore
	Latest   *overlay.LatestStore
	History  *history.Store
	Hub      *ws.Hub
	Logger   zerolog.Logger
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, d Deps) {
	log := logging.Component(d.Logger, "api")
	router.Use(middleware.CORSMiddleware(d.Config, log))

	if !d.Config.IsProduction() {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Next()
		})
	}

	var lister handlers.HistoryLister
	if d.History != nil {
		lister = d.History
	}
	operator := middleware.RequireOperator(d.Config.JWTSecret)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck)
		v1.POST("/auth/login", handlers.Login(d.Config, log))

		p := v1.Group("/pipeline")
		{
			p.GET("/status", handlers.PipelineStatus(d.Pipeline))
			p.POST("/stop", operator, handlers.StopPipeline(d.Pipeline, log))
		}

		v1.GET("/scene", handlers.GetScene(d.Scene))
		v1.PUT("/scene", operator, handlers.PutScene(d.Scene, log))

		v1.GET("/trajectory/latest", handlers.LatestTrajectory(d.Latest))
		v1.GET("/trajectory/latest.png", handlers.LatestTrajectoryPNG(d.Latest, log))
		v1.GET("/trajectories", handlers.ListTrajectories(lister, log))

		v1.GET("/ws", handlers.OverlaySocket(d.Hub))
	}
}
