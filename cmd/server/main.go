package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/playmatatu/cueassist/internal/api"
	"github.com/playmatatu/cueassist/internal/config"
	"github.com/playmatatu/cueassist/internal/database"
	"github.com/playmatatu/cueassist/internal/history"
	"github.com/playmatatu/cueassist/internal/logging"
	"github.com/playmatatu/cueassist/internal/middleware"
	"github.com/playmatatu/cueassist/internal/migrations"
	"github.com/playmatatu/cueassist/internal/overlay"
	"github.com/playmatatu/cueassist/internal/pipeline"
	"github.com/playmatatu/cueassist/internal/redis"
	"github.com/playmatatu/cueassist/internal/vision"
	"github.com/playmatatu/cueassist/internal/ws"
)

func main() {
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Replay scene standing in for the detectors
	scene := vision.DefaultScene()
	if cfg.SceneFile != "" {
		loaded, err := vision.LoadScene(cfg.SceneFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load scene")
		}
		scene = loaded
		log.Info().Str("file", cfg.SceneFile).Msg("scene loaded")
	}
	sceneStore := vision.NewSceneStore(scene)

	hub := ws.NewHub(log, middleware.WebSocketOriginCheck(cfg))
	go hub.Run(ctx)

	latest := overlay.NewLatestStore()
	renderers := pipeline.MultiRenderer{latest}

	// Optional trajectory history
	var store *history.Store
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			log.Info().Msg("running DB migrations on startup")
			if err := migrations.RunMigrations(cfg.DatabaseURL, "migrations", log); err != nil {
				log.Fatal().Err(err).Msg("failed to run migrations")
			}
		}
		store = history.NewStore(db)
		renderers = append(renderers, store)
	} else {
		log.Info().Msg("DATABASE_URL not set; trajectory history disabled")
	}

	// With Redis every instance relays published trajectories to its own viewers;
	// without it the hub renders directly.
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer rdb.Close()

		relay := ws.NewRedisRelay(rdb, log)
		relay.Subscribe(ctx, hub)
		renderers = append(renderers, relay)
	} else {
		renderers = append(renderers, hub)
	}

	source := vision.NewTickerSource(cfg.CaptureFPS, cfg.FrameWidth, cfg.FrameHeight)
	p, err := pipeline.New(cfg.PipelineOptions(), pipeline.Deps{
		Source:   source,
		Tables:   sceneStore,
		Sticks:   sceneStore,
		Balls:    sceneStore,
		Renderer: renderers,
		Logger:   log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid pipeline configuration")
	}

	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
		if err := p.Run(ctx); err != nil {
			log.Error().Err(err).Msg("pipeline exited")
		}
	}()

	// Set up Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))
	api.SetupRoutes(router, api.Deps{
		Config:   cfg,
		Pipeline: p,
		Scene:    sceneStore,
		Latest:   latest,
		History:  store,
		Hub:      hub,
		Logger:   log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting cueassist server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("signal received, shutting down")
	case <-pipelineDone:
		log.Info().Msg("pipeline finished, shutting down")
	}
	p.Stop()
	<-pipelineDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
}

func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	log = logging.Component(log, "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}
