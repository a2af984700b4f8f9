package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/playmatatu/cueassist/internal/physics"
	"github.com/playmatatu/cueassist/internal/pipeline"
)

type Config struct {
	// Environment
	Environment string
	LogLevel    string

	// Database (optional; enables trajectory history)
	DatabaseURL    string
	MigrateOnStart bool

	// Redis (optional; enables trajectory fan-out)
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Security
	JWTSecret            string
	OperatorPasswordHash string

	// Capture
	SceneFile   string
	CaptureFPS  int
	FrameWidth  int
	FrameHeight int

	// Pipeline
	FrameQueueCapacity  int
	FrameMinIntervalMs  int
	PollIntervalMs      int
	TableRedetectFrames int
	StickTipRadius      float64
	StrikerStep         float64
	RenderTimeoutMs     int

	// Physics
	StepBudget         int
	BounceBudget       int
	TargetBounceBudget int
	LookAhead          float64
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:5173"),

		// Security
		JWTSecret:            getEnv("JWT_SECRET", "change-me-in-production"),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),

		// Capture
		SceneFile:   getEnv("SCENE_FILE", ""),
		CaptureFPS:  getEnvInt("CAPTURE_FPS", 30),
		FrameWidth:  getEnvInt("FRAME_WIDTH", 640),
		FrameHeight: getEnvInt("FRAME_HEIGHT", 480),

		// Pipeline
		FrameQueueCapacity:  getEnvInt("FRAME_QUEUE_CAPACITY", 4),
		FrameMinIntervalMs:  getEnvInt("FRAME_MIN_INTERVAL_MS", 30),
		PollIntervalMs:      getEnvInt("POLL_INTERVAL_MS", 30),
		TableRedetectFrames: getEnvInt("TABLE_REDETECT_FRAMES", 30),
		StickTipRadius:      getEnvFloat("STICK_TIP_RADIUS", physics.DefaultStickTipRadius),
		StrikerStep:         getEnvFloat("STRIKER_STEP", physics.DefaultStrikerStep),
		RenderTimeoutMs:     getEnvInt("RENDER_TIMEOUT_MS", 250),

		// Physics
		StepBudget:         getEnvInt("STEP_BUDGET", physics.DefaultStepBudget),
		BounceBudget:       getEnvInt("BOUNCE_BUDGET", physics.DefaultBounceBudget),
		TargetBounceBudget: getEnvInt("TARGET_BOUNCE_BUDGET", physics.DefaultTargetBounceBudget),
		LookAhead:          getEnvFloat("LOOK_AHEAD", physics.DefaultLookAhead),
	}
}

// PhysicsConfig is the simulation engine's view of the configuration.
func (c *Config) PhysicsConfig() physics.Config {
	cfg := physics.DefaultConfig()
	cfg.StepBudget = c.StepBudget
	cfg.BounceBudget = c.BounceBudget
	cfg.TargetBounceBudget = c.TargetBounceBudget
	cfg.LookAhead = c.LookAhead
	return cfg
}

func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		FrameQueueCapacity:  c.FrameQueueCapacity,
		FrameMinInterval:    time.Duration(c.FrameMinIntervalMs) * time.Millisecond,
		PollInterval:        time.Duration(c.PollIntervalMs) * time.Millisecond,
		TableRedetectFrames: c.TableRedetectFrames,
		StickTipRadius:      c.StickTipRadius,
		StrikerStep:         c.StrikerStep,
		RenderTimeout:       time.Duration(c.RenderTimeoutMs) * time.Millisecond,
		Physics:             c.PhysicsConfig(),
	}
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
