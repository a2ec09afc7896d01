package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bobarin/cutplanner/internal/cutplan"
	"github.com/bobarin/cutplanner/internal/subtitles"
)

type Config struct {
	// Server
	APIPort            string
	WorkerEnabled      bool
	BackendAPIKey      string // API key for authenticating requests (empty = no auth, dev mode)
	CorsAllowedOrigins string // Comma-separated allowed origins (empty = *, dev mode)

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// Object storage (transcript/plan/subtitle assets)
	StorageBaseURL  string
	StorageAPIKey   string
	StorageBucket   string

	// Transcription collaborator (optional convenience route, internal/ingest)
	OpenAIKey string

	// Worker
	MaxConcurrentJobs int

	// Cut planner (CP)
	MinPauseMs            int
	FillerWords           []string
	FillerBufferSec       float64
	MinFillerCutSec       float64
	MinCutDurationSec     float64
	MinSegmentDurationSec float64
	MaxSegmentDurationSec float64
	MergeThresholdMs      int
	Deterministic         bool

	// Subtitle re-timer (SR)
	TargetFps       int
	SrtMaxLineChars int
	SrtMaxLines     int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	_ = godotenv.Load()

	cpDefaults := cutplan.DefaultConfig()
	srDefaults := subtitles.DefaultConfig()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "8080"),
		WorkerEnabled:      getEnvBool("WORKER_ENABLED", true),
		BackendAPIKey:      getEnv("BACKEND_API_KEY", ""),
		CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		StorageBaseURL:     getEnv("STORAGE_BASE_URL", ""),
		StorageAPIKey:      getEnv("STORAGE_API_KEY", ""),
		StorageBucket:      getEnv("STORAGE_BUCKET", "cutplanner-jobs"),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		MaxConcurrentJobs:  getEnvInt("MAX_CONCURRENT_JOBS", 5),

		MinPauseMs:            getEnvInt("CP_MIN_PAUSE_MS", cpDefaults.MinPauseMs),
		FillerWords:           cpDefaults.FillerWords,
		FillerBufferSec:       getEnvFloat("CP_FILLER_BUFFER_SEC", cpDefaults.FillerBufferSec),
		MinFillerCutSec:       getEnvFloat("CP_MIN_FILLER_CUT_SEC", cpDefaults.MinFillerCutSec),
		MinCutDurationSec:     getEnvFloat("CP_MIN_CUT_DURATION_SEC", cpDefaults.MinCutDurationSec),
		MinSegmentDurationSec: getEnvFloat("CP_MIN_SEGMENT_DURATION_SEC", cpDefaults.MinSegmentDurationSec),
		MaxSegmentDurationSec: getEnvFloat("CP_MAX_SEGMENT_DURATION_SEC", cpDefaults.MaxSegmentDurationSec),
		MergeThresholdMs:      getEnvInt("CP_MERGE_THRESHOLD_MS", cpDefaults.MergeThresholdMs),
		Deterministic:         getEnvBool("CP_DETERMINISTIC", cpDefaults.Deterministic),

		TargetFps:       getEnvInt("SR_TARGET_FPS", srDefaults.TargetFps),
		SrtMaxLineChars: getEnvInt("SR_SRT_MAX_LINE_CHARS", srDefaults.SrtMaxLineChars),
		SrtMaxLines:     getEnvInt("SR_SRT_MAX_LINES", srDefaults.SrtMaxLines),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.StorageBaseURL == "" {
		return nil, fmt.Errorf("STORAGE_BASE_URL is required")
	}
	if !cfg.Deterministic {
		return nil, fmt.Errorf("CP_DETERMINISTIC=false is reserved for future extensions and is not yet supported")
	}

	return cfg, nil
}

// CutplanConfig projects the CP-relevant fields into a cutplan.Config
// value (spec §4.1: a single immutable configuration seeds both CP and
// SR, split here along package boundaries).
func (c *Config) CutplanConfig() cutplan.Config {
	return cutplan.Config{
		MinPauseMs:            c.MinPauseMs,
		FillerWords:           c.FillerWords,
		FillerBufferSec:       c.FillerBufferSec,
		MinFillerCutSec:       c.MinFillerCutSec,
		MinCutDurationSec:     c.MinCutDurationSec,
		MinSegmentDurationSec: c.MinSegmentDurationSec,
		MaxSegmentDurationSec: c.MaxSegmentDurationSec,
		MergeThresholdMs:      c.MergeThresholdMs,
		Deterministic:         c.Deterministic,
	}
}

// SubtitlesConfig projects the SR-relevant fields into a subtitles.Config
// value.
func (c *Config) SubtitlesConfig() subtitles.Config {
	return subtitles.Config{
		TargetFps:       c.TargetFps,
		SrtMaxLineChars: c.SrtMaxLineChars,
		SrtMaxLines:     c.SrtMaxLines,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		f, err := strconv.ParseFloat(value, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}
