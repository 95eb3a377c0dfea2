package infra

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	OutputDir         string
	UploadDir         string
	MaxSupplementary  int
	MaxClipFrames     int
	DefaultLocale     string
	GeoIPDBPath       string
	WorkerConcurrency int
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. DATABASE_URL is optional here: the CLI runs
// without a database, so the entrypoints that need one validate it
// themselves.
func LoadConfig() (*Config, error) {
	outputDir := getEnv("OUTPUT_DIR", "./outputs")
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		OutputDir:         outputDir,
		UploadDir:         getEnv("UPLOAD_DIR", filepath.Join(outputDir, "uploads")),
		MaxSupplementary:  getEnvInt("MAX_SUPPLEMENTARY_IMAGES", 3),
		MaxClipFrames:     getEnvInt("MAX_CLIP_FRAMES", 5),
		DefaultLocale:     getEnv("DEFAULT_LOCALE", "en"),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 2),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.MaxSupplementary < 1 {
		cfg.MaxSupplementary = 3
	}
	if cfg.MaxClipFrames < 1 {
		cfg.MaxClipFrames = 5
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
