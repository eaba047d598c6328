package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"cannibalisation-tool/internal/model"

	"github.com/joho/godotenv"
)

type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// DefaultStoreDSN keeps uploads in a shared in-memory SQLite database.
const DefaultStoreDSN = "file:cannibalisation?mode=memory&cache=shared"

type AppConfig struct {
	Env        Environment
	LogLevel   string
	ServerPort string
}

type StoreConfig struct {
	DSN        string
	MaxUploads int
}

type UploadConfig struct {
	MaxBytes int64
}

type CacheConfig struct {
	Size int
}

type DetectConfig struct {
	ImpressionTh float64
	ClickTh      float64
}

type ExportConfig struct {
	OutputDir string
}

type UIConfig struct {
	MaxDisplayRows int
}

type Config struct {
	App    AppConfig
	Store  StoreConfig
	Upload UploadConfig
	Cache  CacheConfig
	Detect DetectConfig
	Export ExportConfig
	UI     UIConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := parseEnvironment(getEnv("APP_ENV", "development"))
	defaults := model.DefaultThresholds()

	return &Config{
		App: AppConfig{
			Env:        env,
			LogLevel:   getLogLevel(env),
			ServerPort: getEnv("APP_SERVER_PORT", "8080"),
		},
		Store: StoreConfig{
			DSN:        getEnv("STORE_DSN", DefaultStoreDSN),
			MaxUploads: getEnvInt("STORE_MAX_UPLOADS", 50),
		},
		Upload: UploadConfig{
			MaxBytes: getEnvInt64("UPLOAD_MAX_BYTES", 32<<20),
		},
		Cache: CacheConfig{
			Size: getEnvInt("CACHE_SIZE", 64),
		},
		Detect: DetectConfig{
			ImpressionTh: getEnvFloat("DETECT_IMPRESSION_TH", defaults.ImpressionTh),
			ClickTh:      getEnvFloat("DETECT_CLICK_TH", defaults.ClickTh),
		},
		Export: ExportConfig{
			OutputDir: getEnv("EXPORT_OUTPUT_DIR", "exports"),
		},
		UI: UIConfig{
			MaxDisplayRows: getEnvInt("UI_MAX_DISPLAY_ROWS", 1000),
		},
	}, nil
}

func (c *Config) Validate() error {
	if c.Detect.ImpressionTh < 0 || c.Detect.ImpressionTh > 1 {
		return fmt.Errorf("DETECT_IMPRESSION_TH must be within [0,1], got %v", c.Detect.ImpressionTh)
	}
	if c.Detect.ClickTh < 0 || c.Detect.ClickTh > 1 {
		return fmt.Errorf("DETECT_CLICK_TH must be within [0,1], got %v", c.Detect.ClickTh)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("CACHE_SIZE must be positive")
	}
	if c.Store.MaxUploads <= 0 {
		return fmt.Errorf("STORE_MAX_UPLOADS must be positive")
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.UI.MaxDisplayRows <= 0 {
		return fmt.Errorf("UI_MAX_DISPLAY_ROWS must be positive")
	}
	return nil
}

func parseEnvironment(envStr string) Environment {
	env := Environment(strings.ToLower(envStr))

	switch env {
	case Development, Production:
		return env
	default:
		return Development
	}
}

func getLogLevel(env Environment) string {
	if env == Production {
		return getEnv("APP_LOG_LEVEL", "info")
	}

	return getEnv("APP_LOG_LEVEL", "debug")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
