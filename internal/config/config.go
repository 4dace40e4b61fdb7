package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingEnv is returned when a required environment variable is unset.
var ErrMissingEnv = errors.New("missing required env")

const defaultTimeout = 5 * time.Second

// Config holds everything choredeck reads from the environment at startup.
type Config struct {
	GrocyHost   string
	GrocyAPIKey string
	HTTPTimeout time.Duration
	DBPath      string
	LogLevel    string
	LogFile     string
}

// Load reads envFile (if it exists) into the process environment and then
// builds a Config. Variables already set in the environment take precedence
// over the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := Config{
		GrocyHost:   strings.TrimRight(strings.TrimSpace(os.Getenv("GROCY_HOST")), "/"),
		GrocyAPIKey: strings.TrimSpace(os.Getenv("GROCY_API_KEY")),
		LogLevel:    getenv("CHOREDECK_LOG_LEVEL", "info"),
	}
	if cfg.GrocyHost == "" {
		return Config{}, fmt.Errorf("%w: GROCY_HOST", ErrMissingEnv)
	}
	if cfg.GrocyAPIKey == "" {
		return Config{}, fmt.Errorf("%w: GROCY_API_KEY", ErrMissingEnv)
	}

	cfg.HTTPTimeout = defaultTimeout
	if v := os.Getenv("CHOREDECK_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse CHOREDECK_HTTP_TIMEOUT %q: %w", v, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("CHOREDECK_HTTP_TIMEOUT must be positive, got %s", d)
		}
		cfg.HTTPTimeout = d
	}

	cfg.DBPath = os.Getenv("CHOREDECK_DB_PATH")
	cfg.LogFile = os.Getenv("CHOREDECK_LOG_FILE")
	if cfg.DBPath == "" || cfg.LogFile == "" {
		dir, err := DefaultDir()
		if err != nil {
			return Config{}, err
		}
		if cfg.DBPath == "" {
			cfg.DBPath = filepath.Join(dir, "choredeck.db")
		}
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(dir, "choredeck.log")
		}
	}
	return cfg, nil
}

// DefaultDir returns ~/.config/choredeck (or the platform equivalent).
func DefaultDir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return filepath.Join(cfg, "choredeck"), nil
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
