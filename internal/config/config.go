// ABOUTME: Configuration loader for the crmdesk CLI
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Backend
	APIURL         string // base URL of the CRM backend (default http://localhost:8080)
	RequestTimeout int    // seconds, per-request HTTP timeout (default 30)

	// Client state
	ConfigDir string // directory holding the token file and debug log
	CacheTTL  int    // seconds, staleness window for cached queries (default 300)
}

func Load() (*Config, error) {
	// A .env next to the binary is optional; real env always wins.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         ensureScheme(getEnv("CRMDESK_API_URL", "http://localhost:8080")),
		RequestTimeout: getEnvInt("CRMDESK_TIMEOUT", 30),
		ConfigDir:      getEnv("CRMDESK_CONFIG_DIR", DefaultConfigDir()),
		CacheTTL:       getEnvInt("CRMDESK_CACHE_TTL", 300),
	}

	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 600 {
		return nil, fmt.Errorf("CRMDESK_TIMEOUT must be between 1 and 600, got %d", cfg.RequestTimeout)
	}
	if cfg.CacheTTL < 1 {
		return nil, fmt.Errorf("CRMDESK_CACHE_TTL must be positive, got %d", cfg.CacheTTL)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "crmdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "crmdesk")
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

// ensureScheme adds http:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "http://" + url
	}
	return url
}
