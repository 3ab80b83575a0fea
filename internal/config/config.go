package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPListenAddr string
	LogLevel       string
	ServiceName    string
	// TreeFile is the YAML document the status tree is loaded from and
	// saved to on shutdown.
	TreeFile string
	// APIToken guards the API when non-empty; an empty token disables auth.
	APIToken string
	// CheckTimeout bounds a single monitor check.
	CheckTimeout time.Duration
	// MaxConcurrentChecks bounds how many checks run at once.
	MaxConcurrentChecks int
	// NotificationLogSize is the number of notifications kept for the UI.
	NotificationLogSize int
}

func Load() (*Config, error) {
	cfg := &Config{
		HTTPListenAddr:      getEnv("HTTP_LISTEN_ADDR", ":8090"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		ServiceName:         getEnv("SERVICE_NAME", "statusboard"),
		TreeFile:            getEnv("TREE_FILE", "statusboard.yaml"),
		APIToken:            getEnv("API_TOKEN", ""),
		NotificationLogSize: 200,
	}

	timeout, err := getEnvDuration("CHECK_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.CheckTimeout = timeout

	maxChecks, err := getEnvInt("MAX_CONCURRENT_CHECKS", 8)
	if err != nil {
		return nil, err
	}
	cfg.MaxConcurrentChecks = maxChecks

	return cfg, nil
}

// Validate checks that the config can actually run a server.
func (c *Config) Validate() error {
	var missing []string
	if c.HTTPListenAddr == "" {
		missing = append(missing, "HTTP_LISTEN_ADDR")
	}
	if c.TreeFile == "" {
		missing = append(missing, "TREE_FILE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %v", missing)
	}
	if c.MaxConcurrentChecks < 1 {
		return fmt.Errorf("MAX_CONCURRENT_CHECKS must be at least 1")
	}
	if c.CheckTimeout <= 0 {
		return fmt.Errorf("CHECK_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}
