// Package config loads server configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the server settings.
type Config struct {
	// Server
	Port    string
	GinMode string

	// Logging
	LogLevel  string
	LogFormat string

	// Storage
	DatabasePath string

	// SSH front-end (disabled when SSHAddr is empty)
	SSHAddr     string
	SSHHostKey  string
	SSHMaxConns int

	// Terminal sessions
	TerminalIdleTimeout time.Duration
	BootSpeed           float64

	// Admin
	AdminUsername string
	AdminPassword string
}

// Load reads the environment and fills in defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		DatabasePath:  getEnv("DATABASE_PATH", "portfolio.db"),
		SSHAddr:       os.Getenv("SSH_ADDR"),
		SSHHostKey:    getEnv("SSH_HOST_KEY", "ssh_host_key"),
		AdminUsername: os.Getenv("ADMIN_USERNAME"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.SSHMaxConns, err = getEnvInt("SSH_MAX_CONNS", 64); err != nil {
		return nil, err
	}
	if cfg.TerminalIdleTimeout, err = getEnvDuration("TERMINAL_IDLE_TIMEOUT", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.BootSpeed, err = getEnvFloat("TERMINAL_BOOT_SPEED", 1); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values Load cannot default away.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.TerminalIdleTimeout <= 0 {
		return fmt.Errorf("TERMINAL_IDLE_TIMEOUT must be positive, got %s", c.TerminalIdleTimeout)
	}
	if c.BootSpeed < 0 {
		return fmt.Errorf("TERMINAL_BOOT_SPEED must not be negative, got %g", c.BootSpeed)
	}
	if c.SSHMaxConns <= 0 {
		return fmt.Errorf("SSH_MAX_CONNS must be positive, got %d", c.SSHMaxConns)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
