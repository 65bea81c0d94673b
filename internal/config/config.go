// Package config loads the service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	ListenAddr string         `yaml:"listen_addr"`
	LogLevel   string         `yaml:"log_level"`
	Auth       AuthConfig     `yaml:"auth"`
	Database   DatabaseConfig `yaml:"database"`
	RateLimit  RateConfig     `yaml:"rate_limit"`
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	Secret          string `yaml:"secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// TokenTTL returns the configured token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

// DatabaseConfig holds the relational store settings. An empty DSN selects
// the in-memory store.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// RateConfig holds the per-caller rate limit. Zero disables limiting.
type RateConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		Auth:       AuthConfig{TokenTTLMinutes: 30},
		RateLimit:  RateConfig{RPS: 20, Burst: 40},
	}
}

// Load reads the YAML file at path (skipped when empty or missing),
// applies COACHD_* environment overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)

	if cfg.Auth.Secret == "" {
		return Config{}, fmt.Errorf("auth secret is required (set auth.secret or COACHD_AUTH_SECRET)")
	}
	if cfg.Auth.TokenTTLMinutes <= 0 {
		return Config{}, fmt.Errorf("token ttl must be positive")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COACHD_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("COACHD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("COACHD_AUTH_SECRET"); v != "" {
		cfg.Auth.Secret = v
	}
	if v := os.Getenv("COACHD_TOKEN_TTL_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			cfg.Auth.TokenTTLMinutes = minutes
		}
	}
	if v := os.Getenv("COACHD_DATABASE_DSN"); v != "" {
		cfg.Database.DSN = v
	}
}
