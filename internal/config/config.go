// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full server process configuration
type Config struct {
	// Game protocol listener
	GameHost    string        `env:"GAME_HOST" envDefault:""`
	GamePort    int           `env:"GAME_PORT" envDefault:"5491"`
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT" envDefault:"5m"`

	// Admin HTTP listener
	AdminHost string `env:"ADMIN_HOST" envDefault:""`
	AdminPort int    `env:"ADMIN_PORT" envDefault:"8080"`

	// Storage backend: "file" or "redis"
	StorageType string `env:"STORAGE_TYPE" envDefault:"file"`
	DataDir     string `env:"DATA_DIR" envDefault:"data"`
	RedisURL    string `env:"REDIS_URL"`
}

// Load parses configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
