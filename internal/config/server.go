package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr         string        `env:"RICALC_ADDR"           envDefault:":8080"`
	RulesPath    string        `env:"RICALC_RULES_PATH"`
	Debug        bool          `env:"RICALC_DEBUG"          envDefault:"false"`
	MaxBodyBytes int           `env:"RICALC_MAX_BODY_BYTES" envDefault:"1048576"`
	ReadTimeout  time.Duration `env:"RICALC_READ_TIMEOUT"   envDefault:"10s"`
	WriteTimeout time.Duration `env:"RICALC_WRITE_TIMEOUT"  envDefault:"10s"`
}

// LoadServerConfig reads the server configuration from the environment
func LoadServerConfig() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with
func (c ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("server address is required")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max body bytes must be positive, got %d", c.MaxBodyBytes)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}
