package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ServerConfig holds the runtime settings of the mock server process.
// Values come from MOCKINIZER_* environment variables; the CLI overlays
// its flags on top.
type ServerConfig struct {
	// Port is the port the mock server listens on.
	Port int `env:"MOCKINIZER_PORT" envDefault:"34567"`

	// HTTPS serves TLS with an auto-generated self-signed certificate.
	HTTPS bool `env:"MOCKINIZER_HTTPS" envDefault:"false"`

	// LogLevel is the minimum operational log level (debug/info/warn/error).
	LogLevel string `env:"MOCKINIZER_LOG_LEVEL" envDefault:"info"`

	// LogFormat is the log output format (text/json).
	LogFormat string `env:"MOCKINIZER_LOG_FORMAT" envDefault:"text"`

	// MaxLogEntries caps the in-memory dispatch history.
	MaxLogEntries int `env:"MOCKINIZER_MAX_LOG_ENTRIES" envDefault:"1000"`
}

// ServerConfigFromEnv loads the server configuration from the environment.
func ServerConfigFromEnv() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
