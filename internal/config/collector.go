// Package config holds environment-derived configuration for the collector.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the collector settings read from the environment.
type Config struct {
	// SideChannelPath is the well-known file the external GPU event
	// interceptor appends length-prefixed records to. It is drained once at
	// session shutdown.
	SideChannelPath string `env:"CAPTURE_SIDE_CHANNEL_FILE" envDefault:"/var/run/capture/gpu_submissions"`

	// EnableIntrospection attaches the self-tracing facade at session start.
	EnableIntrospection bool `env:"CAPTURE_ENABLE_INTROSPECTION" envDefault:"false"`
}

// Parse reads the collector configuration from environment variables.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse collector config: %w", err)
	}
	return &cfg, nil
}
