package config

import (
	"fmt"
	"os"
	"time"
)

const EnvEngineTimeout = "MUSE_ENGINE_TIMEOUT"

// EngineConfig holds inference pipeline settings.
type EngineConfig struct {
	Timeout string `toml:"timeout"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *EngineConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "60s"
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineTimeout); v != "" {
		c.Timeout = v
	}
}

func (c *EngineConfig) validate() error {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("invalid timeout: must be positive, got %s", c.Timeout)
	}
	return nil
}
