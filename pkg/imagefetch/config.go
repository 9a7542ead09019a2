package imagefetch

import (
	"fmt"
	"os"
	"time"

	"github.com/JaimeStill/muse/pkg/formatting"
)

// Config holds outbound image fetch parameters.
type Config struct {
	Timeout      string `toml:"timeout"`
	MaxImageSize string `toml:"max_image_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Timeout      string
	MaxImageSize string
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxImageSizeBytes returns MaxImageSize as a byte count.
func (c *Config) MaxImageSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxImageSize)
	if err != nil {
		return 10 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxImageSize != "" {
		c.MaxImageSize = overlay.MaxImageSize
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
	if c.MaxImageSize == "" {
		c.MaxImageSize = "10MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.Timeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(env.MaxImageSize); v != "" {
		c.MaxImageSize = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxImageSize); err != nil {
		return fmt.Errorf("invalid max_image_size: %w", err)
	}
	return nil
}
