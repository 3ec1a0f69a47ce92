package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable. Missing catalog credentials
// are not errors: a source without credentials simply reports unavailable.
func (c *Config) Validate() error {
	if err := c.validateAggregator(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set")
	}
	return nil
}

func (c *Config) validateAggregator() error {
	if c.Aggregator.RequestTimeout < 1 || c.Aggregator.RequestTimeout > 300 {
		return errors.New("aggregator.request_timeout must be between 1 and 300 seconds")
	}
	if c.Aggregator.CacheTTL < 1 {
		return errors.New("aggregator.cache_ttl must be at least 1 hour")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
