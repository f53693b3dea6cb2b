package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if err := c.validateRedis(); err != nil {
		return err
	}
	if err := c.validateTracker(); err != nil {
		return err
	}
	if err := c.validateWatcher(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateRedis() error {
	if strings.TrimSpace(c.Redis.Addr) == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must not be negative")
	}
	if len(c.Redis.Topics) == 0 {
		return fmt.Errorf("redis.topics must name at least one channel")
	}
	return nil
}

func (c *Config) validateTracker() error {
	if !c.Tracker.Enabled {
		return nil
	}
	if strings.TrimSpace(c.Tracker.Key) == "" || strings.TrimSpace(c.Tracker.Token) == "" {
		return fmt.Errorf("tracker.key and tracker.token are required when the tracker is enabled")
	}
	if strings.TrimSpace(c.Tracker.BaseURL) == "" {
		return fmt.Errorf("tracker.base_url is required when the tracker is enabled")
	}
	return nil
}

func (c *Config) validateWatcher() error {
	if c.Watcher.SweepInterval <= 0 {
		return fmt.Errorf("watcher.sweep_interval must be positive")
	}
	if strings.TrimSpace(c.Watcher.SweepStage) == "" {
		return fmt.Errorf("watcher.sweep_stage is required")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json")
	}
	return nil
}
