package collector

import (
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/metricrelay/internal/config"
	"github.com/HerbHall/metricrelay/internal/relay"
)

// Config holds the Collector configuration.
type Config struct {
	ServerAddr  string        `mapstructure:"server_addr"`
	Interval    time.Duration `mapstructure:"interval"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	MetricsAddr string        `mapstructure:"metrics_addr"`
}

// DefaultConfig returns the default Collector configuration.
func DefaultConfig() *Config {
	return &Config{
		ServerAddr:  relay.DefaultAddr,
		Interval:    relay.DefaultInterval,
		DialTimeout: 5 * time.Second,
	}
}

// ConfigFrom decodes the "collector" section of c on top of DefaultConfig.
func ConfigFrom(c *config.Config) (*Config, error) {
	root := struct {
		Collector *Config `mapstructure:"collector"`
	}{Collector: DefaultConfig()}
	if err := c.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("decode collector config: %w", err)
	}
	if err := root.Collector.Validate(); err != nil {
		return nil, err
	}
	return root.Collector, nil
}

// Validate reports configuration values the Collector cannot run with.
func (c *Config) Validate() error {
	if c.ServerAddr == "" {
		return errors.New("collector.server_addr must not be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("collector.interval must be positive, got %s", c.Interval)
	}
	if c.DialTimeout < 0 {
		return errors.New("collector.dial_timeout must not be negative")
	}
	return nil
}
