package sink

import (
	"errors"
	"fmt"
	"time"

	"github.com/HerbHall/metricrelay/internal/config"
	"github.com/HerbHall/metricrelay/internal/relay"
)

// Config holds the Sink configuration.
type Config struct {
	Addr         string        `mapstructure:"addr"`
	BufferSize   int           `mapstructure:"buffer_size"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MetricsAddr  string        `mapstructure:"metrics_addr"`
}

// DefaultConfig returns the default Sink configuration. Zero timeouts mean
// a silent client can hold the Sink indefinitely.
func DefaultConfig() *Config {
	return &Config{
		Addr:       relay.DefaultAddr,
		BufferSize: relay.BufferSize,
	}
}

// ConfigFrom decodes the "sink" section of c on top of DefaultConfig.
func ConfigFrom(c *config.Config) (*Config, error) {
	root := struct {
		Sink *Config `mapstructure:"sink"`
	}{Sink: DefaultConfig()}
	if err := c.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("decode sink config: %w", err)
	}
	if err := root.Sink.Validate(); err != nil {
		return nil, err
	}
	return root.Sink, nil
}

// Validate reports configuration values the Sink cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("sink.addr must not be empty")
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("sink.buffer_size must be positive, got %d", c.BufferSize)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("sink timeouts must not be negative")
	}
	return nil
}
