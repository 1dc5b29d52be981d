// Package config loads metricrelay configuration from an optional file and
// METRICRELAY_* environment variables. With neither present, every key
// resolves to the same values the binaries used before they grew a
// configuration surface.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/metricrelay/internal/relay"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g.
// METRICRELAY_SINK_ADDR overrides sink.addr.
const EnvPrefix = "METRICRELAY"

// Config is a nil-safe read-only view over a viper instance.
type Config struct {
	v *viper.Viper
}

// New wraps v. A nil v yields a Config that returns zero values.
func New(v *viper.Viper) *Config {
	return &Config{v: v}
}

// Load builds a Config with defaults applied, the file at path merged on
// top (when path is non-empty), and environment overrides bound.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return New(v), nil
}

// SetDefaults registers every known key so that env overrides and
// Unmarshal see the full tree.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")

	v.SetDefault("sink.addr", relay.DefaultAddr)
	v.SetDefault("sink.buffer_size", relay.BufferSize)
	v.SetDefault("sink.read_timeout", time.Duration(0))
	v.SetDefault("sink.write_timeout", time.Duration(0))
	v.SetDefault("sink.metrics_addr", "")

	v.SetDefault("collector.server_addr", relay.DefaultAddr)
	v.SetDefault("collector.interval", relay.DefaultInterval)
	v.SetDefault("collector.dial_timeout", 5*time.Second)
	v.SetDefault("collector.metrics_addr", "")

	v.SetDefault("forward.mqtt_broker", "")
	v.SetDefault("forward.topic_prefix", "metricrelay")
	v.SetDefault("forward.client_id", "")
	v.SetDefault("forward.connect_timeout", 10*time.Second)
	v.SetDefault("forward.publish_timeout", 2*time.Second)
}

// GetString returns the string at key, or "" when unset.
func (c *Config) GetString(key string) string {
	if c.v == nil {
		return ""
	}
	return c.v.GetString(key)
}

// Unmarshal decodes the whole tree into target using mapstructure tags.
// Environment overrides are honoured for every key with a default.
func (c *Config) Unmarshal(target any) error {
	if c.v == nil {
		return nil
	}
	return c.v.Unmarshal(target)
}
