// Package forward mirrors payloads received by the Sink to a downstream
// system. Forwarding is best-effort and off by default.
package forward

import (
	"context"
	"fmt"
	"time"

	"github.com/HerbHall/metricrelay/internal/config"
	"go.uber.org/zap"
)

// Forwarder receives decoded payloads.
type Forwarder interface {
	Forward(ctx context.Context, payload string) error
	Close()
}

// Config holds forwarding settings. An empty MQTTBroker disables
// forwarding.
type Config struct {
	MQTTBroker     string        `mapstructure:"mqtt_broker"`
	TopicPrefix    string        `mapstructure:"topic_prefix"`
	ClientID       string        `mapstructure:"client_id"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	PublishTimeout time.Duration `mapstructure:"publish_timeout"`
}

// DefaultConfig returns forwarding disabled.
func DefaultConfig() *Config {
	return &Config{
		TopicPrefix:    "metricrelay",
		ConnectTimeout: 10 * time.Second,
		PublishTimeout: 2 * time.Second,
	}
}

// ConfigFrom decodes the "forward" section of c on top of DefaultConfig.
func ConfigFrom(c *config.Config) (*Config, error) {
	root := struct {
		Forward *Config `mapstructure:"forward"`
	}{Forward: DefaultConfig()}
	if err := c.Unmarshal(&root); err != nil {
		return nil, fmt.Errorf("decode forward config: %w", err)
	}
	return root.Forward, nil
}

// New returns an MQTT forwarder when a broker is configured and a no-op
// forwarder otherwise.
func New(cfg *Config, logger *zap.Logger) (Forwarder, error) {
	if cfg.MQTTBroker == "" {
		return Nop{}, nil
	}
	return NewMQTT(cfg, logger)
}

// Nop discards payloads.
type Nop struct{}

func (Nop) Forward(context.Context, string) error { return nil }
func (Nop) Close()                                {}
