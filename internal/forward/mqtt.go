package forward

import (
	"context"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"
)

// ErrPublishTimeout is returned when the broker does not confirm a publish
// within the configured timeout.
var ErrPublishTimeout = errors.New("mqtt publish timed out")

// publisher is the subset of mqtt.Client the forwarder uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// MQTT publishes each payload to "<prefix>/payloads" at QoS 0.
type MQTT struct {
	client  publisher
	topic   string
	timeout time.Duration
	logger  *zap.Logger
}

// Compile-time guard.
var _ Forwarder = (*MQTT)(nil)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultPublishTimeout = 2 * time.Second
)

// NewMQTT connects to the configured broker.
func NewMQTT(cfg *Config, logger *zap.Logger) (*MQTT, error) {
	connectTimeout := cfg.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("metricrelay-sink-%d", time.Now().UnixNano())
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(clientID)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetAutoReconnect(true)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		client.Disconnect(0)
		return nil, fmt.Errorf("connect to mqtt broker %s: timed out", cfg.MQTTBroker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.MQTTBroker, err)
	}

	logger.Info("connected to mqtt broker", zap.String("broker", cfg.MQTTBroker))
	return newMQTT(client, cfg, logger), nil
}

func newMQTT(client publisher, cfg *Config, logger *zap.Logger) *MQTT {
	timeout := cfg.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &MQTT{
		client:  client,
		topic:   Topic(cfg.TopicPrefix),
		timeout: timeout,
		logger:  logger,
	}
}

// Topic returns the topic payloads are published under.
func Topic(prefix string) string {
	return prefix + "/payloads"
}

// Forward publishes payload and waits up to the publish timeout for the
// client to hand it off.
func (m *MQTT) Forward(ctx context.Context, payload string) error {
	token := m.client.Publish(m.topic, 0, false, payload)

	timer := time.NewTimer(m.timeout)
	defer timer.Stop()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish to %s: %w", m.topic, err)
		}
		return nil
	case <-timer.C:
		return ErrPublishTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close disconnects from the broker, giving in-flight work 250ms.
func (m *MQTT) Close() {
	m.client.Disconnect(250)
	m.logger.Info("disconnected from mqtt broker")
}
