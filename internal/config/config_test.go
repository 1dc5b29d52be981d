package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HerbHall/metricrelay/internal/relay"
	"github.com/spf13/viper"
)

func TestViperConfigGetString(t *testing.T) {
	v := viper.New()
	v.Set("name", "test")
	cfg := New(v)

	if got := cfg.GetString("name"); got != "test" {
		t.Errorf("GetString('name') = %q, want %q", got, "test")
	}
}

func TestViperConfigUnmarshal(t *testing.T) {
	v := viper.New()
	v.Set("host", "localhost")
	v.Set("port", 9090)
	cfg := New(v)

	var target struct {
		Host string `mapstructure:"host"`
		Port int    `mapstructure:"port"`
	}
	if err := cfg.Unmarshal(&target); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if target.Host != "localhost" {
		t.Errorf("Host = %q, want %q", target.Host, "localhost")
	}
	if target.Port != 9090 {
		t.Errorf("Port = %d, want %d", target.Port, 9090)
	}
}

func TestNilViper(t *testing.T) {
	cfg := New(nil)
	if got := cfg.GetString("key"); got != "" {
		t.Errorf("nil viper GetString() = %q, want empty", got)
	}
	if err := cfg.Unmarshal(&struct{}{}); err != nil {
		t.Errorf("nil viper Unmarshal() error = %v", err)
	}
}

// loaded mirrors the keys the binaries decode from a loaded Config.
type loaded struct {
	LogLevel string `mapstructure:"log_level"`
	Sink     struct {
		Addr        string        `mapstructure:"addr"`
		BufferSize  int           `mapstructure:"buffer_size"`
		ReadTimeout time.Duration `mapstructure:"read_timeout"`
	} `mapstructure:"sink"`
	Collector struct {
		ServerAddr string        `mapstructure:"server_addr"`
		Interval   time.Duration `mapstructure:"interval"`
	} `mapstructure:"collector"`
	Forward struct {
		MQTTBroker string `mapstructure:"mqtt_broker"`
	} `mapstructure:"forward"`
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var got loaded
	if err := cfg.Unmarshal(&got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"sink.addr", got.Sink.Addr, relay.DefaultAddr},
		{"sink.buffer_size", got.Sink.BufferSize, relay.BufferSize},
		{"sink.read_timeout", got.Sink.ReadTimeout, time.Duration(0)},
		{"collector.server_addr", got.Collector.ServerAddr, relay.DefaultAddr},
		{"collector.interval", got.Collector.Interval, relay.DefaultInterval},
		{"forward.mqtt_broker", got.Forward.MQTTBroker, ""},
		{"log_level", got.LogLevel, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metricrelay.yaml")
	body := "sink:\n  addr: 127.0.0.1:9999\ncollector:\n  interval: 2s\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var got loaded
	if err := cfg.Unmarshal(&got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Sink.Addr != "127.0.0.1:9999" {
		t.Errorf("sink.addr = %q, want %q", got.Sink.Addr, "127.0.0.1:9999")
	}
	if got.Collector.Interval != 2*time.Second {
		t.Errorf("collector.interval = %v, want 2s", got.Collector.Interval)
	}
	// Keys absent from the file keep their defaults.
	if got.Sink.BufferSize != relay.BufferSize {
		t.Errorf("sink.buffer_size = %d, want %d", got.Sink.BufferSize, relay.BufferSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() with missing file should fail")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("METRICRELAY_SINK_ADDR", "127.0.0.1:7000")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := cfg.GetString("sink.addr"); got != "127.0.0.1:7000" {
		t.Errorf("sink.addr = %q, want env override", got)
	}

	var target struct {
		Sink struct {
			Addr string `mapstructure:"addr"`
		} `mapstructure:"sink"`
	}
	if err := cfg.Unmarshal(&target); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if target.Sink.Addr != "127.0.0.1:7000" {
		t.Errorf("unmarshalled sink.addr = %q, want env override", target.Sink.Addr)
	}
}
