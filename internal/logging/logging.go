// Package logging builds the production zap logger shared by the metricrelay
// binaries. Entries below warn level go to stdout; warn and above go to
// stderr.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON production logger at the given level ("debug",
// "info", "warn", "error"). An empty level means info.
func New(level string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", level, err)
		}
	}
	return NewWithSinks(lvl, zapcore.Lock(os.Stdout), zapcore.Lock(os.Stderr)), nil
}

// NewWithSinks is New with explicit output syncers.
func NewWithSinks(lvl zapcore.Level, stdout, stderr zapcore.WriteSyncer) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= lvl && l < zapcore.WarnLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= lvl && l >= zapcore.WarnLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(enc, stdout, low),
		zapcore.NewCore(enc, stderr, high),
	)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(stderr))
}
