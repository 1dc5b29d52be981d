// Package collector implements the sending side of the relay: it samples
// host memory and CPU usage on a fixed cadence and pushes each sample to
// the Sink over a fresh TCP connection.
package collector

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Agent runs the sample → deliver → sleep loop.
type Agent struct {
	config  *Config
	sampler Sampler
	sender  Sender
	logger  *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewAgent creates a Collector agent.
func NewAgent(config *Config, sampler Sampler, sender Sender, logger *zap.Logger) *Agent {
	return &Agent{
		config:  config,
		sampler: sampler,
		sender:  sender,
		logger:  logger,
	}
}

// Run executes a cycle immediately and then one cycle per interval, where
// the interval is measured from the end of the previous cycle. A failed
// cycle never stops the loop. Run returns nil once ctx is cancelled or
// Stop is called.
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	a.mu.Lock()
	a.cancel = cancel
	a.mu.Unlock()
	defer cancel()

	a.logger.Info("collector starting",
		zap.String("server", a.config.ServerAddr),
		zap.String("platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
		zap.Duration("interval", a.config.Interval),
	)

	timer := time.NewTimer(a.config.Interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			a.logger.Info("collector shutting down")
			return nil
		}

		_ = a.RunCycle(ctx)

		timer.Reset(a.config.Interval)
		select {
		case <-ctx.Done():
			a.logger.Info("collector shutting down")
			return nil
		case <-timer.C:
		}
	}
}

// Stop signals a running Run to return.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		a.cancel()
	}
}

// RunCycle samples once and makes one delivery attempt. Failures are
// logged and returned; callers in the loop ignore them.
func (a *Agent) RunCycle(ctx context.Context) error {
	sample, err := a.sampler.Sample(ctx)
	if err != nil {
		cyclesTotal.WithLabelValues(outcomeSampleFailed).Inc()
		a.logger.Error("failed to sample host metrics", zap.Error(err))
		return err
	}
	recordSample(sample)

	payload := sample.Format()
	if err := a.sender.Send(ctx, payload); err != nil {
		cyclesTotal.WithLabelValues(outcomeDeliveryFailed).Inc()
		a.logger.Error("failed to deliver sample",
			zap.String("server", a.config.ServerAddr),
			zap.Error(err),
		)
		return err
	}

	cyclesTotal.WithLabelValues(outcomeDelivered).Inc()
	a.logger.Debug("sample delivered",
		zap.Uint64("total_memory_kb", sample.TotalMemoryKB),
		zap.Uint64("available_memory_kb", sample.AvailableMemoryKB),
		zap.Float32("cpu_usage_percent", sample.CPUUsagePercent),
	)
	return nil
}
