// Command collector samples host memory and CPU usage every interval and
// pushes each sample to the sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HerbHall/metricrelay/internal/collector"
	"github.com/HerbHall/metricrelay/internal/config"
	"github.com/HerbHall/metricrelay/internal/logging"
	"github.com/HerbHall/metricrelay/internal/server"
	"github.com/HerbHall/metricrelay/internal/version"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info("collector"))
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.GetString("log_level"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	collectorCfg, err := collector.ConfigFrom(cfg)
	if err != nil {
		logger.Fatal("invalid collector configuration", zap.Error(err))
	}

	agent := collector.NewAgent(
		collectorCfg,
		collector.NewHostSampler(),
		collector.NewTCPSender(collectorCfg.ServerAddr, collectorCfg.DialTimeout),
		logger.Named("collector"),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsSrv *server.Server
	if collectorCfg.MetricsAddr != "" {
		metricsSrv = server.New(collectorCfg.MetricsAddr, "collector", logger.Named("http"))
		go func() {
			if err := metricsSrv.Start(); err != nil {
				logger.Error("metrics endpoint error", zap.Error(err))
			}
		}()
	}

	// After the first signal the default handlers are restored, so a
	// second one terminates the process.
	go func() {
		<-ctx.Done()
		stop()
		logger.Info("received shutdown signal")
	}()

	if err := agent.Run(ctx); err != nil {
		logger.Error("collector error", zap.Error(err))
	}

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics endpoint shutdown error", zap.Error(err))
		}
	}

	logger.Info("collector stopped", zap.String("version", version.Short()))
}
