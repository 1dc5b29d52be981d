// Command sink accepts collector connections on a TCP port, logs each
// payload and acknowledges it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HerbHall/metricrelay/internal/config"
	"github.com/HerbHall/metricrelay/internal/forward"
	"github.com/HerbHall/metricrelay/internal/logging"
	"github.com/HerbHall/metricrelay/internal/server"
	"github.com/HerbHall/metricrelay/internal/sink"
	"github.com/HerbHall/metricrelay/internal/version"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info("sink"))
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

	sinkCfg, err := sink.ConfigFrom(cfg)
	if err != nil {
		logger.Fatal("invalid sink configuration", zap.Error(err))
	}
	fwdCfg, err := forward.ConfigFrom(cfg)
	if err != nil {
		logger.Fatal("invalid forward configuration", zap.Error(err))
	}

	fwd, err := forward.New(fwdCfg, logger.Named("forward"))
	if err != nil {
		logger.Fatal("failed to initialize forwarder", zap.Error(err))
	}
	defer fwd.Close()

	srv := sink.New(sinkCfg, logger.Named("sink"), sink.WithForwarder(fwd))
	if err := srv.Listen(); err != nil {
		logger.Fatal("failed to bind", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsSrv *server.Server
	if sinkCfg.MetricsAddr != "" {
		metricsSrv = server.New(sinkCfg.MetricsAddr, "sink", logger.Named("http"))
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

	logger.Info("sink ready",
		zap.String("addr", srv.Addr().String()),
		zap.String("version", version.Short()),
	)
	if err := srv.Serve(ctx); err != nil {
		logger.Fatal("sink error", zap.Error(err))
	}

	if metricsSrv != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics endpoint shutdown error", zap.Error(err))
		}
	}

	logger.Info("sink stopped")
}
