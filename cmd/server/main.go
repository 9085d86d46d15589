package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/foodfleet/api/internal/app"
	"github.com/foodfleet/api/internal/config"
	"github.com/foodfleet/api/pkg/logger"
	"github.com/foodfleet/api/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "foodfleet-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New("foodfleet-api", cfg.LogLevel)
	log.Info("starting", "environment", cfg.Environment, "port", cfg.HTTPPort)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracingCfg := tracing.DefaultConfig("foodfleet-api")
	tracingCfg.Enabled = cfg.TracingEnabled
	tracingCfg.OTLPEndpoint = cfg.OTLPEndpoint
	tracingCfg.SampleRate = cfg.TraceSampleRate
	tracingCfg.Environment = cfg.Environment

	shutdownTracer, err := tracing.InitTracer(ctx, tracingCfg)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}

	a, err := app.NewApp(cfg, log)
	if err != nil {
		return err
	}

	runErr := a.Run(ctx)
	a.Shutdown()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(flushCtx); err != nil {
		log.Error("tracer shutdown", "error", err)
	}

	return runErr
}
