package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openpredict/lmsr-pricer/internal/api"
	"github.com/openpredict/lmsr-pricer/internal/config"
	"github.com/openpredict/lmsr-pricer/internal/database"
	"github.com/openpredict/lmsr-pricer/internal/market"
	"github.com/openpredict/lmsr-pricer/internal/poller"
	"github.com/openpredict/lmsr-pricer/internal/router"
	"github.com/openpredict/lmsr-pricer/internal/stream"
	"github.com/openpredict/lmsr-pricer/internal/version"
	"github.com/openpredict/lmsr-pricer/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/pricer.local.yaml", "path to config file")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting pricer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"poll_interval", cfg.Poller.Interval,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to databases
	logger.Info("connecting to databases",
		"postgres", cfg.Database.Postgres.Host,
		"timescale", cfg.Database.Timescale.Host,
	)

	pools, err := database.NewPools(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pools.Close()

	logger.Info("databases connected")

	// Market registry on top of the Postgres market store
	store := database.NewMarketStore(pools.Postgres)
	registry := market.NewRegistry(market.Config{
		ReconcileInterval: cfg.Registry.ReconcileInterval,
	}, store, logger)

	if err := registry.Start(ctx); err != nil {
		logger.Error("failed to start market registry", "error", err)
		os.Exit(1)
	}

	// Quote router between the poller and its consumers
	batches := make(chan router.PricedBatch, 100)
	rtr := router.NewRouter(router.RouterConfig{
		QuoteBufferSize:  cfg.Writers.BufferSize,
		UpdateBufferSize: cfg.Writers.BufferSize,
	}, batches, logger)
	if err := rtr.Start(ctx); err != nil {
		logger.Error("failed to start quote router", "error", err)
		os.Exit(1)
	}

	// Quote writer into TimescaleDB
	quoteWriter := writer.NewQuoteWriter(writer.WriterConfig{
		BatchSize:     cfg.Writers.BatchSize,
		FlushInterval: cfg.Writers.FlushInterval,
	}, rtr.Buffers().Quotes, pools.Timescale, logger)
	if err := quoteWriter.Start(ctx); err != nil {
		logger.Error("failed to start quote writer", "error", err)
		os.Exit(1)
	}

	// Websocket price feed
	streamSrv := stream.NewServer(stream.Config{
		Port:         cfg.Stream.Port,
		PingInterval: cfg.Stream.PingInterval,
		WriteTimeout: cfg.Stream.WriteTimeout,
	}, rtr.Buffers().Updates, logger)
	if err := streamSrv.Start(ctx); err != nil {
		logger.Error("failed to start stream server", "error", err)
		os.Exit(1)
	}

	// HTTP query API
	apiSrv := api.NewServer(api.Config{
		Port:        cfg.API.Port,
		ReadTimeout: cfg.API.ReadTimeout,
	}, registry, pools, logger)
	if err := apiSrv.Start(ctx); err != nil {
		logger.Error("failed to start api server", "error", err)
		os.Exit(1)
	}

	// Repricing loop
	pol := poller.New(poller.Config{
		Interval:    cfg.Poller.Interval,
		Concurrency: cfg.Poller.Concurrency,
	}, registry, batches, logger)
	if err := pol.Start(ctx); err != nil {
		logger.Error("failed to start pricing poller", "error", err)
		os.Exit(1)
	}

	logger.Info("pricer running",
		"instance_id", cfg.Instance.ID,
		"markets", registry.Len(),
		"api_port", cfg.API.Port,
		"stream_port", cfg.Stream.Port,
	)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop producers before consumers so in-flight quotes drain
	pol.Stop(shutdownCtx)
	rtr.Stop(shutdownCtx)
	quoteWriter.Stop(shutdownCtx)
	streamSrv.Stop(shutdownCtx)
	apiSrv.Stop(shutdownCtx)
	registry.Stop(shutdownCtx)

	logger.Info("pricer stopped")
}
