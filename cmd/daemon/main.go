// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ManuGH/mbzfeed/internal/config"
	"github.com/ManuGH/mbzfeed/internal/health"
	mbzlog "github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/telemetry"
	"github.com/ManuGH/mbzfeed/internal/version"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if len(os.Args) > 1 && os.Args[1] == "config" {
		os.Exit(runConfigCLI(os.Args[2:]))
	}

	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	mbzlog.Configure(mbzlog.Config{Level: "info", Service: "mbzfeed", Version: version.Version})
	logger := mbzlog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := strings.TrimSpace(*configPath)
	cfg, err := config.NewLoader(path, version.Version).Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(mbzlog.FieldEvent, "config.load_failed").
			Str("config_path", path).
			Msg("failed to load configuration")
	}

	mbzlog.Configure(mbzlog.Config{Level: cfg.LogLevel, Service: "mbzfeed", Version: cfg.Version})
	logger = mbzlog.WithComponent("daemon")
	source := "env+defaults"
	if path != "" {
		source = "file"
	}
	logger.Info().
		Str(mbzlog.FieldEvent, "config.loaded").
		Str("source", source).
		Str("data_dir", cfg.DataDir).
		Str("feeds_file", cfg.Feeds.Path).
		Str("cache_dir", cfg.Cache.Dir).
		Msg("configuration loaded")

	if err := health.PerformStartupChecks(health.StartupPaths{
		DataDir:      cfg.DataDir,
		CacheDir:     cfg.Cache.Dir,
		FeedsFile:    cfg.Feeds.Path,
		SettingsFile: cfg.Feeds.SettingsPath,
	}); err != nil {
		logger.Fatal().
			Err(err).
			Str(mbzlog.FieldEvent, "startup.check_failed").
			Msg("startup checks failed, verify configuration and permissions")
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Version:      cfg.Version,
		Exporter:     cfg.Telemetry.Exporter,
		Endpoint:     cfg.Telemetry.Endpoint,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		logger.Fatal().Err(err).Str(mbzlog.FieldEvent, "telemetry.init_failed").Msg("failed to initialise tracing")
	}

	app, err := newApp(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str(mbzlog.FieldEvent, "startup.wiring_failed").Msg("failed to start")
	}

	srv := &http.Server{
		Addr:              cfg.API.ListenAddr,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str(mbzlog.FieldEvent, "server.listening").
			Str("addr", srv.Addr).
			Str("version", version.Version).
			Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Str(mbzlog.FieldEvent, "server.shutdown").Msg("shutdown signal received")
	case err := <-serveErr:
		if err != nil {
			logger.Error().Err(err).Str(mbzlog.FieldEvent, "server.failed").Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Str(mbzlog.FieldEvent, "server.shutdown_failed").Msg("graceful shutdown failed")
	}
	app.close()
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Str(mbzlog.FieldEvent, "telemetry.shutdown_failed").Msg("tracer shutdown failed")
	}
	logger.Info().Str(mbzlog.FieldEvent, "server.stopped").Msg("server stopped")
}
