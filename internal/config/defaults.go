// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"path/filepath"
	"time"

	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

const (
	DefaultDataDir        = "/var/mbz-rss-feeder"
	DefaultLogLevel       = "info"
	DefaultRetainBackups  = 3
	DefaultAppName        = "mbz-rss-service"
	DefaultAppVersion     = "1"
	DefaultContact        = "someone@somewhere.com"
	DefaultTimeout        = 30 * time.Second
	DefaultRateLimit      = 1.0
	DefaultMaxPages       = 4
	DefaultConcurrency    = 1
	DefaultSearchCacheTTL = 10 * time.Minute
	DefaultListenAddr     = ":8080"
	DefaultAPIRateLimit   = 600
	DefaultOTelExporter   = "grpc"
	DefaultOTelEndpoint   = "localhost:4317"
	DefaultOTelSampling   = 1.0
)

func setDefaults(cfg *AppConfig) {
	cfg.DataDir = DefaultDataDir
	cfg.LogLevel = DefaultLogLevel
	cfg.Feeds = FeedsConfig{RetainBackups: DefaultRetainBackups, Watch: true}
	cfg.MusicBrainz = MusicBrainzConfig{
		BaseURL:   musicbrainz.DefaultBaseURL,
		AppName:   DefaultAppName,
		Version:   DefaultAppVersion,
		Contact:   DefaultContact,
		Timeout:   DefaultTimeout,
		RateLimit: DefaultRateLimit,
		MaxPages:  DefaultMaxPages,
	}
	cfg.Aggregation = AggregationConfig{Concurrency: DefaultConcurrency}
	cfg.SearchCache = SearchCacheConfig{TTL: DefaultSearchCacheTTL}
	cfg.API = APIConfig{ListenAddr: DefaultListenAddr, RateLimit: DefaultAPIRateLimit}
	cfg.Telemetry = TelemetryConfig{
		Exporter:     DefaultOTelExporter,
		Endpoint:     DefaultOTelEndpoint,
		SamplingRate: DefaultOTelSampling,
	}
}

// resolvePaths fills paths derived from DataDir that were not set explicitly.
func resolvePaths(cfg *AppConfig) {
	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}
	if cfg.Feeds.Path == "" {
		cfg.Feeds.Path = filepath.Join(cfg.DataDir, "feeds.yml")
	}
	if cfg.Feeds.SettingsPath == "" {
		cfg.Feeds.SettingsPath = filepath.Join(cfg.DataDir, "etc", "mbz-rss-feeder.yml")
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = filepath.Join(cfg.DataDir, "cache")
	}
}
