// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"github.com/ManuGH/mbzfeed/internal/validate"
)

// Validate checks a resolved configuration and reports every invalid field.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.NotEmpty("dataDir", cfg.DataDir)
	v.OneOf("logLevel", cfg.LogLevel, []string{"trace", "debug", "info", "warn", "error"})

	v.NotEmpty("feeds.path", cfg.Feeds.Path)
	v.NotEmpty("feeds.settingsPath", cfg.Feeds.SettingsPath)
	v.Range("feeds.retainBackups", cfg.Feeds.RetainBackups, 0, 100)
	v.NotEmpty("cache.dir", cfg.Cache.Dir)

	v.URL("musicbrainz.baseUrl", cfg.MusicBrainz.BaseURL, []string{"http", "https"})
	v.NotEmpty("musicbrainz.appName", cfg.MusicBrainz.AppName)
	v.NotEmpty("musicbrainz.contact", cfg.MusicBrainz.Contact)
	if cfg.MusicBrainz.Timeout <= 0 {
		v.AddError("musicbrainz.timeout", "must be positive", cfg.MusicBrainz.Timeout)
	}
	v.FloatRange("musicbrainz.rateLimit", cfg.MusicBrainz.RateLimit, 0.01, 50)
	v.Range("musicbrainz.maxPages", cfg.MusicBrainz.MaxPages, 1, 100)

	v.Range("aggregation.concurrency", cfg.Aggregation.Concurrency, 1, 32)

	if cfg.SearchCache.TTL < 0 {
		v.AddError("searchCache.ttl", "must not be negative", cfg.SearchCache.TTL)
	}

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	if cfg.API.PublicURL != "" {
		v.URL("api.publicUrl", cfg.API.PublicURL, []string{"http", "https"})
	}
	v.Range("api.rateLimit", cfg.API.RateLimit, 1, 100000)

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.FloatRange("telemetry.samplingRate", cfg.Telemetry.SamplingRate, 0, 1)
	}

	return v.Err()
}
