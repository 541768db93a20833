// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ManuGH/mbzfeed/internal/api"
	"github.com/ManuGH/mbzfeed/internal/cache"
	"github.com/ManuGH/mbzfeed/internal/config"
	"github.com/ManuGH/mbzfeed/internal/feedcache"
	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/health"
	mbzlog "github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
	"github.com/ManuGH/mbzfeed/internal/release"
)

// app holds the wired runtime components.
type app struct {
	handler http.Handler
	store   *feeds.Store
	service *feedcache.Service
	closers []func() error
}

// newApp wires storage, the MusicBrainz client, the feed cache service and
// the HTTP API from cfg. Background work is bound to ctx.
func newApp(ctx context.Context, cfg config.AppConfig) (*app, error) {
	logger := mbzlog.WithComponent("daemon")
	a := &app{}

	store, err := feeds.Open(feeds.Options{
		FeedsPath:     cfg.Feeds.Path,
		SettingsPath:  cfg.Feeds.SettingsPath,
		RetainBackups: cfg.Feeds.RetainBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("open feed store: %w", err)
	}
	a.store = store
	if cfg.Feeds.Watch {
		if _, err := store.Watch(ctx); err != nil {
			logger.Warn().
				Err(err).
				Str(mbzlog.FieldEvent, "feeds.watch_failed").
				Msg("feed file watching disabled")
		}
	}

	client := musicbrainz.New(musicbrainz.Config{
		BaseURL:   cfg.MusicBrainz.BaseURL,
		AppName:   cfg.MusicBrainz.AppName,
		Version:   cfg.MusicBrainz.Version,
		Contact:   cfg.MusicBrainz.Contact,
		Timeout:   cfg.MusicBrainz.Timeout,
		RateLimit: cfg.MusicBrainz.RateLimit,
		MaxPages:  cfg.MusicBrainz.MaxPages,
	})

	agg := release.NewAggregator(client, cfg.Aggregation.Concurrency)
	a.service = feedcache.NewService(store, feedcache.NewStore(cfg.Cache.Dir), agg, feedcache.Options{
		PublicURL: cfg.API.PublicURL,
	})

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewDirWritableChecker("feed_cache", cfg.Cache.Dir))
	hm.RegisterChecker(health.NewFileChecker("feeds_file", cfg.Feeds.Path, true))
	hm.RegisterChecker(health.NewBreakerChecker("musicbrainz", func() string {
		return client.Breaker().State().String()
	}))

	backend, err := newSearchBackend(ctx, cfg, hm)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, backend.Close)

	srv := api.New(api.Deps{
		Feeds:          store,
		Builder:        a.service,
		Artifacts:      a.service.Store(),
		Directory:      client,
		Search:         cache.NewArtistSearch(backend, cfg.SearchCache.TTL),
		Health:         hm,
		PublicURL:      cfg.API.PublicURL,
		RateLimit:      cfg.API.RateLimit,
		TracingService: tracingService(cfg),
	})
	a.handler = srv.Handler()
	return a, nil
}

type closableCache interface {
	cache.Cache
	Close() error
}

// newSearchBackend selects Redis when an address is configured and the
// in-memory cache otherwise.
func newSearchBackend(ctx context.Context, cfg config.AppConfig, hm *health.Manager) (closableCache, error) {
	if cfg.SearchCache.RedisAddr == "" {
		return cache.NewMemoryCache(time.Minute), nil
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.SearchCache.RedisAddr}, mbzlog.WithComponent("cache"))
	if err != nil {
		return nil, fmt.Errorf("connect search cache: %w", err)
	}
	hm.RegisterChecker(health.NewPingChecker("search_cache", rc.HealthCheck))
	return rc, nil
}

func tracingService(cfg config.AppConfig) string {
	if !cfg.Telemetry.Enabled {
		return ""
	}
	return "mbzfeed-api"
}

func (a *app) close() {
	logger := mbzlog.WithComponent("daemon")
	for _, c := range a.closers {
		if err := c(); err != nil {
			logger.Warn().Err(err).Str(mbzlog.FieldEvent, "daemon.close_failed").Msg("component close failed")
		}
	}
}
