// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package feedcache serves per-feed RSS artifacts, regenerating them when the
// cached copy is missing, outdated by a feed edit, or older than the
// configured cache time.
package feedcache

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/mbzfeed/internal/feeds"
	mbzlog "github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/metrics"
	"github.com/ManuGH/mbzfeed/internal/release"
	"github.com/ManuGH/mbzfeed/internal/telemetry"
)

// FeedSource resolves feed definitions and the current settings.
type FeedSource interface {
	Feed(id string) (feeds.Feed, bool)
	Settings() feeds.Settings
}

// Aggregator builds the ordered release list of a feed.
type Aggregator interface {
	Aggregate(ctx context.Context, feed feeds.Feed) []release.Release
}

// DefaultBuildTimeout bounds a single regeneration.
const DefaultBuildTimeout = 10 * time.Minute

// Options tunes a Service.
type Options struct {
	PublicURL    string
	Now          func() time.Time
	BuildTimeout time.Duration
}

// Service implements the get-or-build contract for feed artifacts.
type Service struct {
	source    FeedSource
	store     *Store
	agg       Aggregator
	publicURL string
	now       func() time.Time
	timeout   time.Duration
	tracer    trace.Tracer
	group     singleflight.Group
}

// NewService wires a service.
func NewService(source FeedSource, store *Store, agg Aggregator, opts Options) *Service {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	timeout := opts.BuildTimeout
	if timeout <= 0 {
		timeout = DefaultBuildTimeout
	}
	return &Service{
		source:    source,
		store:     store,
		agg:       agg,
		publicURL: opts.PublicURL,
		now:       now,
		timeout:   timeout,
		tracer:    telemetry.Tracer("mbzfeed/feedcache"),
	}
}

// Store returns the underlying artifact store.
func (s *Service) Store() *Store { return s.store }

// GetOrBuild returns the artifact of feedID, regenerating it when stale.
// A failed cache write is logged and the regenerated content still returned.
func (s *Service) GetOrBuild(ctx context.Context, feedID string) ([]byte, error) {
	ctx = mbzlog.ContextWithFeedID(ctx, feedID)
	ctx, span := s.tracer.Start(ctx, "feedcache.get_or_build")
	defer span.End()
	logger := mbzlog.WithComponentFromContext(ctx, "feedcache")

	feed, ok := s.source.Feed(feedID)
	if !ok {
		metrics.IncFeedRequest("not_found")
		span.SetStatus(codes.Error, "feed not found")
		return nil, ErrFeedNotFound
	}
	span.SetAttributes(telemetry.FeedAttributes(feedID, len(feed.Artists))...)

	artifact, _ := s.store.Load(feedID)
	ttl := s.source.Settings().CacheTTL()
	stale, reason := IsStale(artifact.BuildTime, feed, ttl, s.now())
	emitStalenessObs(ctx, span, stale, reason)

	if !stale {
		metrics.IncFeedRequest("fresh")
		logger.Debug().
			Str(mbzlog.FieldEvent, "feedcache.hit").
			Time(mbzlog.FieldBuildTime, *artifact.BuildTime).
			Msg("serving cached feed")
		return artifact.Content, nil
	}

	metrics.IncFeedStale(string(reason))
	logger.Info().
		Str(mbzlog.FieldEvent, "feedcache.stale").
		Str(mbzlog.FieldReason, string(reason)).
		Dur(mbzlog.FieldTTL, ttl).
		Msg("cached feed is stale, regenerating")

	// The rebuild is shared by every waiter on feedID and must not inherit
	// the cancellation of whichever request started it.
	ch := s.group.DoChan(feedID, func() (any, error) {
		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.rebuild(buildCtx, feedID)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		span.SetStatus(codes.Error, "request cancelled during rebuild")
		return nil, ctx.Err()
	}
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		return nil, res.Err
	}
	span.SetAttributes(attribute.Bool("feed.rebuild_shared", res.Shared))
	metrics.IncFeedRequest("rebuilt")
	return res.Val.([]byte), nil
}

// rebuild stamps the artifact with the time the feed snapshot was taken, so
// an edit landing while releases are fetched still invalidates the result.
func (s *Service) rebuild(ctx context.Context, feedID string) ([]byte, error) {
	logger := mbzlog.WithComponentFromContext(ctx, "feedcache")

	buildTime := s.now().UTC()
	feed, ok := s.source.Feed(feedID)
	if !ok {
		return nil, ErrFeedNotFound
	}

	releases := s.agg.Aggregate(ctx, feed)
	content, err := Render(feed, releases, buildTime, s.publicURL)
	if err != nil {
		return nil, err
	}
	metrics.ObserveFeedBuild(s.now().Sub(buildTime), len(releases))
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(telemetry.FeedReleasesKey, len(releases)))

	// Artists dropped by an expired build context would be cached as empty.
	if err := ctx.Err(); err != nil {
		logger.Warn().
			Err(err).
			Str(mbzlog.FieldEvent, "feedcache.build_incomplete").
			Dur("timeout", s.timeout).
			Msg("feed build exceeded its deadline, serving uncached content")
		return content, nil
	}

	if err := s.store.Write(ctx, feed.ID, content); err != nil {
		metrics.IncCacheWriteError()
		var ioErr *CacheIOError
		evt := logger.Warn().Err(err).Str(mbzlog.FieldEvent, "feedcache.write_failed")
		if errors.As(err, &ioErr) {
			evt = evt.Str(mbzlog.FieldPath, ioErr.Path)
		}
		evt.Msg("could not write feed to cache, serving uncached content")
		return content, nil
	}

	logger.Info().
		Str(mbzlog.FieldEvent, "feedcache.rebuilt").
		Int("releases", len(releases)).
		Time(mbzlog.FieldBuildTime, buildTime).
		Msg("feed regenerated and cached")
	return content, nil
}
