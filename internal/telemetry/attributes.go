// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// ServiceName identifies mbzfeed in exported traces.
const ServiceName = "mbzfeed"

// Attribute keys shared by mbzfeed spans.
const (
	ServiceNameKey    = "service.name"
	ServiceVersionKey = "service.version"

	FeedIDKey       = "feed.id"
	FeedArtistsKey  = "feed.artists"
	FeedReleasesKey = "feed.releases"
	FeedStaleKey    = "feed.stale"
	FeedReasonKey   = "feed.stale_reason"
)

// FeedAttributes describes the feed a span works on.
func FeedAttributes(feedID string, artists int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(FeedIDKey, feedID),
		attribute.Int(FeedArtistsKey, artists),
	}
}

// StalenessAttributes records the cache decision taken for a feed.
func StalenessAttributes(stale bool, reason string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{attribute.Bool(FeedStaleKey, stale)}
	if reason != "" {
		attrs = append(attrs, attribute.String(FeedReasonKey, reason))
	}
	return attrs
}
