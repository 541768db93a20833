// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"time"

	"github.com/ManuGH/mbzfeed/internal/feeds"
)

// StaleReason explains an IsStale decision.
type StaleReason string

const (
	ReasonFresh       StaleReason = "fresh"
	ReasonMissing     StaleReason = "missing"
	ReasonFeedUpdated StaleReason = "feed_updated"
	ReasonExpired     StaleReason = "expired"
)

// IsStale decides whether an artifact built at build must be regenerated.
// Rules apply in order: no build time, a feed definition changed after the
// build, or an age strictly greater than ttl. An age equal to ttl is fresh.
func IsStale(build *time.Time, feed feeds.Feed, ttl time.Duration, now time.Time) (bool, StaleReason) {
	if build == nil {
		return true, ReasonMissing
	}
	if !feed.UpdatedAt.IsZero() && feed.UpdatedAt.After(*build) {
		return true, ReasonFeedUpdated
	}
	if now.Sub(*build) > ttl {
		return true, ReasonExpired
	}
	return false, ReasonFresh
}
