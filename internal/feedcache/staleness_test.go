// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/mbzfeed/internal/feeds"
)

func TestIsStale(t *testing.T) {
	build := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	ttl := 8 * time.Hour

	tests := []struct {
		name      string
		build     *time.Time
		updatedAt time.Time
		now       time.Time
		stale     bool
		reason    StaleReason
	}{
		{"missing artifact", nil, time.Time{}, build, true, ReasonMissing},
		{"age below ttl", &build, time.Time{}, build.Add(7*time.Hour + 59*time.Minute), false, ReasonFresh},
		{"age equal to ttl", &build, time.Time{}, build.Add(ttl), false, ReasonFresh},
		{"age above ttl", &build, time.Time{}, build.Add(8*time.Hour + time.Minute), true, ReasonExpired},
		{"feed updated after build", &build, build.Add(time.Minute), build.Add(2 * time.Minute), true, ReasonFeedUpdated},
		{"feed updated at build", &build, build, build.Add(time.Minute), false, ReasonFresh},
		{"feed updated before build", &build, build.Add(-time.Hour), build.Add(time.Minute), false, ReasonFresh},
		{"feed update wins over age", &build, build.Add(time.Minute), build.Add(24 * time.Hour), true, ReasonFeedUpdated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := feeds.Feed{ID: "f", UpdatedAt: tt.updatedAt}
			stale, reason := IsStale(tt.build, feed, ttl, tt.now)
			assert.Equal(t, tt.stale, stale)
			assert.Equal(t, tt.reason, reason)
		})
	}
}
