// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/ManuGH/mbzfeed/internal/metrics"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

const searchKeyPrefix = "search:artist:"

// ArtistSearch caches MusicBrainz artist search results by query.
type ArtistSearch struct {
	backend Cache
	ttl     time.Duration
}

// NewArtistSearch wraps backend. A non-positive ttl disables caching.
func NewArtistSearch(backend Cache, ttl time.Duration) *ArtistSearch {
	return &ArtistSearch{backend: backend, ttl: ttl}
}

// SearchKey normalises a query so that equivalent spellings share an entry.
func SearchKey(query string) string {
	q := norm.NFC.String(strings.TrimSpace(query))
	return searchKeyPrefix + strings.ToLower(strings.Join(strings.Fields(q), " "))
}

// Lookup returns cached results for query.
func (s *ArtistSearch) Lookup(ctx context.Context, query string) ([]musicbrainz.Artist, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	raw, ok := s.backend.Get(ctx, SearchKey(query))
	if !ok {
		metrics.IncSearchCache("miss")
		return nil, false
	}
	var artists []musicbrainz.Artist
	if err := json.Unmarshal(raw, &artists); err != nil {
		s.backend.Delete(ctx, SearchKey(query))
		metrics.IncSearchCache("miss")
		return nil, false
	}
	metrics.IncSearchCache("hit")
	return artists, true
}

// Store caches results for query.
func (s *ArtistSearch) Store(ctx context.Context, query string, artists []musicbrainz.Artist) {
	if s.ttl <= 0 {
		return
	}
	if artists == nil {
		artists = []musicbrainz.Artist{}
	}
	raw, err := json.Marshal(artists)
	if err != nil {
		return
	}
	s.backend.Set(ctx, SearchKey(query), raw, s.ttl)
}
