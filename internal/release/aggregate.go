// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package release

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/mbzfeed/internal/feeds"
	mbzlog "github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/metrics"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

const unknownArtist = "unknown artist"

// Provider is the subset of the MusicBrainz client the aggregator needs.
type Provider interface {
	BrowseAlbumReleases(ctx context.Context, artistID string) ([]musicbrainz.Release, error)
}

// Aggregator collects the releases of every artist of a feed.
type Aggregator struct {
	provider    Provider
	concurrency int
}

// NewAggregator returns an aggregator fetching at most concurrency artists at
// a time. Values below 1 mean sequential fetching.
func NewAggregator(p Provider, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{provider: p, concurrency: concurrency}
}

// Aggregate fetches all artists of feed and returns their releases sorted by
// SortByDateDesc. A failing artist contributes no releases; Aggregate itself
// never fails.
func (a *Aggregator) Aggregate(ctx context.Context, feed feeds.Feed) []Release {
	perArtist := make([][]Release, len(feed.Artists))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, artist := range feed.Artists {
		g.Go(func() error {
			perArtist[i] = a.fetchArtist(ctx, artist)
			return nil
		})
	}
	_ = g.Wait()

	var all []Release
	for _, rs := range perArtist {
		all = append(all, rs...)
	}
	SortByDateDesc(all)
	return all
}

func (a *Aggregator) fetchArtist(ctx context.Context, artist feeds.Artist) []Release {
	logger := mbzlog.WithComponentFromContext(ctx, "aggregator")

	ref := ArtistRef{ID: artist.ID, Name: artist.Name}
	if ref.Name == "" {
		ref.Name = unknownArtist
	}

	logger.Debug().
		Str(mbzlog.FieldEvent, "aggregate.artist_fetch").
		Str(mbzlog.FieldArtistID, artist.ID).
		Str("artist", ref.Name).
		Msg("fetching releases for artist")

	raw, err := a.provider.BrowseAlbumReleases(ctx, artist.ID)
	if err != nil {
		logger.Warn().
			Err(err).
			Str(mbzlog.FieldEvent, "aggregate.artist_failed").
			Str(mbzlog.FieldArtistID, artist.ID).
			Str("artist", ref.Name).
			Msg("MusicBrainz error while fetching releases, skipping artist")
		return nil
	}

	out := make([]Release, 0, len(raw))
	for _, r := range raw {
		rel, ok := FromProvider(r, ref)
		if !ok {
			metrics.IncDateParseFailure()
			logger.Warn().
				Str(mbzlog.FieldEvent, "aggregate.date_unparsable").
				Str(mbzlog.FieldReleaseID, rel.ID).
				Str("date", rel.Date).
				Str("title", rel.Title).
				Msg("could not parse release date")
		}
		out = append(out, rel)
	}

	logger.Debug().
		Str(mbzlog.FieldEvent, "aggregate.artist_done").
		Str(mbzlog.FieldArtistID, artist.ID).
		Int("releases", len(out)).
		Msg("fetched releases for artist")
	return out
}

// SortByDateDesc orders releases by their raw Date string, descending, using
// byte-wise comparison. It is not a chronological sort: UnknownDate sorts
// ahead of every digit-leading date. Equal dates keep their input order.
func SortByDateDesc(rs []Release) {
	slices.SortStableFunc(rs, func(a, b Release) int {
		return strings.Compare(b.Date, a.Date)
	})
}
