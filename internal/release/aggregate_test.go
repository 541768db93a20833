// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package release

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

type fakeProvider struct {
	mu       sync.Mutex
	releases map[string][]musicbrainz.Release
	errs     map[string]error
	calls    []string
}

func (p *fakeProvider) BrowseAlbumReleases(_ context.Context, artistID string) ([]musicbrainz.Release, error) {
	p.mu.Lock()
	p.calls = append(p.calls, artistID)
	p.mu.Unlock()
	if err := p.errs[artistID]; err != nil {
		return nil, err
	}
	return p.releases[artistID], nil
}

func mbRelease(id, title, date string) musicbrainz.Release {
	return musicbrainz.Release{ID: id, Title: title, Date: date}
}

func ids(rs []Release) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestAggregateOrdersByRawDateDescending(t *testing.T) {
	p := &fakeProvider{releases: map[string][]musicbrainz.Release{
		"a1": {mbRelease("r1", "Old", "2019-01-01"), mbRelease("r2", "Missing", "")},
		"a2": {mbRelease("r3", "New", "2023-06-15"), mbRelease("r4", "Year", "2023")},
	}}
	feed := feeds.Feed{ID: "f", Artists: []feeds.Artist{{ID: "a1", Name: "One"}, {ID: "a2", Name: "Two"}}}

	got := NewAggregator(p, 1).Aggregate(context.Background(), feed)

	assert.Equal(t, []string{"r2", "r3", "r4", "r1"}, ids(got))
	assert.Equal(t, UnknownDate, got[0].Date)
	assert.Nil(t, got[0].Published)
	assert.Empty(t, got[0].PubDate)
	assert.Equal(t, ArtistRef{ID: "a2", Name: "Two"}, got[1].Artist)
	require.NotNil(t, got[1].Published)
	assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), *got[1].Published)
}

func TestAggregateUnparsableDateKeepsRelease(t *testing.T) {
	p := &fakeProvider{releases: map[string][]musicbrainz.Release{
		"a1": {mbRelease("r1", "Weird", "not-a-date")},
	}}
	feed := feeds.Feed{ID: "f", Artists: []feeds.Artist{{ID: "a1", Name: "One"}}}

	got := NewAggregator(p, 1).Aggregate(context.Background(), feed)

	require.Len(t, got, 1)
	assert.Equal(t, "not-a-date", got[0].Date)
	assert.Nil(t, got[0].Published)
	assert.Empty(t, got[0].PubDate)
}

func TestAggregateAbsorbsProviderFailure(t *testing.T) {
	p := &fakeProvider{
		releases: map[string][]musicbrainz.Release{
			"a2": {mbRelease("r1", "Fine", "2022")},
		},
		errs: map[string]error{"a1": &musicbrainz.Error{Sentinel: musicbrainz.ErrUpstreamError, Operation: "browse", Status: 500}},
	}
	feed := feeds.Feed{ID: "f", Artists: []feeds.Artist{{ID: "a1", Name: "Broken"}, {ID: "a2", Name: "Fine"}}}

	got := NewAggregator(p, 1).Aggregate(context.Background(), feed)

	assert.Equal(t, []string{"r1"}, ids(got))
	assert.Equal(t, []string{"a1", "a2"}, p.calls)
}

func TestAggregateAllFailuresYieldEmpty(t *testing.T) {
	p := &fakeProvider{errs: map[string]error{"a1": errors.New("boom")}}
	feed := feeds.Feed{ID: "f", Artists: []feeds.Artist{{ID: "a1"}}}

	assert.Empty(t, NewAggregator(p, 1).Aggregate(context.Background(), feed))
}

func TestAggregateFallsBackToUnknownArtist(t *testing.T) {
	p := &fakeProvider{releases: map[string][]musicbrainz.Release{
		"a1": {mbRelease("r1", "T", "2020")},
	}}
	feed := feeds.Feed{ID: "f", Artists: []feeds.Artist{{ID: "a1"}}}

	got := NewAggregator(p, 1).Aggregate(context.Background(), feed)

	require.Len(t, got, 1)
	assert.Equal(t, "unknown artist", got[0].Artist.Name)
}

type slowProvider struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (p *slowProvider) BrowseAlbumReleases(_ context.Context, artistID string) ([]musicbrainz.Release, error) {
	n := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	// Later artists finish first.
	if artistID == "a1" {
		time.Sleep(30 * time.Millisecond)
	}
	return []musicbrainz.Release{mbRelease(artistID+"-r", artistID, "2020")}, nil
}

func TestAggregateConcurrentKeepsArtistOrder(t *testing.T) {
	p := &slowProvider{}
	feed := feeds.Feed{ID: "f", Artists: []feeds.Artist{{ID: "a1"}, {ID: "a2"}, {ID: "a3"}}}

	got := NewAggregator(p, 2).Aggregate(context.Background(), feed)

	// Equal dates keep concatenation order.
	assert.Equal(t, []string{"a1-r", "a2-r", "a3-r"}, ids(got))
	assert.LessOrEqual(t, p.peak.Load(), int32(2))
}

func TestSortByDateDescIsStable(t *testing.T) {
	rs := []Release{
		{ID: "1", Date: "2020"},
		{ID: "2", Date: "2021-01"},
		{ID: "3", Date: "2020"},
		{ID: "4", Date: UnknownDate},
	}
	SortByDateDesc(rs)
	assert.Equal(t, []string{"4", "2", "1", "3"}, ids(rs))
}

func TestFromProviderMapsFields(t *testing.T) {
	r := musicbrainz.Release{
		ID:              "r1",
		Title:           "T",
		Date:            "2021-03-04",
		CoverArtArchive: musicbrainz.CoverArtArchive{Artwork: true, Front: true},
		ReleaseGroup:    musicbrainz.ReleaseGroup{ID: "rg", PrimaryType: "Album"},
		Relations:       []musicbrainz.Relation{urlRel("https://open.spotify.com/album/1")},
	}

	got, ok := FromProvider(r, ArtistRef{ID: "a", Name: "A"})

	require.True(t, ok)
	assert.True(t, got.HasCoverArt)
	assert.Equal(t, "Album", got.ReleaseGroup.PrimaryType)
	assert.Equal(t, "Thu, 04 Mar 2021 00:00:00 -0000", got.PubDate)
	assert.Equal(t, Links{LinkSpotify: "https://open.spotify.com/album/1"}, got.Links)
}
