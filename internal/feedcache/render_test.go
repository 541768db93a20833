// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"bytes"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
	"github.com/ManuGH/mbzfeed/internal/release"
)

func TestRenderProducesReadableRSS(t *testing.T) {
	build := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 4, 30, 9, 0, 0, 0, time.UTC)
	published := time.Date(2003, 4, 22, 0, 0, 0, 0, time.UTC)
	feed := feeds.Feed{ID: "f1", Name: "Prog & Metal", UpdatedAt: updated}
	releases := []release.Release{
		{
			ID:           "r1",
			Title:        "Damnation",
			Date:         "2003-04-22",
			Published:    &published,
			PubDate:      release.FormatRFC822(published),
			Artist:       release.ArtistRef{ID: "a1", Name: "Opeth"},
			HasCoverArt:  true,
			ReleaseGroup: musicbrainz.ReleaseGroup{PrimaryType: "Album"},
			Links:        release.Links{release.LinkSpotify: "https://open.spotify.com/album/x"},
		},
		{ID: "r2", Title: "Mystery", Date: release.UnknownDate, Artist: release.ArtistRef{Name: "unknown artist"}},
	}

	content, err := Render(feed, releases, build, "https://feeds.example.com/")
	require.NoError(t, err)

	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, "Prog & Metal", parsed.Title)
	assert.Equal(t, "https://feeds.example.com/feed/f1", parsed.Link)
	require.NotNil(t, parsed.UpdatedParsed)
	assert.True(t, build.Equal(*parsed.UpdatedParsed))
	require.NotNil(t, parsed.PublishedParsed)
	assert.True(t, updated.Equal(*parsed.PublishedParsed))

	require.Len(t, parsed.Items, 2)
	first := parsed.Items[0]
	assert.Equal(t, "Opeth - Damnation", first.Title)
	assert.Equal(t, "https://musicbrainz.org/release/r1", first.Link)
	assert.Equal(t, "r1", first.GUID)
	require.NotNil(t, first.PublishedParsed)
	assert.True(t, published.Equal(*first.PublishedParsed))
	assert.Contains(t, first.Description, "https://open.spotify.com/album/x")
	assert.Equal(t, []string{"Album"}, first.Categories)
	require.Len(t, first.Enclosures, 1)
	assert.Equal(t, "https://coverartarchive.org/release/r1/front-250", first.Enclosures[0].URL)

	second := parsed.Items[1]
	assert.Nil(t, second.PublishedParsed)
	assert.Empty(t, second.Enclosures)
}

func TestRenderChannelPubDateFallsBackToBuildTime(t *testing.T) {
	build := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	content, err := Render(feeds.Feed{ID: "f1", Name: "x"}, nil, build, "")
	require.NoError(t, err)

	assert.Contains(t, string(content), "<pubDate>Wed, 01 May 2024 10:00:00 -0000</pubDate>")
	assert.Contains(t, string(content), "<lastBuildDate>Wed, 01 May 2024 10:00:00 -0000</lastBuildDate>")
	assert.Contains(t, string(content), "<link>https://musicbrainz.org</link>")
}
