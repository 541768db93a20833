// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package release turns MusicBrainz release records into the ordered release
// list rendered into a feed artifact.
package release

import (
	"time"

	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

// UnknownDate is stored as Date when the provider has no release date.
const UnknownDate = "Unknown"

// ArtistRef identifies the feed artist a release was fetched for.
type ArtistRef struct {
	ID   string
	Name string
}

// Release is one aggregated entry of a feed.
type Release struct {
	ID           string
	Title        string
	Date         string     // raw provider date, UnknownDate when absent
	Published    *time.Time // nil when Date could not be parsed
	PubDate      string     // RFC822Date rendering of Published, "" when nil
	Artist       ArtistRef
	HasCoverArt  bool
	ReleaseGroup musicbrainz.ReleaseGroup
	Links        Links
}

// FromProvider converts a provider record. ok reports whether the date was
// understood; callers log the failure.
func FromProvider(r musicbrainz.Release, artist ArtistRef) (rel Release, ok bool) {
	date := r.Date
	// ws/2 omits the date key when unset, so an empty string means absent
	// here and sorts with the other Unknown releases.
	if date == "" {
		date = UnknownDate
	}
	published, pubDate, ok := NormalizeDate(date)

	links := Links{}
	if len(r.Relations) > 0 {
		links = ClassifyLinks(r.Relations)
	}

	return Release{
		ID:           r.ID,
		Title:        r.Title,
		Date:         date,
		Published:    published,
		PubDate:      pubDate,
		Artist:       artist,
		HasCoverArt:  r.CoverArtArchive.Artwork,
		ReleaseGroup: r.ReleaseGroup,
		Links:        links,
	}, ok
}
