// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package musicbrainz

// Release is a release record as returned by the ws/2 browse endpoint with
// inc=release-groups+url-rels.
type Release struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Date            string          `json:"date,omitempty"`
	Status          string          `json:"status,omitempty"`
	Country         string          `json:"country,omitempty"`
	CoverArtArchive CoverArtArchive `json:"cover-art-archive"`
	ReleaseGroup    ReleaseGroup    `json:"release-group"`
	Relations       []Relation      `json:"relations,omitempty"`
}

// CoverArtArchive describes artwork availability for a release.
type CoverArtArchive struct {
	Artwork bool `json:"artwork"`
	Front   bool `json:"front"`
	Count   int  `json:"count"`
}

// ReleaseGroup is passed through to the rendered artifact untouched.
type ReleaseGroup struct {
	ID               string   `json:"id,omitempty"`
	Title            string   `json:"title,omitempty"`
	PrimaryType      string   `json:"primary-type,omitempty"`
	SecondaryTypes   []string `json:"secondary-types,omitempty"`
	FirstReleaseDate string   `json:"first-release-date,omitempty"`
}

// Relation is a url-rels entry.
type Relation struct {
	Type       string      `json:"type"`
	TargetType string      `json:"target-type"`
	URL        URLResource `json:"url"`
}

// URLResource is the url target of a relation.
type URLResource struct {
	ID       string `json:"id,omitempty"`
	Resource string `json:"resource"`
}

// Target returns the relation's URL, or "" when the relation does not point at a url.
func (r Relation) Target() string {
	return r.URL.Resource
}

// Artist is an artist record from search or lookup.
type Artist struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	SortName       string     `json:"sort-name,omitempty"`
	Disambiguation string     `json:"disambiguation,omitempty"`
	Type           string     `json:"type,omitempty"`
	Country        string     `json:"country,omitempty"`
	Score          int        `json:"score,omitempty"`
	Relations      []Relation `json:"relations,omitempty"`
}

type browseReleasesResponse struct {
	Count    int       `json:"release-count"`
	Offset   int       `json:"release-offset"`
	Releases []Release `json:"releases"`
}

type searchArtistsResponse struct {
	Count   int      `json:"count"`
	Offset  int      `json:"offset"`
	Artists []Artist `json:"artists"`
}
