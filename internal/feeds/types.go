// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package feeds persists feed definitions and service settings as YAML.
package feeds

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a feed id is not defined.
var ErrNotFound = errors.New("feed not found")

// ErrInvalidSettings is wrapped by Settings.Validate failures.
var ErrInvalidSettings = errors.New("invalid settings")

// UnknownArtist is the display name used when an artist id is not defined in
// any feed.
const UnknownArtist = "unknown artist"

// Artist is a followed artist within a feed.
type Artist struct {
	ID    string
	Name  string
	Links map[string]string
}

// Feed is a named list of artists. UpdatedAt changes exactly when the artist
// list changes.
type Feed struct {
	ID        string
	Name      string
	Artists   []Artist
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasArtist reports whether the feed follows artistID.
func (f Feed) HasArtist(artistID string) bool {
	for _, a := range f.Artists {
		if a.ID == artistID {
			return true
		}
	}
	return false
}

func (f Feed) clone() Feed {
	out := f
	out.Artists = make([]Artist, len(f.Artists))
	for i, a := range f.Artists {
		out.Artists[i] = a
		if a.Links != nil {
			links := make(map[string]string, len(a.Links))
			for k, v := range a.Links {
				links[k] = v
			}
			out.Artists[i].Links = links
		}
	}
	return out
}

// Default service settings.
const (
	DefaultDaysBack       = 0
	DefaultCacheTimeHours = 8
)

// Settings are the user-editable service settings.
type Settings struct {
	// DaysBack is stored and exposed but not applied to feed generation.
	DaysBack       int
	CacheTimeHours int
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	return Settings{DaysBack: DefaultDaysBack, CacheTimeHours: DefaultCacheTimeHours}
}

// CacheTTL is the maximum age of a cached feed artifact.
func (s Settings) CacheTTL() time.Duration {
	return time.Duration(s.CacheTimeHours) * time.Hour
}

// Validate rejects negative values.
func (s Settings) Validate() error {
	if s.DaysBack < 0 {
		return fmt.Errorf("%w: days_back must be >= 0, got %d", ErrInvalidSettings, s.DaysBack)
	}
	if s.CacheTimeHours < 0 {
		return fmt.Errorf("%w: cache_time_hours must be >= 0, got %d", ErrInvalidSettings, s.CacheTimeHours)
	}
	return nil
}
