// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feeds

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	mbzlog "github.com/ManuGH/mbzfeed/internal/log"
)

// Options configures a Store.
type Options struct {
	FeedsPath     string
	SettingsPath  string
	RetainBackups int

	// Now and NewID are overridable in tests.
	Now   func() time.Time
	NewID func() string
}

// Store is the YAML-backed feed and settings store. It is safe for
// concurrent use.
type Store struct {
	mu       sync.RWMutex
	feeds    []Feed
	settings Settings

	feedsPath     string
	settingsPath  string
	retainBackups int
	now           func() time.Time
	newID         func() string
	logger        zerolog.Logger

	// Reload notifications
	listenersMu sync.RWMutex
	listeners   []chan<- struct{}
}

// Open loads both files. Missing files yield an empty feed list and default
// settings; parent directories are created.
func Open(opts Options) (*Store, error) {
	if opts.FeedsPath == "" {
		return nil, fmt.Errorf("feeds path is required")
	}
	s := &Store{
		feedsPath:     opts.FeedsPath,
		settingsPath:  opts.SettingsPath,
		retainBackups: opts.RetainBackups,
		now:           opts.Now,
		newID:         opts.NewID,
		logger:        mbzlog.WithComponent("feeds"),
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = func() string { return uuid.NewString() }
	}

	for _, p := range []string{s.feedsPath, s.settingsPath} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("create directory for %s: %w", p, err)
		}
	}

	feeds, err := readFeedsFile(s.feedsPath)
	if err != nil {
		return nil, err
	}
	s.feeds = feeds

	s.settings = DefaultSettings()
	if s.settingsPath != "" {
		if s.settings, err = readSettingsFile(s.settingsPath); err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str(mbzlog.FieldEvent, "feeds.loaded").
		Str(mbzlog.FieldPath, s.feedsPath).
		Int("feeds", len(s.feeds)).
		Msg("feed definitions loaded")
	return s, nil
}

// FeedsPath returns the feed definitions file path.
func (s *Store) FeedsPath() string { return s.feedsPath }

// List returns a copy of all feeds in stored order.
func (s *Store) List() []Feed {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Feed, len(s.feeds))
	for i, f := range s.feeds {
		out[i] = f.clone()
	}
	return out
}

// Feed returns a copy of the feed with the given id.
func (s *Store) Feed(id string) (Feed, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.feeds[i].clone(), true
	}
	return Feed{}, false
}

// Settings returns the current service settings.
func (s *Store) Settings() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// ArtistName returns the display name of artistID from the first feed that
// follows it, or UnknownArtist.
func (s *Store) ArtistName(artistID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.feeds {
		for _, a := range f.Artists {
			if a.ID == artistID {
				return a.Name
			}
		}
	}
	return UnknownArtist
}

// AddFeed creates an empty feed with a fresh id.
func (s *Store) AddFeed(name string) (Feed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	f := Feed{ID: s.newID(), Name: name, CreatedAt: now, UpdatedAt: now}
	next := append(cloneAll(s.feeds), f)
	if err := s.commitFeeds(next); err != nil {
		return Feed{}, err
	}
	s.logger.Info().
		Str(mbzlog.FieldEvent, "feeds.feed_added").
		Str(mbzlog.FieldFeedID, f.ID).
		Str("name", name).
		Msg("feed created")
	return f.clone(), nil
}

// DeleteFeed removes a feed.
func (s *Store) DeleteFeed(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	next := cloneAll(s.feeds)
	next = append(next[:i], next[i+1:]...)
	if err := s.commitFeeds(next); err != nil {
		return err
	}
	s.logger.Info().
		Str(mbzlog.FieldEvent, "feeds.feed_deleted").
		Str(mbzlog.FieldFeedID, id).
		Msg("feed deleted")
	return nil
}

// AddArtist appends artist to the feed unless it is already followed. added
// reports whether the list changed; only then is UpdatedAt bumped.
func (s *Store) AddArtist(feedID string, artist Artist) (added bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(feedID)
	if i < 0 {
		return false, ErrNotFound
	}
	if s.feeds[i].HasArtist(artist.ID) {
		return false, nil
	}
	next := cloneAll(s.feeds)
	next[i].Artists = append(next[i].Artists, artist)
	next[i].UpdatedAt = s.now().UTC()
	if err := s.commitFeeds(next); err != nil {
		return false, err
	}
	s.logger.Info().
		Str(mbzlog.FieldEvent, "feeds.artist_added").
		Str(mbzlog.FieldFeedID, feedID).
		Str(mbzlog.FieldArtistID, artist.ID).
		Msg("artist added to feed")
	return true, nil
}

// RemoveArtist drops artistID from the feed. UpdatedAt is bumped only when
// an artist was actually removed.
func (s *Store) RemoveArtist(feedID, artistID string) (removed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(feedID)
	if i < 0 {
		return false, ErrNotFound
	}
	next := cloneAll(s.feeds)
	kept := next[i].Artists[:0]
	for _, a := range next[i].Artists {
		if a.ID != artistID {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(s.feeds[i].Artists) {
		return false, nil
	}
	next[i].Artists = kept
	next[i].UpdatedAt = s.now().UTC()
	if err := s.commitFeeds(next); err != nil {
		return false, err
	}
	s.logger.Info().
		Str(mbzlog.FieldEvent, "feeds.artist_removed").
		Str(mbzlog.FieldFeedID, feedID).
		Str(mbzlog.FieldArtistID, artistID).
		Msg("artist removed from feed")
	return true, nil
}

// SaveSettings updates the non-nil values and persists the settings file.
func (s *Store) SaveSettings(daysBack, cacheTimeHours *int) (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.settings
	if daysBack != nil {
		next.DaysBack = *daysBack
	}
	if cacheTimeHours != nil {
		next.CacheTimeHours = *cacheTimeHours
	}
	if err := next.Validate(); err != nil {
		return s.settings, err
	}
	if s.settingsPath != "" {
		data, err := encodeSettings(next)
		if err != nil {
			return s.settings, err
		}
		if err := writeWithBackup(s.settingsPath, data, s.retainBackups, s.now()); err != nil {
			return s.settings, err
		}
	}
	s.settings = next
	s.logger.Info().
		Str(mbzlog.FieldEvent, "feeds.settings_saved").
		Int("days_back", next.DaysBack).
		Int("cache_time_hours", next.CacheTimeHours).
		Msg("settings saved")
	return next, nil
}

// Reload re-reads the feeds file. On error the previous state is kept.
func (s *Store) Reload() error {
	feeds, err := readFeedsFile(s.feedsPath)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.feeds = feeds
	s.mu.Unlock()
	s.notifyListeners()
	return nil
}

// RegisterListener registers a channel notified after every successful
// reload. Sends never block.
func (s *Store) RegisterListener(ch chan<- struct{}) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, ch)
}

func (s *Store) notifyListeners() {
	s.listenersMu.RLock()
	defer s.listenersMu.RUnlock()
	for _, ch := range s.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// commitFeeds persists next and swaps it in. Callers hold s.mu.
func (s *Store) commitFeeds(next []Feed) error {
	data, err := encodeFeeds(next)
	if err != nil {
		return err
	}
	if err := writeWithBackup(s.feedsPath, data, s.retainBackups, s.now()); err != nil {
		return err
	}
	s.feeds = next
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, f := range s.feeds {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(feeds []Feed) []Feed {
	out := make([]Feed, len(feeds), len(feeds)+1)
	for i, f := range feeds {
		out[i] = f.clone()
	}
	return out
}
