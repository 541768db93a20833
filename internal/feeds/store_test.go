// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feeds

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time           { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T, retain int) (*Store, *fakeClock) {
	t.Helper()
	dir := t.TempDir()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	n := 0
	s, err := Open(Options{
		FeedsPath:     filepath.Join(dir, "feeds.yml"),
		SettingsPath:  filepath.Join(dir, "etc", "mbz-rss-feeder.yml"),
		RetainBackups: retain,
		Now:           clock.Now,
		NewID: func() string {
			n++
			return fmt.Sprintf("feed-%d", n)
		},
	})
	require.NoError(t, err)
	return s, clock
}

func TestOpenMissingFilesUsesDefaults(t *testing.T) {
	s, _ := newTestStore(t, 0)

	assert.Empty(t, s.List())
	assert.Equal(t, DefaultSettings(), s.Settings())
	assert.Equal(t, 8*time.Hour, s.Settings().CacheTTL())
}

func TestOpenReadsExistingLayout(t *testing.T) {
	dir := t.TempDir()
	feedsPath := filepath.Join(dir, "feeds.yml")
	settingsPath := filepath.Join(dir, "settings.yml")
	require.NoError(t, os.WriteFile(feedsPath, []byte(`feeds:
- id: 0b7c
  name: Metal
  artists:
  - id: a1
    name: Opeth
    links:
      spotify: https://open.spotify.com/artist/x
  created_at: '2024-01-02T03:04:05.123456+00:00'
  updated_at: '2024-02-03T04:05:06+00:00'
`), 0o644))
	require.NoError(t, os.WriteFile(settingsPath, []byte("service:\n  days_back: 30\n"), 0o644))

	s, err := Open(Options{FeedsPath: feedsPath, SettingsPath: settingsPath})
	require.NoError(t, err)

	f, ok := s.Feed("0b7c")
	require.True(t, ok)
	assert.Equal(t, "Metal", f.Name)
	require.Len(t, f.Artists, 1)
	assert.Equal(t, "https://open.spotify.com/artist/x", f.Artists[0].Links["spotify"])
	assert.Equal(t, time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC), f.UpdatedAt)
	assert.Equal(t, Settings{DaysBack: 30, CacheTimeHours: 8}, s.Settings())
}

func TestOpenRejectsMalformedFeeds(t *testing.T) {
	dir := t.TempDir()
	feedsPath := filepath.Join(dir, "feeds.yml")
	require.NoError(t, os.WriteFile(feedsPath, []byte("feeds: [\n"), 0o644))

	_, err := Open(Options{FeedsPath: feedsPath})
	require.Error(t, err)
}

func TestAddFeedPersists(t *testing.T) {
	s, clock := newTestStore(t, 0)

	f, err := s.AddFeed("Jazz")
	require.NoError(t, err)
	assert.Equal(t, "feed-1", f.ID)
	assert.Equal(t, clock.Now(), f.CreatedAt)
	assert.Equal(t, clock.Now(), f.UpdatedAt)

	reopened, err := Open(Options{FeedsPath: s.FeedsPath()})
	require.NoError(t, err)
	got, ok := reopened.Feed("feed-1")
	require.True(t, ok)
	assert.Equal(t, "Jazz", got.Name)
	assert.Equal(t, f.CreatedAt, got.CreatedAt)
}

func TestAddArtistBumpsUpdatedAtOnlyOnChange(t *testing.T) {
	s, clock := newTestStore(t, 0)
	f, err := s.AddFeed("Rock")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	added, err := s.AddArtist(f.ID, Artist{ID: "a1", Name: "Opeth"})
	require.NoError(t, err)
	assert.True(t, added)

	got, _ := s.Feed(f.ID)
	assert.Equal(t, clock.Now(), got.UpdatedAt)

	clock.Advance(time.Hour)
	added, err = s.AddArtist(f.ID, Artist{ID: "a1", Name: "Opeth again"})
	require.NoError(t, err)
	assert.False(t, added)

	got, _ = s.Feed(f.ID)
	assert.Equal(t, clock.Now().Add(-time.Hour), got.UpdatedAt)
	require.Len(t, got.Artists, 1)
	assert.Equal(t, "Opeth", got.Artists[0].Name)
}

func TestRemoveArtist(t *testing.T) {
	s, clock := newTestStore(t, 0)
	f, err := s.AddFeed("Rock")
	require.NoError(t, err)
	_, err = s.AddArtist(f.ID, Artist{ID: "a1", Name: "Opeth"})
	require.NoError(t, err)
	_, err = s.AddArtist(f.ID, Artist{ID: "a2", Name: "Tool"})
	require.NoError(t, err)
	before, _ := s.Feed(f.ID)

	clock.Advance(time.Minute)
	removed, err := s.RemoveArtist(f.ID, "missing")
	require.NoError(t, err)
	assert.False(t, removed)
	got, _ := s.Feed(f.ID)
	assert.Equal(t, before.UpdatedAt, got.UpdatedAt)

	removed, err = s.RemoveArtist(f.ID, "a1")
	require.NoError(t, err)
	assert.True(t, removed)
	got, _ = s.Feed(f.ID)
	assert.Equal(t, clock.Now(), got.UpdatedAt)
	require.Len(t, got.Artists, 1)
	assert.Equal(t, "a2", got.Artists[0].ID)
}

func TestUnknownFeed(t *testing.T) {
	s, _ := newTestStore(t, 0)

	_, err := s.AddArtist("nope", Artist{ID: "a1"})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.RemoveArtist("nope", "a1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.DeleteFeed("nope"), ErrNotFound)
}

func TestDeleteFeed(t *testing.T) {
	s, _ := newTestStore(t, 0)
	a, err := s.AddFeed("A")
	require.NoError(t, err)
	b, err := s.AddFeed("B")
	require.NoError(t, err)

	require.NoError(t, s.DeleteFeed(a.ID))

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, b.ID, list[0].ID)
}

func TestFeedReturnsCopy(t *testing.T) {
	s, _ := newTestStore(t, 0)
	f, err := s.AddFeed("A")
	require.NoError(t, err)
	_, err = s.AddArtist(f.ID, Artist{ID: "a1", Name: "X", Links: map[string]string{"apple": "u"}})
	require.NoError(t, err)

	got, _ := s.Feed(f.ID)
	got.Artists[0].Name = "mutated"
	got.Artists[0].Links["apple"] = "mutated"

	again, _ := s.Feed(f.ID)
	assert.Equal(t, "X", again.Artists[0].Name)
	assert.Equal(t, "u", again.Artists[0].Links["apple"])
}

func TestArtistName(t *testing.T) {
	s, _ := newTestStore(t, 0)
	f, err := s.AddFeed("A")
	require.NoError(t, err)
	_, err = s.AddArtist(f.ID, Artist{ID: "a1", Name: "Opeth"})
	require.NoError(t, err)

	assert.Equal(t, "Opeth", s.ArtistName("a1"))
	assert.Equal(t, UnknownArtist, s.ArtistName("a2"))
}

func TestSaveSettings(t *testing.T) {
	s, _ := newTestStore(t, 0)

	hours := 2
	got, err := s.SaveSettings(nil, &hours)
	require.NoError(t, err)
	assert.Equal(t, Settings{DaysBack: 0, CacheTimeHours: 2}, got)

	reopened, err := Open(Options{FeedsPath: s.FeedsPath(), SettingsPath: s.settingsPath})
	require.NoError(t, err)
	assert.Equal(t, got, reopened.Settings())

	negative := -1
	_, err = s.SaveSettings(&negative, nil)
	require.Error(t, err)
	assert.Equal(t, got, s.Settings())
}

func TestBackupsAreRetained(t *testing.T) {
	s, clock := newTestStore(t, 2)

	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		_, err := s.AddFeed(fmt.Sprintf("f%d", i))
		require.NoError(t, err)
	}

	backups, err := listBackups(s.FeedsPath())
	require.NoError(t, err)
	require.Len(t, backups, 2)
	// The newest backup holds the state before the last write.
	last, err := readFeedsFile(backups[1])
	require.NoError(t, err)
	assert.Len(t, last, 3)
}

func TestReloadKeepsStateOnError(t *testing.T) {
	s, _ := newTestStore(t, 0)
	_, err := s.AddFeed("A")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(s.FeedsPath(), []byte("feeds: [\n"), 0o644))
	require.Error(t, s.Reload())
	assert.Len(t, s.List(), 1)
}
