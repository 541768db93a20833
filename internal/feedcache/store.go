// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/mmcdole/gofeed"
	"github.com/rs/zerolog"

	mbzlog "github.com/ManuGH/mbzfeed/internal/log"
)

// Artifact is a cached feed document.
type Artifact struct {
	FeedID    string
	Path      string
	Content   []byte
	BuildTime *time.Time // nil when lastBuildDate is absent or unreadable
}

// Store keeps one RSS artifact per feed in a flat directory.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore returns a store rooted at dir. The directory is created on the
// first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, logger: mbzlog.WithComponent("feedcache")}
}

// Dir returns the cache directory.
func (s *Store) Dir() string { return s.dir }

// Path returns <dir>/<feedID>.xml.
func (s *Store) Path(feedID string) (string, error) {
	if feedID == "" || feedID == "." || feedID == ".." ||
		strings.ContainsAny(feedID, `/\`) || filepath.Base(feedID) != feedID {
		return "", fmt.Errorf("invalid feed id %q", feedID)
	}
	return filepath.Join(s.dir, feedID+".xml"), nil
}

// ReadBuildTimestamp returns the lastBuildDate of the cached artifact, or nil
// when there is no artifact or it cannot be parsed.
func (s *Store) ReadBuildTimestamp(feedID string) *time.Time {
	a, ok := s.Load(feedID)
	if !ok {
		return nil
	}
	return a.BuildTime
}

// Load reads the artifact and its build timestamp in one read. ok is false
// when no readable artifact exists.
func (s *Store) Load(feedID string) (Artifact, bool) {
	path, err := s.Path(feedID)
	if err != nil {
		return Artifact{}, false
	}
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Artifact{}, false
	}
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str(mbzlog.FieldEvent, "feedcache.read_failed").
			Str(mbzlog.FieldFeedID, feedID).
			Str(mbzlog.FieldPath, path).
			Msg("could not read cached feed, treating as missing")
		return Artifact{}, false
	}

	a := Artifact{FeedID: feedID, Path: path, Content: content}
	build, err := parseBuildTime(bytes.NewReader(content))
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str(mbzlog.FieldEvent, "feedcache.parse_failed").
			Str(mbzlog.FieldFeedID, feedID).
			Str(mbzlog.FieldPath, path).
			Msg("could not parse cached feed")
		return a, true
	}
	a.BuildTime = build
	return a, true
}

// Write atomically replaces the artifact of feedID with content. Readers
// observe either the previous or the new document.
func (s *Store) Write(ctx context.Context, feedID string, content []byte) error {
	path, err := s.Path(feedID)
	if err != nil {
		return &CacheIOError{FeedID: feedID, Path: s.dir, Op: "write", Err: err}
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &CacheIOError{FeedID: feedID, Path: s.dir, Op: "mkdir", Err: err}
	}

	logger := mbzlog.FromContext(ctx)
	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return &CacheIOError{FeedID: feedID, Path: path, Op: "create", Err: err}
	}
	defer func() {
		if err := pending.Cleanup(); err != nil {
			logger.Debug().Err(err).Msg("cleanup pending feed artifact")
		}
	}()

	if _, err := pending.Write(content); err != nil {
		return &CacheIOError{FeedID: feedID, Path: path, Op: "write", Err: err}
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return &CacheIOError{FeedID: feedID, Path: path, Op: "replace", Err: err}
	}
	return nil
}

// Remove deletes the artifact of feedID. A missing artifact is not an error.
func (s *Store) Remove(feedID string) error {
	path, err := s.Path(feedID)
	if err != nil {
		return &CacheIOError{FeedID: feedID, Path: s.dir, Op: "remove", Err: err}
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &CacheIOError{FeedID: feedID, Path: path, Op: "remove", Err: err}
	}
	return nil
}

func parseBuildTime(r io.Reader) (*time.Time, error) {
	feed, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, err
	}
	if feed.UpdatedParsed == nil {
		return nil, nil
	}
	t := feed.UpdatedParsed.UTC()
	return &t, nil
}
