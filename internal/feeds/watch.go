// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feeds

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	mbzlog "github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/metrics"
)

const reloadDebounce = 500 * time.Millisecond

// Watch reloads the feeds file whenever it changes on disk until ctx is
// done. The parent directory is watched because atomic replacement swaps the
// file's inode. Watch returns once the watcher is running; done is closed
// after the watch goroutine has exited.
func (s *Store) Watch(ctx context.Context) (done <-chan struct{}, err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(s.feedsPath)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	s.logger.Info().
		Str(mbzlog.FieldEvent, "feeds.watcher_started").
		Str(mbzlog.FieldPath, s.feedsPath).
		Msg("watching feeds file for changes")

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		s.watchLoop(ctx, watcher)
	}()
	return ch, nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() { _ = watcher.Close() }()

	name := filepath.Clean(s.feedsPath)
	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str(mbzlog.FieldEvent, "feeds.watcher_stopped").Msg("feeds watcher stopped")
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.logger.Debug().
				Str(mbzlog.FieldEvent, "feeds.file_changed").
				Str("op", event.Op.String()).
				Msg("feeds file changed")
			if debounce == nil {
				debounce = time.NewTimer(reloadDebounce)
			} else {
				debounce.Reset(reloadDebounce)
			}
			fire = debounce.C

		case <-fire:
			fire = nil
			if err := s.Reload(); err != nil {
				metrics.IncFeedStoreReload("error")
				s.logger.Error().
					Err(err).
					Str(mbzlog.FieldEvent, "feeds.reload_failed").
					Msg("feeds reload failed, keeping previous definitions")
				continue
			}
			metrics.IncFeedStoreReload("success")
			s.logger.Info().
				Str(mbzlog.FieldEvent, "feeds.reloaded").
				Int("feeds", len(s.List())).
				Msg("feed definitions reloaded")

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error().
				Err(err).
				Str(mbzlog.FieldEvent, "feeds.watcher_error").
				Msg("feeds watcher error")
		}
	}
}
