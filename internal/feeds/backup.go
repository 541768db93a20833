// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feeds

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/renameio/v2"
)

const backupStampLayout = "20060102150405"

// writeWithBackup copies the current file to <path>.<stamp>.bak when retain
// is positive, prunes all but the newest retain backups, then atomically
// replaces path with data.
func writeWithBackup(path string, data []byte, retain int, now time.Time) error {
	if retain > 0 {
		if err := backupFile(path, now); err != nil {
			return err
		}
		if err := pruneBackups(path, retain); err != nil {
			return err
		}
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

func backupFile(path string, now time.Time) error {
	current, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s for backup: %w", path, err)
	}
	dst := backupPath(path, now)
	if err := renameio.WriteFile(dst, current, 0o644); err != nil {
		return fmt.Errorf("write backup %s: %w", dst, err)
	}
	return nil
}

func backupPath(path string, now time.Time) string {
	return fmt.Sprintf("%s.%s.bak", path, now.UTC().Format(backupStampLayout))
}

// listBackups returns existing backups of path, oldest first.
func listBackups(path string) ([]string, error) {
	matches, err := filepath.Glob(globEscape(path) + ".*.bak")
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

func pruneBackups(path string, retain int) error {
	backups, err := listBackups(path)
	if err != nil {
		return fmt.Errorf("list backups of %s: %w", path, err)
	}
	for len(backups) > retain {
		if err := os.Remove(backups[0]); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove backup %s: %w", backups[0], err)
		}
		backups = backups[1:]
	}
	return nil
}

func globEscape(path string) string {
	var out []rune
	for _, r := range path {
		switch r {
		case '*', '?', '[', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
