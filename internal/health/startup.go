// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ManuGH/mbzfeed/internal/log"
)

// StartupPaths lists the directories the service writes to.
type StartupPaths struct {
	DataDir      string
	CacheDir     string
	FeedsFile    string
	SettingsFile string
}

// PerformStartupChecks creates the required directories and verifies they
// are writable before the server starts.
func PerformStartupChecks(p StartupPaths) error {
	logger := log.WithComponent("startup-check")

	dirs := []string{p.DataDir, p.CacheDir}
	for _, f := range []string{p.FeedsFile, p.SettingsFile} {
		if f != "" {
			dirs = append(dirs, filepath.Dir(f))
		}
	}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
		if err := checkWritableDir(dir); err != nil {
			return err
		}
		logger.Debug().Str("event", "startup.dir_ok").Str("path", dir).Msg("directory is writable")
	}

	logger.Info().Str("event", "startup.checks_passed").Msg("startup checks passed")
	return nil
}

func checkWritableDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}
	f, err := os.CreateTemp(path, ".write_test")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s: %w", path, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
