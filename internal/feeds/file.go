// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feeds

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// timestampLayout reads both Go and Python isoformat timestamps.
const timestampLayout = time.RFC3339Nano

type feedsFile struct {
	Feeds []feedEntry `yaml:"feeds"`
}

type feedEntry struct {
	ID        string        `yaml:"id"`
	Name      string        `yaml:"name"`
	Artists   []artistEntry `yaml:"artists"`
	CreatedAt string        `yaml:"created_at,omitempty"`
	UpdatedAt string        `yaml:"updated_at,omitempty"`
}

type artistEntry struct {
	ID    string            `yaml:"id"`
	Name  string            `yaml:"name"`
	Links map[string]string `yaml:"links,omitempty"`
}

type settingsFile struct {
	Service *serviceSection `yaml:"service"`
}

type serviceSection struct {
	DaysBack       *int `yaml:"days_back"`
	CacheTimeHours *int `yaml:"cache_time_hours"`
}

func readFeedsFile(path string) ([]Feed, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read feeds file: %w", err)
	}
	var file feedsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse feeds file %s: %w", path, err)
	}

	out := make([]Feed, 0, len(file.Feeds))
	for i, e := range file.Feeds {
		if e.ID == "" {
			return nil, fmt.Errorf("parse feeds file %s: feed #%d has no id", path, i)
		}
		f := Feed{ID: e.ID, Name: e.Name}
		if f.CreatedAt, err = parseTimestamp(e.CreatedAt); err != nil {
			return nil, fmt.Errorf("feed %s created_at: %w", e.ID, err)
		}
		if f.UpdatedAt, err = parseTimestamp(e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("feed %s updated_at: %w", e.ID, err)
		}
		for _, a := range e.Artists {
			f.Artists = append(f.Artists, Artist{ID: a.ID, Name: a.Name, Links: a.Links})
		}
		out = append(out, f)
	}
	return out, nil
}

func encodeFeeds(feeds []Feed) ([]byte, error) {
	file := feedsFile{Feeds: make([]feedEntry, 0, len(feeds))}
	for _, f := range feeds {
		e := feedEntry{
			ID:        f.ID,
			Name:      f.Name,
			Artists:   make([]artistEntry, 0, len(f.Artists)),
			CreatedAt: formatTimestamp(f.CreatedAt),
			UpdatedAt: formatTimestamp(f.UpdatedAt),
		}
		for _, a := range f.Artists {
			e.Artists = append(e.Artists, artistEntry{ID: a.ID, Name: a.Name, Links: a.Links})
		}
		file.Feeds = append(file.Feeds, e)
	}
	return marshalYAML(file)
}

func readSettingsFile(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings file: %w", err)
	}
	var file settingsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return s, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if file.Service != nil {
		if file.Service.DaysBack != nil {
			s.DaysBack = *file.Service.DaysBack
		}
		if file.Service.CacheTimeHours != nil {
			s.CacheTimeHours = *file.Service.CacheTimeHours
		}
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings file %s: %w", path, err)
	}
	return s, nil
}

func encodeSettings(s Settings) ([]byte, error) {
	return marshalYAML(settingsFile{Service: &serviceSection{
		DaysBack:       &s.DaysBack,
		CacheTimeHours: &s.CacheTimeHours,
	}})
}

func marshalYAML(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}
