// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package release

import (
	"time"
)

// RFC822Date is the layout used for pubDate and lastBuildDate values. The
// numeric "-0000" zone matches what existing subscribers already parse.
const RFC822Date = "Mon, 02 Jan 2006 15:04:05 -0000"

// dateLayouts are tried in order; missing month and day default to 1.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
}

// NormalizeDate parses a MusicBrainz partial date (YYYY, YYYY-MM or
// YYYY-MM-DD) into a UTC timestamp and its RFC822Date rendering.
//
// ok is false only when raw is non-empty and matches no layout; an empty raw
// value yields (nil, "", true).
func NormalizeDate(raw string) (ts *time.Time, formatted string, ok bool) {
	if raw == "" {
		return nil, "", true
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err != nil {
			continue
		}
		return &t, FormatRFC822(t), true
	}
	return nil, "", false
}

// FormatRFC822 renders t in UTC using RFC822Date.
func FormatRFC822(t time.Time) string {
	return t.UTC().Format(RFC822Date)
}
