// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package release

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw       string
		want      time.Time
		formatted string
	}{
		{"2023-06-15", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), "Thu, 15 Jun 2023 00:00:00 -0000"},
		{"2023-06", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), "Thu, 01 Jun 2023 00:00:00 -0000"},
		{"2023", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "Sun, 01 Jan 2023 00:00:00 -0000"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ts, formatted, ok := NormalizeDate(tt.raw)
			require.True(t, ok)
			require.NotNil(t, ts)
			assert.True(t, tt.want.Equal(*ts))
			assert.Equal(t, tt.formatted, formatted)
		})
	}
}

func TestNormalizeDateInvalid(t *testing.T) {
	for _, raw := range []string{"not-a-date", UnknownDate, "2023-13", "2023-02-30", "2023-06-15T10:00"} {
		t.Run(raw, func(t *testing.T) {
			ts, formatted, ok := NormalizeDate(raw)
			assert.False(t, ok)
			assert.Nil(t, ts)
			assert.Empty(t, formatted)
		})
	}
}

func TestNormalizeDateEmpty(t *testing.T) {
	ts, formatted, ok := NormalizeDate("")
	assert.True(t, ok)
	assert.Nil(t, ts)
	assert.Empty(t, formatted)
}

func TestFormatRFC822ConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("CEST", 2*60*60)
	got := FormatRFC822(time.Date(2024, 5, 1, 12, 30, 0, 0, loc))
	assert.Equal(t, "Wed, 01 May 2024 10:30:00 -0000", got)
}
