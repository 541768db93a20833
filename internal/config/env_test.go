// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"No", false},
		{"maybe", true}, // invalid falls back to default
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("MBZFEED_TEST_BOOL", tt.value)
			assert.Equal(t, tt.want, ParseBool("MBZFEED_TEST_BOOL", true))
		})
	}
}

func TestParseNumbersAndDurations(t *testing.T) {
	t.Setenv("MBZFEED_TEST_INT", "42")
	t.Setenv("MBZFEED_TEST_FLOAT", "0.5")
	t.Setenv("MBZFEED_TEST_DURATION", "90s")
	t.Setenv("MBZFEED_TEST_BAD_DURATION", "90")

	assert.Equal(t, 42, ParseInt("MBZFEED_TEST_INT", 1))
	assert.InDelta(t, 0.5, ParseFloat("MBZFEED_TEST_FLOAT", 1), 1e-9)
	assert.Equal(t, 90*time.Second, ParseDuration("MBZFEED_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, ParseDuration("MBZFEED_TEST_BAD_DURATION", time.Second))
	assert.Equal(t, "fallback", ParseString("MBZFEED_TEST_UNSET", "fallback"))
}
