// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mbzfeed/internal/log"
)

func TestStack_RequestIDPropagated(t *testing.T) {
	r := NewRouter(StackConfig{})
	var seen string
	r.Get("/x", func(w http.ResponseWriter, r *http.Request) {
		seen = log.RequestIDFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", w.Header().Get(HeaderRequestID))
}

func TestStack_RequestIDGenerated(t *testing.T) {
	r := NewRouter(StackConfig{})
	r.Get("/x", func(http.ResponseWriter, *http.Request) {})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("a", maxRequestIDLen+1))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	id := w.Header().Get(HeaderRequestID)
	assert.Len(t, id, 36)
}

func TestStack_RecoversPanic(t *testing.T) {
	r := NewRouter(StackConfig{EnableMetrics: true, EnableLogging: true})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body["error"])
	assert.Equal(t, "req-1", body["requestId"])
}

func TestShouldTrace(t *testing.T) {
	for path, want := range map[string]bool{
		"/healthz":   false,
		"/metrics":   false,
		"/feed/abc":  true,
		"/api/feeds": true,
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		assert.Equal(t, want, shouldTrace(req), path)
	}
}
