// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureAttachesServiceAndVersion(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "svc", Version: "1.2.3"})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	l := WithComponent("test")
	l.Info().Str(FieldEvent, "test.event").Msg("hello")

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "svc", got["service"])
	assert.Equal(t, "1.2.3", got["version"])
	assert.Equal(t, "test", got[FieldComponent])
	assert.Equal(t, "test.event", got[FieldEvent])
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestMiddlewareLogsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "info", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "info"}) })

	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/feed/{feedID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/feed/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	line := strings.TrimSpace(buf.String())
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &got))
	assert.Equal(t, "/feed/{feedID}", got[FieldRoute])
	assert.Equal(t, "/feed/abc", got[FieldPath])
	assert.Equal(t, float64(http.StatusNotFound), got["status"])
	assert.Equal(t, "warn", got["level"])
}
