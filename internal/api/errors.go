// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ManuGH/mbzfeed/internal/feedcache"
	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

// problem is the JSON error body of every non-2xx API response.
type problem struct {
	Error     string `json:"error"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeProblem(w http.ResponseWriter, r *http.Request, code int, errCode, detail string) {
	writeJSON(w, code, problem{
		Error:     errCode,
		Detail:    detail,
		RequestID: log.RequestIDFromContext(r.Context()),
	})
}

// writeError maps domain errors to HTTP status codes. Unclassified errors
// are logged and reported as 500 without detail.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, feedcache.ErrFeedNotFound), errors.Is(err, feeds.ErrNotFound):
		writeProblem(w, r, http.StatusNotFound, "feed_not_found", err.Error())
	case errors.Is(err, feeds.ErrInvalidSettings):
		writeProblem(w, r, http.StatusBadRequest, "invalid_settings", err.Error())
	case errors.Is(err, musicbrainz.ErrRateLimited), errors.Is(err, musicbrainz.ErrCircuitOpen):
		writeProblem(w, r, http.StatusServiceUnavailable, "upstream_unavailable", err.Error())
	case errors.Is(err, musicbrainz.ErrTimeout):
		writeProblem(w, r, http.StatusGatewayTimeout, "upstream_timeout", err.Error())
	case errors.Is(err, musicbrainz.ErrUpstreamUnavailable),
		errors.Is(err, musicbrainz.ErrUpstreamError),
		errors.Is(err, musicbrainz.ErrBadResponse):
		writeProblem(w, r, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Error().
			Err(err).
			Str(log.FieldEvent, "api.internal_error").
			Str(log.FieldPath, r.URL.Path).
			Msg("request failed")
		writeProblem(w, r, http.StatusInternalServerError, "internal_error", "")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeProblem(w, r, http.StatusBadRequest, "invalid_body", err.Error())
		return false
	}
	return true
}
