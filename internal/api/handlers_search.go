// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"
	"strings"
)

// handleSearchArtists proxies an artist name search to MusicBrainz through
// the search cache.
func (s *Server) handleSearchArtists(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeProblem(w, r, http.StatusBadRequest, "invalid_query", "q is required")
		return
	}
	if s.deps.Search != nil {
		if hit, ok := s.deps.Search.Lookup(r.Context(), query); ok {
			writeJSON(w, http.StatusOK, toSearchResults(hit))
			return
		}
	}
	if s.deps.Directory == nil {
		writeProblem(w, r, http.StatusServiceUnavailable, "upstream_unavailable", "artist search is not configured")
		return
	}
	artists, err := s.deps.Directory.SearchArtists(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if s.deps.Search != nil {
		s.deps.Search.Store(r.Context(), query, artists)
	}
	writeJSON(w, http.StatusOK, toSearchResults(artists))
}
