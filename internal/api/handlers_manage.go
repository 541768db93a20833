// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/release"
)

func (s *Server) handleListFeeds(w http.ResponseWriter, _ *http.Request) {
	list := s.deps.Feeds.List()
	out := make([]feedView, 0, len(list))
	for _, f := range list {
		out = append(out, s.toFeedView(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetFeed(w http.ResponseWriter, r *http.Request) {
	f, ok := s.deps.Feeds.Feed(chi.URLParam(r, "feedID"))
	if !ok {
		writeError(w, r, feeds.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.toFeedView(f))
}

func (s *Server) handleCreateFeed(w http.ResponseWriter, r *http.Request) {
	var req createFeedRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeProblem(w, r, http.StatusBadRequest, "invalid_body", "name is required")
		return
	}
	f, err := s.deps.Feeds.AddFeed(name)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/feeds/"+f.ID)
	writeJSON(w, http.StatusCreated, s.toFeedView(f))
}

// handleDeleteFeed removes the definition and its cached artifact.
func (s *Server) handleDeleteFeed(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "feedID")
	if err := s.deps.Feeds.DeleteFeed(feedID); err != nil {
		writeError(w, r, err)
		return
	}
	if s.deps.Artifacts != nil {
		if err := s.deps.Artifacts.Remove(feedID); err != nil {
			logger := log.WithComponentFromContext(r.Context(), "api")
			logger.Warn().
				Err(err).
				Str(log.FieldEvent, "api.artifact_remove_failed").
				Str(log.FieldFeedID, feedID).
				Msg("feed deleted but cached artifact could not be removed")
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddArtist follows an artist. Links come from a MusicBrainz lookup;
// a failed lookup still adds the artist, without links.
func (s *Server) handleAddArtist(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "feedID")
	var req addArtistRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	artistID := strings.TrimSpace(req.ID)
	if artistID == "" {
		writeProblem(w, r, http.StatusBadRequest, "invalid_body", "id is required")
		return
	}
	if _, ok := s.deps.Feeds.Feed(feedID); !ok {
		writeError(w, r, feeds.ErrNotFound)
		return
	}

	artist := feeds.Artist{ID: artistID, Name: strings.TrimSpace(req.Name)}
	if s.deps.Directory != nil {
		meta, err := s.deps.Directory.LookupArtist(r.Context(), artistID)
		if err != nil {
			logger := log.WithComponentFromContext(r.Context(), "api")
			logger.Warn().
				Err(err).
				Str(log.FieldEvent, "api.artist_lookup_failed").
				Str(log.FieldArtistID, artistID).
				Msg("artist lookup failed, adding without links")
		} else {
			artist.Links = release.ClassifyLinks(meta.Relations).StringMap()
			if artist.Name == "" {
				artist.Name = meta.Name
			}
		}
	}
	if artist.Name == "" {
		artist.Name = s.deps.Feeds.ArtistName(artistID)
	}

	added, err := s.deps.Feeds.AddArtist(feedID, artist)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, ok := s.deps.Feeds.Feed(feedID)
	if !ok {
		writeError(w, r, feeds.ErrNotFound)
		return
	}
	code := http.StatusOK
	if added {
		code = http.StatusCreated
	}
	writeJSON(w, code, addArtistResponse{Added: added, Feed: s.toFeedView(f)})
}

func (s *Server) handleRemoveArtist(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "feedID")
	artistID := chi.URLParam(r, "artistID")
	removed, err := s.deps.Feeds.RemoveArtist(feedID, artistID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !removed {
		writeProblem(w, r, http.StatusNotFound, "artist_not_found", "feed does not follow artist "+artistID)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSettingsView(s.deps.Feeds.Settings()))
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := s.deps.Feeds.SaveSettings(req.DaysBack, req.CacheTimeHours)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSettingsView(st))
}
