// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"time"

	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

type artistView struct {
	ID    string            `json:"id"`
	Name  string            `json:"name"`
	Links map[string]string `json:"links,omitempty"`
}

type feedView struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	Artists   []artistView `json:"artists"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type settingsView struct {
	DaysBack       int `json:"days_back"`
	CacheTimeHours int `json:"cache_time_hours"`
}

type createFeedRequest struct {
	Name string `json:"name"`
}

type addArtistRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type addArtistResponse struct {
	Added bool     `json:"added"`
	Feed  feedView `json:"feed"`
}

type updateSettingsRequest struct {
	DaysBack       *int `json:"days_back"`
	CacheTimeHours *int `json:"cache_time_hours"`
}

type searchResult struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort_name,omitempty"`
	Disambiguation string `json:"disambiguation,omitempty"`
	Country        string `json:"country,omitempty"`
	Type           string `json:"type,omitempty"`
	Score          int    `json:"score"`
}

func (s *Server) toFeedView(f feeds.Feed) feedView {
	artists := make([]artistView, 0, len(f.Artists))
	for _, a := range f.Artists {
		artists = append(artists, artistView{ID: a.ID, Name: a.Name, Links: a.Links})
	}
	return feedView{
		ID:        f.ID,
		Name:      f.Name,
		URL:       s.feedURL(f.ID),
		Artists:   artists,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

func toSettingsView(st feeds.Settings) settingsView {
	return settingsView{DaysBack: st.DaysBack, CacheTimeHours: st.CacheTimeHours}
}

func toSearchResults(artists []musicbrainz.Artist) []searchResult {
	out := make([]searchResult, 0, len(artists))
	for _, a := range artists {
		out = append(out, searchResult{
			ID:             a.ID,
			Name:           a.Name,
			SortName:       a.SortName,
			Disambiguation: a.Disambiguation,
			Country:        a.Country,
			Type:           a.Type,
			Score:          a.Score,
		})
	}
	return out
}
