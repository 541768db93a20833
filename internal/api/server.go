// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api exposes feed artifacts and feed management over HTTP.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/mbzfeed/internal/api/middleware"
	"github.com/ManuGH/mbzfeed/internal/cache"
	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/health"
	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

// FeedStore is the feed definition store.
type FeedStore interface {
	List() []feeds.Feed
	Feed(id string) (feeds.Feed, bool)
	AddFeed(name string) (feeds.Feed, error)
	DeleteFeed(id string) error
	AddArtist(feedID string, artist feeds.Artist) (bool, error)
	RemoveArtist(feedID, artistID string) (bool, error)
	ArtistName(artistID string) string
	Settings() feeds.Settings
	SaveSettings(daysBack, cacheTimeHours *int) (feeds.Settings, error)
}

// FeedBuilder serves feed artifacts, regenerating them when stale.
type FeedBuilder interface {
	GetOrBuild(ctx context.Context, feedID string) ([]byte, error)
}

// ArtifactRemover drops a cached artifact.
type ArtifactRemover interface {
	Remove(feedID string) error
}

// ArtistDirectory answers artist search and lookup queries.
type ArtistDirectory interface {
	SearchArtists(ctx context.Context, query string) ([]musicbrainz.Artist, error)
	LookupArtist(ctx context.Context, artistID string) (musicbrainz.Artist, error)
}

// Deps are the collaborators of a Server. Search and Health are optional.
type Deps struct {
	Feeds     FeedStore
	Builder   FeedBuilder
	Artifacts ArtifactRemover
	Directory ArtistDirectory
	Search    *cache.ArtistSearch
	Health    *health.Manager

	PublicURL      string
	RateLimit      int // requests per minute per client, 0 disables
	TracingService string
}

// Server is the HTTP front end.
type Server struct {
	deps      Deps
	publicURL string
}

// New creates a Server.
func New(deps Deps) *Server {
	return &Server{
		deps:      deps,
		publicURL: strings.TrimRight(deps.PublicURL, "/"),
	}
}

// Handler returns the routed handler with the full middleware stack.
func (s *Server) Handler() http.Handler {
	r := middleware.NewRouter(middleware.StackConfig{
		EnableMetrics:  true,
		TracingService: s.deps.TracingService,
		EnableLogging:  true,
		RateLimit:      s.deps.RateLimit,
	})
	s.registerRoutes(r)
	return r
}

func (s *Server) registerRoutes(r chi.Router) {
	if s.deps.Health != nil {
		r.Get("/healthz", s.deps.Health.ServeHealth)
		r.Get("/readyz", s.deps.Health.ServeReady)
	}
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/feed/{feedID}", s.handleFeed)
	r.Head("/feed/{feedID}", s.handleFeed)
	r.Get("/opml", s.handleOPML)

	r.Route("/api", func(r chi.Router) {
		r.Get("/feeds", s.handleListFeeds)
		r.Post("/feeds", s.handleCreateFeed)
		r.Get("/feeds/{feedID}", s.handleGetFeed)
		r.Delete("/feeds/{feedID}", s.handleDeleteFeed)
		r.Post("/feeds/{feedID}/artists", s.handleAddArtist)
		r.Delete("/feeds/{feedID}/artists/{artistID}", s.handleRemoveArtist)

		r.With(middleware.SearchRateLimit()).Get("/artists/search", s.handleSearchArtists)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusNotFound, "not_found", "no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeProblem(w, r, http.StatusMethodNotAllowed, "method_not_allowed", r.Method+" is not supported here")
	})
}

func (s *Server) feedURL(feedID string) string {
	return s.publicURL + "/feed/" + feedID
}
