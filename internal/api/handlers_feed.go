// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package api

import (
	"encoding/xml"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/mbzfeed/internal/log"
	"github.com/ManuGH/mbzfeed/internal/release"
)

// handleFeed serves the RSS artifact of one feed.
func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	feedID := chi.URLParam(r, "feedID")
	content, err := s.deps.Builder.GetOrBuild(r.Context(), feedID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(content); err != nil {
		logger := log.WithComponentFromContext(r.Context(), "api")
		logger.Debug().Err(err).Str(log.FieldEvent, "api.feed_write_failed").Msg("client went away")
	}
}

type opmlDocument struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    opmlHead `xml:"head"`
	Body    opmlBody `xml:"body"`
}

type opmlHead struct {
	Title       string `xml:"title"`
	DateCreated string `xml:"dateCreated"`
}

type opmlBody struct {
	Outlines []opmlOutline `xml:"outline"`
}

type opmlOutline struct {
	Type   string `xml:"type,attr"`
	Text   string `xml:"text,attr"`
	Title  string `xml:"title,attr"`
	XMLURL string `xml:"xmlUrl,attr"`
}

// handleOPML lists every feed as an OPML 2.0 subscription list.
func (s *Server) handleOPML(w http.ResponseWriter, r *http.Request) {
	list := s.deps.Feeds.List()
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })

	doc := opmlDocument{
		Version: "2.0",
		Head: opmlHead{
			Title:       "MusicBrainz release feeds",
			DateCreated: release.FormatRFC822(time.Now()),
		},
	}
	for _, f := range list {
		doc.Body.Outlines = append(doc.Body.Outlines, opmlOutline{
			Type:   "rss",
			Text:   f.Name,
			Title:  f.Name,
			XMLURL: s.feedURL(f.ID),
		})
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/x-opml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(xml.Header))
	_, _ = w.Write(out)
}
