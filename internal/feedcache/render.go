// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/ManuGH/mbzfeed/internal/feeds"
	"github.com/ManuGH/mbzfeed/internal/release"
)

const (
	musicBrainzURL = "https://musicbrainz.org"
	coverArtURL    = "https://coverartarchive.org"
	generator      = "mbzfeed"
)

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Generator     string    `xml:"generator,omitempty"`
	PubDate       string    `xml:"pubDate,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        rssGUID       `xml:"guid"`
	PubDate     string        `xml:"pubDate,omitempty"`
	Description string        `xml:"description,omitempty"`
	Category    string        `xml:"category,omitempty"`
	Enclosure   *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length int    `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// Render produces the RSS 2.0 artifact of feed. buildTime becomes the
// channel lastBuildDate; publicURL, when set, is used for the channel link.
func Render(feed feeds.Feed, releases []release.Release, buildTime time.Time, publicURL string) ([]byte, error) {
	pub := feed.UpdatedAt
	if pub.IsZero() {
		pub = buildTime
	}

	link := musicBrainzURL
	if publicURL != "" {
		link = strings.TrimRight(publicURL, "/") + "/feed/" + feed.ID
	}

	doc := rssDocument{
		Version: "2.0",
		Channel: rssChannel{
			Title:         feed.Name,
			Link:          link,
			Description:   fmt.Sprintf("New releases for %s from MusicBrainz", feed.Name),
			Generator:     generator,
			PubDate:       release.FormatRFC822(pub),
			LastBuildDate: release.FormatRFC822(buildTime),
			Items:         make([]rssItem, 0, len(releases)),
		},
	}
	for _, r := range releases {
		doc.Channel.Items = append(doc.Channel.Items, renderItem(r))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode rss: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func renderItem(r release.Release) rssItem {
	item := rssItem{
		Title:       fmt.Sprintf("%s - %s", r.Artist.Name, r.Title),
		Link:        musicBrainzURL + "/release/" + r.ID,
		GUID:        rssGUID{Value: r.ID},
		PubDate:     r.PubDate,
		Description: itemDescription(r),
		Category:    r.ReleaseGroup.PrimaryType,
	}
	if r.HasCoverArt {
		item.Enclosure = &rssEnclosure{
			URL:  fmt.Sprintf("%s/release/%s/front-250", coverArtURL, r.ID),
			Type: "image/jpeg",
		}
	}
	return item
}

func itemDescription(r release.Release) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s by %s, released %s</p>",
		html.EscapeString(r.Title), html.EscapeString(r.Artist.Name), html.EscapeString(r.Date))
	if len(r.Links) == 0 {
		return b.String()
	}
	b.WriteString("<ul>")
	for _, cat := range release.Categories {
		u, ok := r.Links[cat]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`, html.EscapeString(u), html.EscapeString(string(cat)))
	}
	b.WriteString("</ul>")
	return b.String()
}
