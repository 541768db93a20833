// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package release

import (
	"regexp"

	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

// LinkCategory names a well-known streaming or database site.
type LinkCategory string

const (
	LinkIMDb     LinkCategory = "IMDb"
	LinkApple    LinkCategory = "apple"
	LinkAmazon   LinkCategory = "amazon"
	LinkSpotify  LinkCategory = "spotify"
	LinkQobuz    LinkCategory = "qobuz"
	LinkDeezer   LinkCategory = "deezer"
	LinkBeatport LinkCategory = "beatport"
)

// Links maps a category to a single URL.
type Links map[LinkCategory]string

// Categories lists the link categories in classification order.
var Categories = []LinkCategory{
	LinkIMDb, LinkApple, LinkAmazon, LinkSpotify, LinkQobuz, LinkDeezer, LinkBeatport,
}

var linkPatterns = []struct {
	category LinkCategory
	re       *regexp.Regexp
}{
	{LinkIMDb, regexp.MustCompile(`^https://([^/]+\.)?imdb\.com`)},
	{LinkApple, regexp.MustCompile(`^https://music\.apple\.com`)},
	{LinkAmazon, regexp.MustCompile(`^https://music\.amazon\.com`)},
	{LinkSpotify, regexp.MustCompile(`^https://open\.spotify\.com`)},
	{LinkQobuz, regexp.MustCompile(`^https://([^/]+\.)?qobuz\.com`)},
	{LinkDeezer, regexp.MustCompile(`^https://([^/]+\.)?deezer\.com`)},
	{LinkBeatport, regexp.MustCompile(`^https://([^/]+\.)?beatport\.com`)},
}

// ClassifyLinks assigns each relation target to the first matching category.
// When several relations land in the same category the last one wins.
// The result is never nil.
func ClassifyLinks(rels []musicbrainz.Relation) Links {
	links := Links{}
	for _, rel := range rels {
		target := rel.Target()
		if target == "" {
			continue
		}
		if cat, ok := classify(target); ok {
			links[cat] = target
		}
	}
	return links
}

func classify(target string) (LinkCategory, bool) {
	for _, p := range linkPatterns {
		if p.re.MatchString(target) {
			return p.category, true
		}
	}
	return "", false
}

// StringMap converts the links to plain string keys for YAML/JSON storage.
func (l Links) StringMap() map[string]string {
	if len(l) == 0 {
		return nil
	}
	out := make(map[string]string, len(l))
	for k, v := range l {
		out[string(k)] = v
	}
	return out
}
