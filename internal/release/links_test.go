// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package release

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ManuGH/mbzfeed/internal/musicbrainz"
)

func urlRel(target string) musicbrainz.Relation {
	return musicbrainz.Relation{Type: "free streaming", TargetType: "url", URL: musicbrainz.URLResource{Resource: target}}
}

func TestClassifyLinks(t *testing.T) {
	tests := []struct {
		name string
		rels []musicbrainz.Relation
		want Links
	}{
		{
			name: "no relations",
			want: Links{},
		},
		{
			name: "every category",
			rels: []musicbrainz.Relation{
				urlRel("https://www.imdb.com/title/tt1"),
				urlRel("https://music.apple.com/album/1"),
				urlRel("https://music.amazon.com/albums/B1"),
				urlRel("https://open.spotify.com/album/1"),
				urlRel("https://www.qobuz.com/album/1"),
				urlRel("https://www.deezer.com/album/1"),
				urlRel("https://www.beatport.com/release/x/1"),
			},
			want: Links{
				LinkIMDb:     "https://www.imdb.com/title/tt1",
				LinkApple:    "https://music.apple.com/album/1",
				LinkAmazon:   "https://music.amazon.com/albums/B1",
				LinkSpotify:  "https://open.spotify.com/album/1",
				LinkQobuz:    "https://www.qobuz.com/album/1",
				LinkDeezer:   "https://www.deezer.com/album/1",
				LinkBeatport: "https://www.beatport.com/release/x/1",
			},
		},
		{
			name: "last spotify wins",
			rels: []musicbrainz.Relation{
				urlRel("https://open.spotify.com/album/A"),
				urlRel("https://open.spotify.com/album/B"),
			},
			want: Links{LinkSpotify: "https://open.spotify.com/album/B"},
		},
		{
			name: "unmatched and empty targets ignored",
			rels: []musicbrainz.Relation{
				urlRel(""),
				urlRel("https://bandcamp.com/album/x"),
				urlRel("http://open.spotify.com/album/insecure"),
				urlRel("https://deezer.com/album/2"),
			},
			want: Links{LinkDeezer: "https://deezer.com/album/2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyLinks(tt.rels)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ClassifyLinks() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLinksStringMap(t *testing.T) {
	if got := (Links{}).StringMap(); got != nil {
		t.Errorf("empty links: got %v, want nil", got)
	}
	got := Links{LinkApple: "u"}.StringMap()
	if diff := cmp.Diff(map[string]string{"apple": "u"}, got); diff != "" {
		t.Errorf("StringMap() mismatch (-want +got):\n%s", diff)
	}
}
