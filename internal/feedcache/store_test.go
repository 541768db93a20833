// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/mbzfeed/internal/feeds"
)

func TestStoreWriteAndLoad(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache"))
	build := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	content, err := Render(feeds.Feed{ID: "f1", Name: "Test"}, nil, build, "")
	require.NoError(t, err)

	require.NoError(t, s.Write(context.Background(), "f1", content))

	a, ok := s.Load("f1")
	require.True(t, ok)
	assert.Equal(t, content, a.Content)
	assert.Equal(t, filepath.Join(s.Dir(), "f1.xml"), a.Path)
	require.NotNil(t, a.BuildTime)
	assert.True(t, build.Equal(*a.BuildTime))

	ts := s.ReadBuildTimestamp("f1")
	require.NotNil(t, ts)
	assert.True(t, build.Equal(*ts))
}

func TestStoreMissingArtifact(t *testing.T) {
	s := NewStore(t.TempDir())

	_, ok := s.Load("nope")
	assert.False(t, ok)
	assert.Nil(t, s.ReadBuildTimestamp("nope"))
}

func TestStoreUnparsableArtifact(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.xml"), []byte("<rss><channel>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodate.xml"),
		[]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>x</title></channel></rss>`), 0o644))

	a, ok := s.Load("bad")
	assert.True(t, ok)
	assert.Nil(t, a.BuildTime)

	assert.Nil(t, s.ReadBuildTimestamp("nodate"))
}

func TestStoreRejectsPathTraversal(t *testing.T) {
	s := NewStore(t.TempDir())

	for _, id := range []string{"", "..", "../etc/passwd", `a\b`, "a/b"} {
		_, err := s.Path(id)
		assert.Error(t, err, id)
	}
	err := s.Write(context.Background(), "../escape", []byte("x"))
	var ioErr *CacheIOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestStoreWriteFailure(t *testing.T) {
	parent := t.TempDir()
	blocker := filepath.Join(parent, "cache")
	require.NoError(t, os.WriteFile(blocker, []byte("not a dir"), 0o644))
	s := NewStore(blocker)

	err := s.Write(context.Background(), "f1", []byte("x"))
	var ioErr *CacheIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "f1", ioErr.FeedID)
}

func TestStoreWriteReplacesExisting(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, "f1", []byte("old")))
	require.NoError(t, s.Write(ctx, "f1", []byte("new")))

	got, err := os.ReadFile(filepath.Join(s.Dir(), "f1.xml"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestStoreRemove(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Write(context.Background(), "f1", []byte("x")))

	require.NoError(t, s.Remove("f1"))
	require.NoError(t, s.Remove("f1"))
	_, ok := s.Load("f1")
	assert.False(t, ok)
}
