// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"errors"
	"fmt"
)

// ErrFeedNotFound is returned by GetOrBuild for undefined feed ids.
var ErrFeedNotFound = errors.New("feedcache: feed not found")

// CacheIOError reports a failed artifact write or removal. It is never fatal
// to a request.
type CacheIOError struct {
	FeedID string
	Path   string
	Op     string
	Err    error
}

func (e *CacheIOError) Error() string {
	return fmt.Sprintf("feedcache: %s %s (feed %s): %v", e.Op, e.Path, e.FeedID, e.Err)
}

func (e *CacheIOError) Unwrap() error { return e.Err }
