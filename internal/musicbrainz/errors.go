// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package musicbrainz

import (
	"errors"
	"fmt"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound            = errors.New("musicbrainz: resource not found")
	ErrRateLimited         = errors.New("musicbrainz: rate limited (503/429)")
	ErrUpstreamUnavailable = errors.New("musicbrainz: host unreachable or transport failure")
	ErrUpstreamError       = errors.New("musicbrainz: internal error (5xx)")
	ErrBadResponse         = errors.New("musicbrainz: invalid response format or malformed data")
	ErrTimeout             = errors.New("musicbrainz: request timed out")
)

// Error wraps a sentinel error with the failing operation and HTTP details.
type Error struct {
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // lower-level cause (net.Error, json error, ...)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("musicbrainz: %s: %v", e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the sentinel and the lower-level cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Sentinel}
	}
	return []error{e.Sentinel, e.Err}
}

// Outcome maps an error to the metric label used for provider requests.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
