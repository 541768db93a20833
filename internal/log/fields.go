// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID     = "request_id"
	FieldCorrelationID = "correlation_id"
	FieldTraceID       = "trace_id"
	FieldSpanID        = "span_id"
	FieldFeedID        = "feed_id"
	FieldArtistID      = "artist_id"
	FieldReleaseID     = "release_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Cache fields
	FieldReason    = "reason"
	FieldBuildTime = "build_time"
	FieldTTL       = "ttl"

	// Path / URL fields
	FieldPath    = "path"
	FieldBaseURL = "base_url"
	FieldRoute   = "route"
)
