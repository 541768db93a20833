// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package feedcache

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/mbzfeed/internal/telemetry"
)

const meterName = "mbzfeed/feedcache"

// emitStalenessObs records one staleness decision on the span and as an
// OpenTelemetry counter. The meter provider is looked up per call so that a
// provider installed after startup is honoured.
func emitStalenessObs(ctx context.Context, span trace.Span, stale bool, reason StaleReason) {
	span.SetAttributes(telemetry.StalenessAttributes(stale, string(reason))...)

	meter := otel.GetMeterProvider().Meter(meterName)
	decisions, err := meter.Int64Counter("mbzfeed.feed.staleness_decisions",
		metric.WithDescription("Feed artifact staleness decisions by reason"))
	if err != nil {
		return
	}
	decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("stale", stale),
		attribute.String("reason", string(reason)),
	))
}
