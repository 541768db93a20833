// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewProviderDisabledInstallsNoop(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Exporter: "grpc"})
	require.NoError(t, err)
	assert.Nil(t, p.tp)

	_, span := otel.Tracer("test").Start(context.Background(), "noop-check")
	defer span.End()
	assert.False(t, span.IsRecording())

	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewProviderRejectsUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Enabled: true, Exporter: "zipkin"})
	require.Error(t, err)
	assert.EqualError(t, err, "unsupported exporter type: zipkin (supported: grpc, http)")
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{rate: 1, want: "AlwaysOnSampler"},
		{rate: 2, want: "AlwaysOnSampler"},
		{rate: 0, want: "AlwaysOffSampler"},
		{rate: -1, want: "AlwaysOffSampler"},
		{rate: 0.5, want: "ParentBased"},
	}
	for _, tt := range tests {
		assert.Contains(t, sampler(tt.rate).Description(), tt.want, "rate %v", tt.rate)
	}
}

func TestShutdownWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, (&Provider{}).Shutdown(ctx))
}

func TestStalenessAttributes(t *testing.T) {
	attrs := StalenessAttributes(true, "expired")
	require.Len(t, attrs, 2)
	assert.Equal(t, "expired", attrs[1].Value.AsString())

	assert.Len(t, StalenessAttributes(false, ""), 1, "fresh decisions carry no reason")
}

func TestFeedAttributes(t *testing.T) {
	attrs := FeedAttributes("feed-1", 3)
	require.Len(t, attrs, 2)
	assert.Equal(t, FeedIDKey, string(attrs[0].Key))
	assert.Equal(t, "feed-1", attrs[0].Value.AsString())
	assert.Equal(t, int64(3), attrs[1].Value.AsInt64())
}
