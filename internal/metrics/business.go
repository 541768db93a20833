// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package metrics holds the Prometheus collectors exported by mbzfeed.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	feedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbzfeed_feed_requests_total",
		Help: "Feed artifact requests by result",
	}, []string{"result"}) // result=fresh|rebuilt|not_found

	feedStaleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbzfeed_feed_stale_total",
		Help: "Cached artifacts found stale, by reason",
	}, []string{"reason"}) // reason=missing|feed_updated|expired

	feedBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mbzfeed_feed_build_duration_seconds",
		Help:    "Time spent aggregating and rendering a feed artifact",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
	})

	feedReleases = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mbzfeed_feed_releases",
		Help:    "Number of releases in a rebuilt feed artifact",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	cacheWriteErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbzfeed_cache_write_errors_total",
		Help: "Total number of failed cache artifact writes",
	})

	providerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbzfeed_provider_requests_total",
		Help: "MusicBrainz requests by operation and outcome",
	}, []string{"op", "outcome"}) // outcome=success|error|not_found|rate_limited|circuit_open

	dateParseFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mbzfeed_release_date_parse_failures_total",
		Help: "Release dates that matched none of the supported layouts",
	})

	searchCacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbzfeed_search_cache_requests_total",
		Help: "Artist search cache lookups by result",
	}, []string{"result"}) // result=hit|miss

	feedStoreReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mbzfeed_feed_store_reloads_total",
		Help: "Feed definition file reloads by outcome",
	}, []string{"outcome"}) // outcome=success|error
)

func IncFeedRequest(result string) { feedRequestsTotal.WithLabelValues(result).Inc() }
func IncFeedStale(reason string)   { feedStaleTotal.WithLabelValues(reason).Inc() }
func IncCacheWriteError()          { cacheWriteErrors.Inc() }
func IncDateParseFailure()         { dateParseFailures.Inc() }
func IncSearchCache(result string) { searchCacheRequests.WithLabelValues(result).Inc() }

func IncFeedStoreReload(outcome string) {
	feedStoreReloads.WithLabelValues(outcome).Inc()
}

// ObserveFeedBuild records the duration and size of one artifact rebuild.
func ObserveFeedBuild(d time.Duration, releases int) {
	feedBuildDuration.Observe(d.Seconds())
	feedReleases.Observe(float64(releases))
}

// RecordProviderRequest counts one MusicBrainz call.
func RecordProviderRequest(op, outcome string) {
	providerRequestsTotal.WithLabelValues(op, outcome).Inc()
}
