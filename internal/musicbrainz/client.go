// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package musicbrainz is a small client for the MusicBrainz ws/2 JSON API.
// Requests are rate limited to the MusicBrainz policy and guarded by a circuit
// breaker so that an outage turns into fast per-artist failures.
package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/ManuGH/mbzfeed/internal/metrics"
	"github.com/ManuGH/mbzfeed/internal/telemetry"
)

const (
	DefaultBaseURL = "https://musicbrainz.org/ws/2"

	browsePageSize = 100
	searchLimit    = 10
	maxBodyBytes   = 8 << 20
	maxErrorBody   = 512
)

// Config holds client settings.
type Config struct {
	BaseURL          string
	AppName          string
	Version          string
	Contact          string
	Timeout          time.Duration
	RateLimit        float64 // requests per second; <= 0 disables limiting
	MaxPages         int     // browse pages fetched per artist
	BreakerThreshold int
	BreakerReset     time.Duration
}

// Client talks to MusicBrainz.
type Client struct {
	base      string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *CircuitBreaker
	maxPages  int
	tracer    trace.Tracer
}

// New builds a client from cfg, filling in defaults for zero values.
func New(cfg Config) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 1
	}
	reset := cfg.BreakerReset
	if reset <= 0 {
		reset = 30 * time.Second
	}

	return &Client{
		base:      base,
		userAgent: UserAgent(cfg.AppName, cfg.Version, cfg.Contact),
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter:  rate.NewLimiter(limit, 1),
		breaker:  NewCircuitBreaker(cfg.BreakerThreshold, reset),
		maxPages: maxPages,
		tracer:   telemetry.Tracer("mbzfeed/musicbrainz"),
	}
}

// UserAgent formats the identification string MusicBrainz asks clients to send.
func UserAgent(app, version, contact string) string {
	if app == "" {
		app = "mbz-rss-service"
	}
	if version == "" {
		version = "1"
	}
	if contact == "" {
		return fmt.Sprintf("%s/%s", app, version)
	}
	return fmt.Sprintf("%s/%s ( %s )", app, version, contact)
}

// Breaker exposes the circuit breaker for health reporting.
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

// BrowseAlbumReleases returns the album releases of an artist including
// release groups and url relations. Pages are fetched until the reported
// release count or the configured page budget is reached.
func (c *Client) BrowseAlbumReleases(ctx context.Context, artistID string) ([]Release, error) {
	ctx, span := c.tracer.Start(ctx, "musicbrainz.browse_releases",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("musicbrainz.artist_id", artistID)),
	)
	defer span.End()

	var out []Release
	offset := 0
	for page := 0; page < c.maxPages; page++ {
		q := url.Values{}
		q.Set("artist", artistID)
		q.Set("type", "album")
		q.Set("inc", "release-groups url-rels")
		q.Set("limit", strconv.Itoa(browsePageSize))
		q.Set("offset", strconv.Itoa(offset))

		var resp browseReleasesResponse
		if err := c.getJSON(ctx, "browse_releases", "/release", q, &resp); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		out = append(out, resp.Releases...)
		offset += len(resp.Releases)
		if len(resp.Releases) == 0 || offset >= resp.Count {
			break
		}
	}

	span.SetAttributes(attribute.Int("musicbrainz.releases", len(out)))
	return out, nil
}

// SearchArtists runs a free-text artist search and returns at most ten hits.
func (c *Client) SearchArtists(ctx context.Context, query string) ([]Artist, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(searchLimit))

	var resp searchArtistsResponse
	if err := c.getJSON(ctx, "search_artists", "/artist", q, &resp); err != nil {
		return nil, err
	}
	return resp.Artists, nil
}

// LookupArtist fetches one artist with its url relations.
func (c *Client) LookupArtist(ctx context.Context, artistID string) (Artist, error) {
	q := url.Values{}
	q.Set("inc", "url-rels")

	var artist Artist
	if err := c.getJSON(ctx, "lookup_artist", "/artist/"+url.PathEscape(artistID), q, &artist); err != nil {
		return Artist{}, err
	}
	return artist, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, q url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		err = &Error{Sentinel: ErrTimeout, Operation: op, Err: err}
		metrics.RecordProviderRequest(op, Outcome(err))
		return err
	}

	err := c.breaker.Execute(func() error {
		return c.doGet(ctx, op, path, q, dst)
	})
	if errors.Is(err, ErrCircuitOpen) {
		err = &Error{Sentinel: ErrCircuitOpen, Operation: op}
	}
	metrics.RecordProviderRequest(op, Outcome(err))
	return err
}

func (c *Client) doGet(ctx context.Context, op, path string, q url.Values, dst any) error {
	q.Set("fmt", "json")
	u := c.base + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Error{Sentinel: ErrUpstreamUnavailable, Operation: op, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return &Error{Sentinel: transportSentinel(err), Operation: op, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	body := io.LimitReader(res.Body, maxBodyBytes)
	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
		return &Error{
			Sentinel:  statusSentinel(res.StatusCode),
			Operation: op,
			Status:    res.StatusCode,
			Body:      strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return &Error{Sentinel: ErrBadResponse, Operation: op, Status: res.StatusCode, Err: err}
	}
	return nil
}

func statusSentinel(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable:
		return ErrRateLimited
	case status >= 500:
		return ErrUpstreamError
	default:
		return ErrBadResponse
	}
}

func transportSentinel(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return ErrUpstreamUnavailable
}
