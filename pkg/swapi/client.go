// Package swapi provides the HTTP client for the public Star Wars catalog:
// planet search by name and record lookup by opaque reference.
package swapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/swapi-planet-search/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public catalog root.
const DefaultBaseURL = "https://swapi.dev/api"

// Prometheus metrics for catalog requests.
var (
	swapiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_requests_total",
		Help: "Total catalog requests by endpoint and status",
	}, []string{"endpoint", "status"})

	swapiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swapi_request_duration_seconds",
		Help:    "Catalog request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"endpoint"})

	swapiErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_errors_total",
		Help: "Total catalog errors by class",
	}, []string{"class"})
)

// Config holds the client configuration.
type Config struct {
	// BaseURL is the catalog root, e.g. "https://swapi.dev/api"
	BaseURL string

	// UserAgent header sent with every request
	UserAgent string

	// Timeout per request; zero disables it
	Timeout time.Duration

	// Redis enables the revalidation store when non-nil
	Redis *redis.Client
}

// DefaultConfig returns the configuration for the public catalog.
func DefaultConfig(userAgent string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: userAgent,
	}
}

// Client talks to the catalog. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	base       *url.URL
	store      *cache.Store
	config     Config
	logger     zerolog.Logger
}

// New creates a new catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !base.IsAbs() || base.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		base:       base,
		config:     cfg,
		logger:     log.With().Str("component", "swapi-client").Logger(),
	}
	if cfg.Redis != nil {
		c.store = cache.NewStore(cfg.Redis)
	}

	return c, nil
}

// SearchPlanets returns the planets whose name matches name, in catalog
// order.
func (c *Client) SearchPlanets(ctx context.Context, name string) ([]Planet, error) {
	ref := "planets/?search=" + url.QueryEscape(name)

	var page PlanetPage
	if err := c.getJSON(ctx, ref, &page); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("query", name).
		Int("matches", len(page.Results)).
		Msg("Planet search complete")

	return page.Results, nil
}

// GetPlanet fetches the planet-shaped record at ref.
func (c *Client) GetPlanet(ctx context.Context, ref string) (*Planet, error) {
	var planet Planet
	if err := c.getJSON(ctx, ref, &planet); err != nil {
		return nil, err
	}
	return &planet, nil
}

// GetPerson fetches the person record at ref.
func (c *Client) GetPerson(ctx context.Context, ref string) (*Person, error) {
	var person Person
	if err := c.getJSON(ctx, ref, &person); err != nil {
		return nil, err
	}
	return &person, nil
}

// Get performs a GET on ref, which is either an absolute catalog URL or a
// path relative to the base URL.
func (c *Client) Get(ctx context.Context, ref string) (*http.Response, error) {
	target, err := c.Resolve(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// Resolve turns a reference into an absolute URL. Absolute references are
// used as-is; the catalog hands them out and they are trusted.
func (c *Client) Resolve(ref string) (*url.URL, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrEmptyReference
	}

	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", ref, err)
	}

	if u.IsAbs() {
		return u, nil
	}

	u.Path = strings.TrimPrefix(u.Path, "/")
	return c.base.ResolveReference(u), nil
}

// Do executes req with conditional revalidation and error classification.
// Any status other than 200 is returned as an *APIError with the body
// already closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := c.endpointLabel(req.URL)

	startTime := time.Now()
	defer func() {
		swapiRequestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	var key cache.Key
	var stored *cache.Entry
	if c.store != nil {
		key = cache.KeyFor(req.URL)
		entry, err := c.store.Get(ctx, key)
		switch {
		case err == nil:
			stored = entry
		case !errors.Is(err, cache.ErrMiss):
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Revalidation store read failed")
		}

		if stored.HasValidator() {
			stored.Condition(req)
			c.logger.Debug().
				Str("endpoint", endpoint).
				Str("etag", stored.ETag).
				Msg("Making conditional request")
		}
	}

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", req.URL.String()).
		Msg("Executing catalog request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		swapiErrorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		swapiRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Catalog request failed")
		return nil, &APIError{
			Class:   ErrorClassNetwork,
			URL:     req.URL.String(),
			Message: "request failed",
			Err:     err,
		}
	}

	swapiRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusNotModified && stored != nil {
		resp.Body.Close()
		cache.Revalidated.Inc()
		c.logger.Debug().Str("endpoint", endpoint).Msg("304 Not Modified - using stored body")

		if raw := resp.Header.Get("Expires"); raw != "" {
			if expires, err := http.ParseTime(raw); err == nil {
				if err := c.store.Extend(ctx, key, expires); err != nil {
					c.logger.Warn().Err(err).Msg("Failed to extend stored entry")
				}
			}
		}
		return stored.Response(), nil
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		class := classifyStatus(resp.StatusCode)
		swapiErrorsTotal.WithLabelValues(string(class)).Inc()

		c.logger.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("Catalog request error")

		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Class:      class,
			URL:        req.URL.String(),
			Message:    resp.Status,
		}
	}

	if c.store != nil {
		entry, err := cache.FromResponse(resp)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to build store entry")
		} else if entry.HasValidator() {
			if err := c.store.Put(ctx, key, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to store response")
			}
		}
	}

	return resp, nil
}

// getJSON fetches ref and decodes the body into v.
func (c *Client) getJSON(ctx context.Context, ref string, v any) error {
	resp, err := c.Get(ctx, ref)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		swapiErrorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		return &APIError{
			StatusCode: resp.StatusCode,
			Class:      ErrorClassDecode,
			URL:        ref,
			Message:    "invalid JSON body",
			Err:        err,
		}
	}
	return nil
}

var numericSegment = regexp.MustCompile(`/[0-9]+(/|$)`)

// endpointLabel collapses record IDs so the metric label stays bounded,
// e.g. "/api/people/12/" becomes "/people/{id}/".
func (c *Client) endpointLabel(u *url.URL) string {
	p := strings.TrimPrefix(u.Path, strings.TrimSuffix(c.base.Path, "/"))
	if p == "" {
		p = "/"
	}
	return numericSegment.ReplaceAllString(p, "/{id}$1")
}

// classifyStatus categorizes a non-200 status.
func classifyStatus(status int) ErrorClass {
	switch {
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassUnexpected
	}
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// BaseURL returns the normalized catalog root.
func (c *Client) BaseURL() string {
	return c.base.String()
}
