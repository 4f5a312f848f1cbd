// Package search implements the search-and-paginate controller: look a
// planet up by name, then list its residents ten at a time.
package search

import (
	"context"
	"strings"
	"sync"

	"github.com/Sternrassler/swapi-planet-search/pkg/residents"
	"github.com/Sternrassler/swapi-planet-search/pkg/swapi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "planet_search_operations_total",
	Help: "Total controller operations by operation and outcome",
}, []string{"operation", "outcome"})

// Catalog is the subset of *swapi.Client the controller needs.
type Catalog interface {
	SearchPlanets(ctx context.Context, name string) ([]swapi.Planet, error)
	GetPlanet(ctx context.Context, ref string) (*swapi.Planet, error)
}

// BatchFetcher is implemented by *residents.Fetcher.
type BatchFetcher interface {
	FetchBatch(ctx context.Context, refs []string) ([]swapi.Person, error)
}

// State is a snapshot of the controller.
type State struct {
	// Query is the text input value
	Query string

	// Planet names the planet whose residents People lists. It is set only
	// by a successful search, so it can differ from Query.
	Planet string

	// People is the displayed list, append-only between searches
	People []swapi.Person

	// Cursor references the next batch; "" means no more data
	Cursor string

	// Err is the active error, if any
	Err *Error

	// Busy is true while an operation is in flight
	Busy bool
}

// HasMore reports whether Load More should be offered.
func (s State) HasMore() bool {
	return s.Cursor != ""
}

// ErrorMessage returns the active message or "".
func (s State) ErrorMessage() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Message()
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger replaces the default component logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// Controller owns the search state. Search and LoadMore are mutually
// exclusive: a call made while another is outstanding returns ErrBusy
// without touching the state.
type Controller struct {
	catalog Catalog
	fetcher BatchFetcher
	logger  zerolog.Logger

	mu    sync.Mutex
	state State
}

// New creates a controller.
func New(catalog Catalog, fetcher BatchFetcher, opts ...Option) *Controller {
	c := &Controller{
		catalog: catalog,
		fetcher: fetcher,
		logger:  log.With().Str("component", "search").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.People = append([]swapi.Person(nil), c.state.People...)
	return s
}

// SetQuery stores the text input value.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	c.state.Query = q
	c.mu.Unlock()
}

// Reset clears planet, results, cursor and error, keeping the query. It returns
// ErrBusy while an operation is in flight.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Busy {
		return ErrBusy
	}
	c.state = State{Query: c.state.Query}
	return nil
}

// Search looks name up and shows the first batch of its first match's
// residents. A blank name is a no-op. Failures are stored in the state
// and also returned.
func (c *Controller) Search(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		operationsTotal.WithLabelValues("search", "noop").Inc()
		return nil
	}

	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		operationsTotal.WithLabelValues("search", "busy").Inc()
		return ErrBusy
	}
	c.state.Busy = true
	c.state.Planet = ""
	c.state.People = nil
	c.state.Cursor = ""
	c.state.Err = nil
	c.mu.Unlock()
	defer c.done()

	logger := c.logger.With().Str("op", "search").Str("query", name).Logger()

	planets, err := c.catalog.SearchPlanets(ctx, name)
	if err != nil {
		return c.fail(logger, "search", KindLookup, err)
	}
	if len(planets) == 0 {
		return c.fail(logger, "search", KindNotFound, nil)
	}

	planet := planets[0]
	if len(planet.Residents) == 0 {
		return c.fail(logger, "search", KindEmptyResult, nil)
	}

	batch, cursor := residents.SplitBatch(planet.Residents)
	people, err := c.fetcher.FetchBatch(ctx, batch)
	if err != nil {
		return c.fail(logger, "search", KindResidentFetch, err)
	}

	heading := planet.Name
	if heading == "" {
		heading = name
	}

	c.mu.Lock()
	c.state.Planet = heading
	c.state.People = people
	c.state.Cursor = cursor
	c.mu.Unlock()

	logger.Info().
		Str("planet", planet.Name).
		Int("count", len(people)).
		Int("residents_total", len(planet.Residents)).
		Str("cursor", cursor).
		Msg("Search complete")
	operationsTotal.WithLabelValues("search", "ok").Inc()

	return nil
}

// LoadMore fetches the record at the cursor and appends the first batch of
// its residents. Without a cursor it is a no-op that issues no request.
// On failure the displayed list and the cursor are kept.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Busy {
		c.mu.Unlock()
		operationsTotal.WithLabelValues("load_more", "busy").Inc()
		return ErrBusy
	}
	if c.state.Cursor == "" {
		c.mu.Unlock()
		operationsTotal.WithLabelValues("load_more", "noop").Inc()
		return nil
	}
	c.state.Busy = true
	cursor := c.state.Cursor
	c.mu.Unlock()
	defer c.done()

	logger := c.logger.With().Str("op", "load_more").Str("cursor", cursor).Logger()

	record, err := c.catalog.GetPlanet(ctx, cursor)
	if err != nil {
		return c.fail(logger, "load_more", KindPaging, err)
	}
	if record.Residents == nil {
		return c.fail(logger, "load_more", KindPaging, errNoResidentsField)
	}

	batch, next := residents.SplitBatch(record.Residents)

	var people []swapi.Person
	if len(batch) > 0 {
		people, err = c.fetcher.FetchBatch(ctx, batch)
		if err != nil {
			return c.fail(logger, "load_more", KindResidentFetch, err)
		}
	}

	c.mu.Lock()
	c.state.People = append(c.state.People, people...)
	c.state.Cursor = next
	c.state.Err = nil
	total := len(c.state.People)
	c.mu.Unlock()

	logger.Info().
		Int("count", len(people)).
		Int("total", total).
		Str("next_cursor", next).
		Msg("Load more complete")
	operationsTotal.WithLabelValues("load_more", "ok").Inc()

	return nil
}

// fail records kind as the active error and returns it.
func (c *Controller) fail(logger zerolog.Logger, op string, kind ErrorKind, cause error) error {
	e := &Error{Kind: kind, Cause: cause}

	c.mu.Lock()
	c.state.Err = e
	c.mu.Unlock()

	ev := logger.Warn()
	if cause == nil {
		ev = logger.Info()
	}
	ev.Err(cause).Str("error_kind", string(kind)).Msg(kind.Message())
	operationsTotal.WithLabelValues(op, string(kind)).Inc()

	return e
}

func (c *Controller) done() {
	c.mu.Lock()
	c.state.Busy = false
	c.mu.Unlock()
}
