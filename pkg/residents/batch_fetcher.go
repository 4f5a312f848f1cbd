package residents

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/swapi-planet-search/pkg/swapi"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// BatchSize is the number of references fetched per batch.
const BatchSize = 10

// Config holds batch fetcher configuration.
type Config struct {
	// MaxConcurrency bounds in-flight person fetches
	MaxConcurrency int
}

// DefaultConfig fetches a whole batch at once.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: BatchSize,
	}
}

// PersonGetter is implemented by *swapi.Client.
type PersonGetter interface {
	GetPerson(ctx context.Context, ref string) (*swapi.Person, error)
}

// FetchError reports the reference that broke a batch.
type FetchError struct {
	Index int
	Ref   string
	Err   error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch resident %d (%s): %v", e.Index, e.Ref, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher resolves batches of resident references.
type Fetcher struct {
	getter PersonGetter
	config Config
}

// NewFetcher creates a new batch fetcher.
func NewFetcher(getter PersonGetter, config Config) *Fetcher {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = BatchSize
	}

	return &Fetcher{
		getter: getter,
		config: config,
	}
}

// SplitBatch returns the first BatchSize references and the cursor: the
// reference that follows them, or "" when none remain.
func SplitBatch(refs []string) (batch []string, cursor string) {
	if len(refs) <= BatchSize {
		return refs, ""
	}
	return refs[:BatchSize], refs[BatchSize]
}

// FetchBatch fetches every reference concurrently and returns the people in
// reference order. It waits for all fetches and, if any failed, returns the
// first failure as a *FetchError and no people.
func (f *Fetcher) FetchBatch(ctx context.Context, refs []string) ([]swapi.Person, error) {
	start := time.Now()
	people := make([]swapi.Person, len(refs))

	if len(refs) == 0 {
		return people, nil
	}

	var g errgroup.Group
	g.SetLimit(f.config.MaxConcurrency)

	for i, ref := range refs {
		g.Go(func() error {
			person, err := f.getter.GetPerson(ctx, ref)
			if err != nil {
				log.Warn().
					Err(err).
					Int("index", i).
					Str("ref", ref).
					Msg("Resident fetch failed")
				return &FetchError{Index: i, Ref: ref, Err: err}
			}
			people[i] = *person
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().
			Err(err).
			Int("batch_size", len(refs)).
			Msg("Discarding resident batch")
		return nil, err
	}

	log.Debug().
		Int("batch_size", len(refs)).
		Dur("duration", time.Since(start)).
		Msg("Resident batch complete")

	return people, nil
}
