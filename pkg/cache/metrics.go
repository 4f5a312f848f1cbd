package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreHits counts lookups that found a live entry
	StoreHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapi_cache_hits_total",
		Help: "Total number of revalidation store hits",
	})

	// StoreMisses counts lookups that found nothing usable
	StoreMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapi_cache_misses_total",
		Help: "Total number of revalidation store misses",
	})

	// Revalidated counts 304 replies answered from the store
	Revalidated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "swapi_cache_revalidated_total",
		Help: "Total number of 304 Not Modified replies served from the store",
	})

	// StoreErrors counts Redis failures by operation
	StoreErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swapi_cache_errors_total",
		Help: "Total number of revalidation store errors",
	}, []string{"operation"}) // "get", "set", "delete"
)
