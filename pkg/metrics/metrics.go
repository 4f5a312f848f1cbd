// Package metrics exposes the Prometheus registry used by the search
// packages. Metrics are declared next to the code that records them
// (pkg/swapi, pkg/cache, pkg/search) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all metrics are added to.
var Registry = prometheus.DefaultRegisterer

// Gatherer is the gatherer served by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Catalog client (pkg/swapi):
//   - swapi_requests_total{endpoint, status}
//   - swapi_request_duration_seconds{endpoint}
//   - swapi_errors_total{class}: client, server, network, decode, unexpected
//
// Revalidation store (pkg/cache):
//   - swapi_cache_hits_total
//   - swapi_cache_misses_total
//   - swapi_cache_revalidated_total
//   - swapi_cache_errors_total{operation}
//
// Controller (pkg/search):
//   - planet_search_operations_total{operation, outcome}
//     outcome is ok, noop, busy or an error kind
//
// Example queries:
//
//	# Searches ending in "Planet not found."
//	rate(planet_search_operations_total{operation="search",outcome="not_found"}[5m])
//
//	# P95 catalog latency
//	histogram_quantile(0.95, rate(swapi_request_duration_seconds_bucket[5m]))
