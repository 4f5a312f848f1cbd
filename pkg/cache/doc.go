// Package cache provides a Redis-backed revalidation store for catalog
// responses.
//
// The store never answers a request on its own. Every lookup still goes to
// the catalog; a stored validator (ETag or Last-Modified) is attached as a
// conditional header and a 304 Not Modified reply is answered from the
// stored body:
//
//	store := cache.NewStore(redisClient)
//	key := cache.KeyFor(req.URL)
//
//	entry, err := store.Get(ctx, key)
//	if err == nil && entry.HasValidator() {
//		entry.Condition(req)
//	}
//
//	resp, err := httpClient.Do(req)
//	if resp.StatusCode == http.StatusNotModified {
//		resp = entry.Response()
//	}
//
// Entries expire with the response's Expires header, or DefaultTTL when the
// catalog sends none.
//
// # Metrics
//
//   - swapi_cache_hits_total
//   - swapi_cache_misses_total
//   - swapi_cache_revalidated_total
//   - swapi_cache_errors_total{operation}
package cache
