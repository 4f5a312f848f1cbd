// Package residents fetches batches of resident records concurrently.
//
// A planet lists its residents as opaque references. The catalog is read
// ten references at a time: the first BatchSize references form a batch and
// the reference right after them becomes the cursor for the next one.
//
//	batch, cursor := residents.SplitBatch(planet.Residents)
//	people, err := fetcher.FetchBatch(ctx, batch)
//
// FetchBatch is all-or-fail. Every reference in the batch is requested,
// the fetcher waits for all of them, and a single failure discards the
// whole batch. A failing fetch never cancels its siblings.
package residents
