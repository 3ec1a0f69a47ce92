// Package metadata implements the game metadata aggregation engine.
//
// The Aggregator fans a search out to every registered source concurrently,
// selects the best candidate per source, propagates Steam App IDs discovered
// by one source to unlock richer lookups in another, fetches artwork and
// descriptions in parallel, and merges the partial answers into one
// AggregatedMetadata record under explicit priority and tie-break rules.
//
// Sources implement the Source contract and are registered per Kind at
// runtime. A failing source degrades to "no results" for that call; the
// aggregator never propagates a source-level error to its caller. The only
// "nothing found" signal is an all-empty AggregatedMetadata.
//
// Nothing in this package persists or caches; callers own both.
package metadata
