// Package ingest implements the ShardedIngestPipeline (spec.md §4.6): it
// queries a sharded source database for its shard distribution, opens a
// dump context per shard leader, fans out parallel fetchers, and routes
// batches into a fixed number of consumer goroutines that parse
// newline-delimited JSON and insert vertices/edges into a building
// store.Graph.
//
// ingest never holds a Graph lock across a network await — fetchers and
// the database client are decoupled from Graph mutation by bounded
// channels, so a stalled consumer applies backpressure all the way to
// the dump fetcher instead of buffering unboundedly in memory.
package ingest
