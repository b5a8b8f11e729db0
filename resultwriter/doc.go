// Package resultwriter implements the symmetric counterpart to ingest:
// it walks one or more completed computations' results and pushes them
// back to the source database in batches (spec.md §4.7).
//
// It depends on registry only through the narrow ResultSource
// interface, so registry.Job satisfies it without resultwriter ever
// importing registry.
package resultwriter
