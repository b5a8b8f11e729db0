// Package store holds the graph analytics engine's core in-memory
// representation: vertex interning (VertexKeyIndex), CSR-style neighbour
// indices (NeighbourIndex), and the Graph type that ties them together
// through a two-phase builder→sealed lifecycle.
//
// Every exported error below is a sentinel so callers can compare with
// errors.Is; there is no wrapped-error hierarchy because the failure
// modes are flat and exhaustive (see Graph's lifecycle in graph.go).
package store

import "errors"

var (
	// ErrVerticesAlreadySealed is returned by InsertVertex once
	// SealVertices has been called.
	ErrVerticesAlreadySealed = errors.New("store: vertices already sealed")

	// ErrVerticesNotSealed is returned by SealEdges, InsertEdge, and
	// InsertEdgeBetweenKeys before SealVertices has been called.
	ErrVerticesNotSealed = errors.New("store: vertices not sealed")

	// ErrEdgesAlreadySealed is returned by InsertEdge and
	// InsertEdgeBetweenKeys once SealEdges has been called.
	ErrEdgesAlreadySealed = errors.New("store: edges already sealed")

	// ErrEdgesNotSealed is returned by IndexEdges before SealEdges has
	// run. Neighbour queries report a missing index through
	// ErrMissingFromIndex/ErrMissingToIndex instead.
	ErrEdgesNotSealed = errors.New("store: edges not sealed")

	// ErrMissingFromIndex is returned by OutNeighbours/OutDegree and any
	// algorithm that requires the by-from NeighbourIndex when it has not
	// been built via IndexEdges(byFrom: true, ...).
	ErrMissingFromIndex = errors.New("store: from-index not built")

	// ErrMissingToIndex is the in-direction counterpart of
	// ErrMissingFromIndex.
	ErrMissingToIndex = errors.New("store: to-index not built")

	// ErrDanglingEdge is returned by InsertEdgeBetweenKeys when either
	// endpoint key does not resolve to a vertex index.
	ErrDanglingEdge = errors.New("store: edge endpoint key does not resolve")

	// ErrVertexIndexOutOfRange is returned by InsertEdge when either
	// index is not a previously assigned vertex index. spec.md leaves the
	// choice between hard failure and silent drop open (see DESIGN.md,
	// Open Question #2); this engine hard-fails.
	ErrVertexIndexOutOfRange = errors.New("store: vertex index out of range")

	// ErrEmptyKey is returned by InsertVertex when the key is empty.
	ErrEmptyKey = errors.New("store: vertex key is empty")

	// ErrColumnCountMismatch is returned by InsertVertex when the number
	// of column values does not match the number of column names fixed
	// at construction.
	ErrColumnCountMismatch = errors.New("store: column value count mismatch")

	// ErrUnknownColumn is returned by ColumnIndex for a column name the
	// Graph was not constructed with (iRank maps it to
	// algorithms.ErrMissingColumn).
	ErrUnknownColumn = errors.New("store: unknown column")

	// ErrKeysNotStored is returned by KeyAt when the Graph was
	// constructed with storeKeys=false.
	ErrKeysNotStored = errors.New("store: graph does not retain vertex keys")

	// ErrGraphDropped is returned by InsertVertex, SealVertices,
	// InsertEdge, InsertEdgeBetweenKeys, SealEdges and IndexEdges after
	// Drop has been called by the owning GraphRegistry. Read-only
	// queries keep working after Drop, except that ResolveKey then
	// reports every key as not found.
	ErrGraphDropped = errors.New("store: graph has been dropped")
)
