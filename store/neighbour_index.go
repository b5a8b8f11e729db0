package store

import "sort"

// edgePair is the (from, to) shape NeighbourIndex sorts; it is a plain
// copy of Graph's own edge representation so both directions can be
// built independently from the same source edge list without mutating
// it (spec.md §4.2).
type edgePair struct {
	from uint32
	to   uint32
}

// NeighbourIndex is a CSR (compressed sparse row) view of a graph's
// edges sorted by one endpoint: vertexOffset[i]..vertexOffset[i+1]
// indexes into sortedNeighbours to enumerate vertex i's neighbours in
// the chosen direction.
//
// Construction sorts a private copy of the edge list and sweeps it once
// to build the offsets; it never mutates the source. Self-loops and
// parallel edges are preserved exactly, with undefined relative order
// among neighbours of the same vertex (spec.md §3, §4.2).
type NeighbourIndex struct {
	vertexOffset     []uint64 // length nVertices+1, non-decreasing
	sortedNeighbours []uint32 // length == len(edges)
}

// buildNeighbourIndex sorts a copy of edges by the chosen key
// (edge.from for the by-from index, edge.to for the by-to index) and
// sweeps it once to produce vertexOffset/sortedNeighbours.
func buildNeighbourIndex(nVertices uint32, edges []edgePair, byFrom bool) *NeighbourIndex {
	sorted := make([]edgePair, len(edges))
	copy(sorted, edges)

	var key, other func(e edgePair) uint32
	if byFrom {
		key, other = func(e edgePair) uint32 { return e.from }, func(e edgePair) uint32 { return e.to }
	} else {
		key, other = func(e edgePair) uint32 { return e.to }, func(e edgePair) uint32 { return e.from }
	}

	sort.Slice(sorted, func(i, j int) bool { return key(sorted[i]) < key(sorted[j]) })

	offsets := make([]uint64, nVertices+1)
	neighbours := make([]uint32, len(sorted))
	for i, e := range sorted {
		neighbours[i] = other(e)
		offsets[key(e)+1]++
	}
	for i := 1; i < len(offsets); i++ {
		offsets[i] += offsets[i-1]
	}

	return &NeighbourIndex{vertexOffset: offsets, sortedNeighbours: neighbours}
}

// Neighbours returns the (possibly empty) slice of neighbour indices
// for vertex v in this index's direction. The returned slice aliases
// the index's internal storage and must not be mutated by the caller.
func (ni *NeighbourIndex) Neighbours(v uint32) []uint32 {
	start, end := ni.vertexOffset[v], ni.vertexOffset[v+1]
	return ni.sortedNeighbours[start:end]
}

// Degree returns the number of neighbours recorded for vertex v in this
// index's direction.
func (ni *NeighbourIndex) Degree(v uint32) uint64 {
	return ni.vertexOffset[v+1] - ni.vertexOffset[v]
}
