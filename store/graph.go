package store

import (
	"strings"
	"sync"
)

// lifecycle tracks the two one-way seals a Graph passes through.
// "indexed" is not tracked as a distinct boolean: a Graph is indexed in
// a given direction simply when fromIndex or toIndex is non-nil, which
// can only happen once edgesSealed is true. Dropping is tracked
// separately since it can happen from any other state and is terminal.
type lifecycle struct {
	verticesSealed bool
	edgesSealed    bool
	dropped        bool
}

// Graph is the engine's in-memory representation of one attributed
// directed graph: vertex keys interned through a VertexKeyIndex, a
// column-store of per-vertex attributes, an insertion-ordered edge
// list, and up to two lazily built NeighbourIndex tables.
//
// Lifecycle: building-vertices → vertices-sealed → edges-sealed →
// (optionally indexed, in either or both directions, re-enterable) →
// dropped. Vertex insertion is legal only in building-vertices; edge
// insertion only in vertices-sealed; neighbour queries require the
// matching NeighbourIndex to have been built. See errors.go for the
// sentinel returned by each misuse.
//
// A single sync.RWMutex guards the whole Graph: builders take the write
// side, and each read-only accessor takes the read side for its own call
// only. No lock is held across an algorithm's pass, so a pass does not
// exclude builders between its accessor calls.
type Graph struct {
	mu sync.RWMutex

	lc lifecycle

	keys      *VertexKeyIndex
	storeKeys bool
	indexToKey [][]byte // present iff storeKeys

	columnNames []string
	columns     [][]interface{} // columns[c][i] = value of column c for vertex i

	edges     []edgePair
	fromIndex *NeighbourIndex // sorted by from, built on demand
	toIndex   *NeighbourIndex // sorted by to, built on demand
}

// New returns an empty Graph in the building-vertices state.
// columnNames fixes both the number and the names of per-vertex
// attribute columns for the lifetime of the Graph; it may be empty.
func New(storeKeys bool, columnNames []string) *Graph {
	g := &Graph{
		keys:        NewVertexKeyIndex(),
		storeKeys:   storeKeys,
		columnNames: append([]string(nil), columnNames...),
		columns:     make([][]interface{}, len(columnNames)),
	}
	return g
}

// InsertVertex appends a new vertex with the given key and column
// values, returning its assigned index. key must be non-empty;
// len(columnValues) must equal the number of column names fixed at
// construction. Legal only in building-vertices.
func (g *Graph) InsertVertex(key []byte, columnValues []interface{}) (uint32, error) {
	if len(key) == 0 {
		return 0, ErrEmptyKey
	}
	if len(columnValues) != len(g.columnNames) {
		return 0, ErrColumnCountMismatch
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lc.dropped {
		return 0, ErrGraphDropped
	}
	if g.lc.verticesSealed {
		return 0, ErrVerticesAlreadySealed
	}

	idx := g.keys.Add(key)

	if g.storeKeys {
		g.indexToKey = append(g.indexToKey, append([]byte(nil), key...))
	}
	for c, v := range columnValues {
		g.columns[c] = append(g.columns[c], v)
	}

	return idx, nil
}

// SealVertices transitions the Graph to vertices-sealed, after which no
// further vertices may be inserted and edge insertion becomes legal.
func (g *Graph) SealVertices() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lc.dropped {
		return ErrGraphDropped
	}
	if g.lc.verticesSealed {
		return ErrVerticesAlreadySealed
	}
	g.lc.verticesSealed = true

	return nil
}

// InsertEdge appends (fromIndex, toIndex) to the edge list. Both
// indices must already have been assigned by InsertVertex; out-of-range
// indices are a hard failure (DESIGN.md, Open Question #2). Legal only
// in vertices-sealed.
func (g *Graph) InsertEdge(fromIndex, toIndex uint32) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkEdgeInsertableLocked(); err != nil {
		return err
	}

	n := uint32(g.keys.Count())
	if fromIndex >= n || toIndex >= n {
		return ErrVertexIndexOutOfRange
	}

	g.edges = append(g.edges, edgePair{from: fromIndex, to: toIndex})

	return nil
}

// InsertEdgeBetweenKeys resolves from and to through the VertexKeyIndex
// and, if both resolve, appends the edge; otherwise it returns
// ErrDanglingEdge and appends nothing. Legal only in vertices-sealed.
func (g *Graph) InsertEdgeBetweenKeys(from, to []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkEdgeInsertableLocked(); err != nil {
		return err
	}

	fromIdx, ok := g.keys.Resolve(from)
	if !ok {
		return ErrDanglingEdge
	}
	toIdx, ok := g.keys.Resolve(to)
	if !ok {
		return ErrDanglingEdge
	}

	g.edges = append(g.edges, edgePair{from: fromIdx, to: toIdx})

	return nil
}

func (g *Graph) checkEdgeInsertableLocked() error {
	if g.lc.dropped {
		return ErrGraphDropped
	}
	if !g.lc.verticesSealed {
		return ErrVerticesNotSealed
	}
	if g.lc.edgesSealed {
		return ErrEdgesAlreadySealed
	}
	return nil
}

// SealEdges transitions the Graph to edges-sealed, after which no
// further edges may be inserted and NeighbourIndex construction becomes
// legal. Requires vertices-sealed.
func (g *Graph) SealEdges() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lc.dropped {
		return ErrGraphDropped
	}
	if !g.lc.verticesSealed {
		return ErrVerticesNotSealed
	}
	if g.lc.edgesSealed {
		return ErrEdgesAlreadySealed
	}
	g.lc.edgesSealed = true

	return nil
}

// IndexEdges builds whichever of the by-from / by-to NeighbourIndex
// tables is requested and not already present. It is idempotent and may
// be called repeatedly with cumulative effect (e.g. first with byFrom
// only, later with byTo too). Requires edges-sealed.
func (g *Graph) IndexEdges(byFrom, byTo bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.lc.dropped {
		return ErrGraphDropped
	}
	if !g.lc.edgesSealed {
		return ErrEdgesNotSealed
	}

	n := uint32(g.keys.Count())
	if byFrom && g.fromIndex == nil {
		g.fromIndex = buildNeighbourIndex(n, g.edges, true)
	}
	if byTo && g.toIndex == nil {
		g.toIndex = buildNeighbourIndex(n, g.edges, false)
	}

	return nil
}

// NumberOfVertices returns the number of interned vertices.
func (g *Graph) NumberOfVertices() uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return uint32(g.keys.Count())
}

// NumberOfEdges returns the number of inserted edges.
func (g *Graph) NumberOfEdges() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return uint64(len(g.edges))
}

// ResolveKey resolves a vertex key to its dense index, if known.
func (g *Graph) ResolveKey(key []byte) (uint32, bool) {
	// keys is internally locked; no need to hold g.mu for this alone,
	// but dropped graphs should still answer false rather than stale data.
	g.mu.RLock()
	dropped := g.lc.dropped
	g.mu.RUnlock()
	if dropped {
		return 0, false
	}
	return g.keys.Resolve(key)
}

// KeyAt returns the key stored for vertex index v. Requires the Graph
// to have been constructed with storeKeys=true.
func (g *Graph) KeyAt(v uint32) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.storeKeys {
		return nil, ErrKeysNotStored
	}
	return g.indexToKey[v], nil
}

// OutNeighbours returns vertex v's out-neighbours. Requires the by-from
// NeighbourIndex to have been built via IndexEdges(byFrom: true).
func (g *Graph) OutNeighbours(v uint32) ([]uint32, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.fromIndex == nil {
		return nil, ErrMissingFromIndex
	}
	return g.fromIndex.Neighbours(v), nil
}

// OutDegree returns vertex v's out-degree. Requires the by-from index.
func (g *Graph) OutDegree(v uint32) (uint64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.fromIndex == nil {
		return 0, ErrMissingFromIndex
	}
	return g.fromIndex.Degree(v), nil
}

// InNeighbours returns vertex v's in-neighbours. Requires the by-to
// NeighbourIndex to have been built via IndexEdges(byTo: true).
func (g *Graph) InNeighbours(v uint32) ([]uint32, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.toIndex == nil {
		return nil, ErrMissingToIndex
	}
	return g.toIndex.Neighbours(v), nil
}

// InDegree returns vertex v's in-degree. Requires the by-to index.
func (g *Graph) InDegree(v uint32) (uint64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.toIndex == nil {
		return 0, ErrMissingToIndex
	}
	return g.toIndex.Degree(v), nil
}

// HasFromIndex reports whether the by-from NeighbourIndex has been built.
func (g *Graph) HasFromIndex() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.fromIndex != nil
}

// HasToIndex reports whether the by-to NeighbourIndex has been built.
func (g *Graph) HasToIndex() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.toIndex != nil
}

// ColumnIndex returns the position of a named column, or ErrUnknownColumn.
func (g *Graph) ColumnIndex(name string) (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for i, n := range g.columnNames {
		if n == name {
			return i, nil
		}
	}
	return 0, ErrUnknownColumn
}

// Column returns the full column slice for columnIndex (as produced by
// ColumnIndex), for read-only scanning by algorithms. The returned slice
// aliases internal storage.
func (g *Graph) Column(columnIndex int) []interface{} {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.columns[columnIndex]
}

// EdgeList returns the insertion-ordered (from, to) edge list as index
// pairs, for algorithms (WCC) that must scan edges directly rather than
// through a NeighbourIndex. The returned slice must not be mutated.
func (g *Graph) EdgeList() [][2]uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([][2]uint32, len(g.edges))
	for i, e := range g.edges {
		out[i] = [2]uint32{e.from, e.to}
	}
	return out
}

// Drop marks the Graph as dropped. Builder and sealing operations fail
// afterward with ErrGraphDropped; read operations that do not depend on
// registry bookkeeping keep working so an in-flight job holding its own
// reference can still finish (spec.md §3 "Ownership"); the exception is
// ResolveKey, which reports every key as not found once dropped.
func (g *Graph) Drop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lc.dropped = true
}

// MemoryUsage returns an approximate (total, perVertex, perEdge) byte
// accounting used for admission control and telemetry (spec.md §4.3).
// It is a cheap estimate, not an exact accounting: columns holding
// variable-width values (strings, nested JSON) are costed at a fixed
// per-value overhead rather than walked recursively.
func (g *Graph) MemoryUsage() (total, perVertex, perEdge uint64) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	const (
		assumedKeyBytes    = 24 // average external key size estimate
		assumedColumnBytes = 16 // average column cell estimate (interface{} header + small payload)
		neighbourEntryBytes = 4 // one uint32 per CSR entry
		offsetEntryBytes    = 8 // one uint64 per CSR offset
	)

	n := uint64(g.keys.Count())
	e := uint64(len(g.edges))

	perVertex = assumedKeyBytes + uint64(len(g.columnNames))*assumedColumnBytes
	perEdge = 8 // two uint32 endpoints

	total = n * perVertex
	total += e * perEdge // canonical edge list
	if g.storeKeys {
		total += n * assumedKeyBytes
	}
	if g.fromIndex != nil {
		total += n*offsetEntryBytes + e*neighbourEntryBytes
	}
	if g.toIndex != nil {
		total += n*offsetEntryBytes + e*neighbourEntryBytes
	}

	return total, perVertex, perEdge
}

// CollectionOf extracts the "<collection>" prefix of an ArangoDB-style
// external id "<collection>/<key>", returning the whole id if it
// contains no slash. Ingest uses this to populate the synthetic
// @collection_name column (spec.md §3).
func CollectionOf(externalID []byte) string {
	s := string(externalID)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		return s[:i]
	}
	return s
}

// CollectionNameColumn is the reserved column name for the synthetic
// per-vertex collection attribute spec.md §3 requires.
const CollectionNameColumn = "@collection_name"
