package registry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slices"

	"github.com/katalvlaran/graphengine/store"
)

// GraphRegistry hands out monotonically increasing graph IDs and holds
// the shared *store.Graph handle behind each one. Removing an ID drops
// the registry's handle and marks the graph terminally dropped; it
// does not force other holders (in-flight jobs) to let go of their own
// reference (spec.md §4.4).
type GraphRegistry struct {
	mu     sync.RWMutex
	graphs map[uint64]*store.Graph
	nextID uint64

	liveGauge prometheus.Gauge
}

// NewGraphRegistry constructs an empty registry. liveGauge, if non-nil,
// tracks the number of currently registered graphs.
func NewGraphRegistry(liveGauge prometheus.Gauge) *GraphRegistry {
	return &GraphRegistry{
		graphs:    make(map[uint64]*store.Graph),
		liveGauge: liveGauge,
	}
}

// Register assigns a new ID to g and returns it. IDs start at 1; 0 is
// never issued, so callers may use it as a not-yet-assigned sentinel.
func (r *GraphRegistry) Register(g *store.Graph) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.graphs[id] = g

	if r.liveGauge != nil {
		r.liveGauge.Set(float64(len(r.graphs)))
	}
	return id
}

// Get returns the graph registered under id, if any.
func (r *GraphRegistry) Get(id uint64) (*store.Graph, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.graphs[id]
	return g, ok
}

// Drop marks the graph registered under id as dropped and removes the
// registry's handle to it. It reports whether id was registered.
func (r *GraphRegistry) Drop(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.graphs[id]
	if !ok {
		return false
	}
	g.Drop()
	delete(r.graphs, id)

	if r.liveGauge != nil {
		r.liveGauge.Set(float64(len(r.graphs)))
	}
	return true
}

// Count returns the number of currently registered graphs.
func (r *GraphRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.graphs)
}

// IDs returns every currently registered graph ID in ascending order,
// for diagnostic logging (e.g. at shutdown).
func (r *GraphRegistry) IDs() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint64, 0, len(r.graphs))
	for id := range r.graphs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
