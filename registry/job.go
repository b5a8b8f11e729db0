package registry

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/store"
)

// Job is the uniform capability set every polymorphic job variant
// satisfies (spec.md §4.4): readiness, coarse progress, cooperative
// cancellation, result enumeration, and a memory estimate. The host
// runs each job on its own goroutine; callers access the capability set
// through jobBase's readers-writer lock.
type Job interface {
	IsReady() bool
	Progress() (progress, total uint64)
	Err() error
	Cancel()
	AlgorithmName() string
	Graph() *store.Graph
	NumberOfResults() int
	GetResult(i int) (key string, value interface{}, err error)
	MemoryUsage() uint64
}

// jobBase is the shared bookkeeping every job variant embeds: it is not
// itself a complete Job (NumberOfResults/GetResult/MemoryUsage are
// variant-specific and must be defined on the embedding type).
type jobBase struct {
	mu sync.RWMutex

	graph         *store.Graph
	algorithmName string

	progress  uint64
	total     uint64
	ready     bool
	cancelled bool
	err       error

	log *logrus.Entry
}

func newJobBase(graph *store.Graph, algorithmName string, log *logrus.Entry) jobBase {
	return jobBase{graph: graph, algorithmName: algorithmName, log: log}
}

func (b *jobBase) IsReady() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ready
}

func (b *jobBase) Progress() (progress, total uint64) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.progress, b.total
}

func (b *jobBase) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Cancel sets the cooperative-cancellation flag. It does not itself
// stop the worker goroutine; long-running algorithms must poll
// Cancelled at coarse iteration boundaries (spec.md §5).
func (b *jobBase) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelled = true
}

// Cancelled reports the cooperative-cancellation flag for the job's own
// worker goroutine to poll.
func (b *jobBase) Cancelled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cancelled
}

func (b *jobBase) AlgorithmName() string { return b.algorithmName }

func (b *jobBase) Graph() *store.Graph {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.graph
}

// setProgress updates the coarse progress counters.
func (b *jobBase) setProgress(progress, total uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.progress, b.total = progress, total
}

// setReady marks the job done, with err (nil on success) as its final
// status. No further progress updates should follow.
func (b *jobBase) setReady(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ready = true
	b.err = err
}
