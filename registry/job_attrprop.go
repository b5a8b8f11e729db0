package registry

import (
	"context"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
)

// AttributePropagationJob runs attribute (set-union label) propagation
// to completion, exposing one result row per vertex: its converged
// label set.
type AttributePropagationJob struct {
	jobBase

	initial    [][]string
	backwards  bool
	supersteps int
	sync       bool
	rng        *rand.Rand

	labels        [][]string
	totalByteSize int64
	steps         int
}

// NewAttributePropagationJob constructs an attribute propagation job
// for graph. backwards selects the descendant-pulling flow direction
// (spec.md §4.5); false selects the ancestor-pulling forward flow.
func NewAttributePropagationJob(graph *store.Graph, initial [][]string, backwards bool, supersteps int, sync bool, rng *rand.Rand, algorithmName string, log *logrus.Entry) *AttributePropagationJob {
	return &AttributePropagationJob{
		jobBase:    newJobBase(graph, algorithmName, log),
		initial:    initial,
		backwards:  backwards,
		supersteps: supersteps,
		sync:       sync,
		rng:        rng,
	}
}

// Run computes attribute propagation and marks the job ready.
func (j *AttributePropagationJob) Run(ctx context.Context) {
	isCancelled := func() bool { return ctx.Err() != nil || j.Cancelled() }

	result, err := algorithms.AttributePropagation(j.graph, j.initial, j.backwards, j.supersteps, j.sync, j.rng, isCancelled)
	if err != nil {
		j.setReady(err)
		return
	}

	j.mu.Lock()
	j.labels = result.Labels
	j.totalByteSize = result.TotalByteSize
	j.steps = result.Steps
	j.mu.Unlock()

	j.setProgress(uint64(result.Steps), uint64(j.supersteps))
	j.setReady(nil)
}

// NumberOfResults returns one row per vertex.
func (j *AttributePropagationJob) NumberOfResults() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.labels)
}

// GetResult returns the vertex's key and its converged label set.
func (j *AttributePropagationJob) GetResult(i int) (string, interface{}, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if i < 0 || i >= len(j.labels) {
		return "", nil, store.ErrVertexIndexOutOfRange
	}
	key, err := j.graph.KeyAt(uint32(i))
	if err != nil {
		return "", nil, err
	}
	return string(key), j.labels[i], nil
}

// MemoryUsage reports the label sets' total byte size as measured
// during propagation.
func (j *AttributePropagationJob) MemoryUsage() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.totalByteSize < 0 {
		return 0
	}
	return uint64(j.totalByteSize)
}
