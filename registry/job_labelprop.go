package registry

import (
	"context"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
)

// LabelPropagationJob runs label propagation to completion, exposing
// one result row per vertex: its converged label.
type LabelPropagationJob struct {
	jobBase

	initial    []string
	sync       bool
	tieBreak   algorithms.TieBreak
	supersteps int
	rng        *rand.Rand

	labels        []string
	totalByteSize int64
	steps         int
}

// NewLabelPropagationJob constructs a label propagation job for graph
// with the given seed labels and run parameters. rng may be nil only
// when tieBreak is TieBreakDeterministic.
func NewLabelPropagationJob(graph *store.Graph, initial []string, sync bool, tieBreak algorithms.TieBreak, supersteps int, rng *rand.Rand, algorithmName string, log *logrus.Entry) *LabelPropagationJob {
	return &LabelPropagationJob{
		jobBase:    newJobBase(graph, algorithmName, log),
		initial:    initial,
		sync:       sync,
		tieBreak:   tieBreak,
		supersteps: supersteps,
		rng:        rng,
	}
}

// Run computes label propagation and marks the job ready.
func (j *LabelPropagationJob) Run(ctx context.Context) {
	isCancelled := func() bool { return ctx.Err() != nil || j.Cancelled() }

	result, err := algorithms.LabelPropagation(j.graph, j.initial, j.sync, j.tieBreak, j.supersteps, j.rng, isCancelled)
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
func (j *LabelPropagationJob) NumberOfResults() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.labels)
}

// GetResult returns the vertex's key and its converged label.
func (j *LabelPropagationJob) GetResult(i int) (string, interface{}, error) {
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

// MemoryUsage reports the label set's total byte size as measured
// during propagation (spec.md §4.4's per-job memory accounting).
func (j *LabelPropagationJob) MemoryUsage() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.totalByteSize < 0 {
		return 0
	}
	return uint64(j.totalByteSize)
}
