package registry

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
)

// RankKind selects between PageRank and the @collection_name-weighted
// iRank variant.
type RankKind int

const (
	RankPageRank RankKind = iota
	RankIRank
)

// RankJob runs PageRank or iRank to completion, exposing one result row
// per vertex: its final rank.
type RankJob struct {
	jobBase

	kind       RankKind
	damping    float64
	supersteps int

	rank  []float64
	steps int
}

// NewRankJob constructs a rank job for graph with the given damping
// factor and superstep budget.
func NewRankJob(graph *store.Graph, kind RankKind, damping float64, supersteps int, algorithmName string, log *logrus.Entry) *RankJob {
	return &RankJob{
		jobBase:    newJobBase(graph, algorithmName, log),
		kind:       kind,
		damping:    damping,
		supersteps: supersteps,
	}
}

// Run computes the selected rank variant and marks the job ready.
func (j *RankJob) Run(ctx context.Context) {
	isCancelled := func() bool { return ctx.Err() != nil || j.Cancelled() }

	var result algorithms.PageRankResult
	var err error

	switch j.kind {
	case RankIRank:
		result, err = algorithms.IRank(j.graph, j.damping, j.supersteps, isCancelled)
	default:
		result, err = algorithms.PageRank(j.graph, j.damping, j.supersteps, isCancelled)
	}
	if err != nil {
		j.setReady(err)
		return
	}

	j.mu.Lock()
	j.rank = result.Rank
	j.steps = result.Steps
	j.mu.Unlock()

	j.setProgress(uint64(result.Steps), uint64(j.supersteps))
	j.setReady(nil)
}

// NumberOfResults returns one row per vertex.
func (j *RankJob) NumberOfResults() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.rank)
}

// GetResult returns the vertex's key and its final rank.
func (j *RankJob) GetResult(i int) (string, interface{}, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if i < 0 || i >= len(j.rank) {
		return "", nil, store.ErrVertexIndexOutOfRange
	}
	key, err := j.graph.KeyAt(uint32(i))
	if err != nil {
		return "", nil, err
	}
	return string(key), j.rank[i], nil
}

// MemoryUsage estimates the result buffer's footprint.
func (j *RankJob) MemoryUsage() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return uint64(len(j.rank)) * 8
}

// Steps returns the number of supersteps actually run, valid once
// IsReady reports true.
func (j *RankJob) Steps() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.steps
}
