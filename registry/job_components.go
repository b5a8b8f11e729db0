package registry

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
)

// ComponentsKind selects which connectivity algorithm a ComponentsJob
// runs: weakly connected components or strongly connected components.
type ComponentsKind int

const (
	ComponentsWCC ComponentsKind = iota
	ComponentsSCC
)

// ComponentsJob runs WCC or SCC to completion and exposes one result
// row per vertex: its component representative index.
type ComponentsJob struct {
	jobBase

	kind ComponentsKind

	representative []uint32
	count          int
}

// NewComponentsJob constructs a components job for graph. algorithmName
// is the wire-level identifier ("wcc" or "scc") reported by
// Job.AlgorithmName.
func NewComponentsJob(graph *store.Graph, kind ComponentsKind, algorithmName string, log *logrus.Entry) *ComponentsJob {
	return &ComponentsJob{jobBase: newJobBase(graph, algorithmName, log), kind: kind}
}

// Run computes the selected algorithm and marks the job ready. It is
// meant to be launched via JobRegistry.Spawn.
func (j *ComponentsJob) Run(ctx context.Context) {
	isCancelled := func() bool { return ctx.Err() != nil || j.Cancelled() }

	switch j.kind {
	case ComponentsSCC:
		result, err := algorithms.SCC(j.graph, isCancelled)
		if err != nil {
			j.setReady(err)
			return
		}
		j.representative = result.Rep
		j.count = result.Count
	default:
		result, err := algorithms.WCC(j.graph, isCancelled)
		if err != nil {
			j.setReady(err)
			return
		}
		j.representative = result.Representative
		j.count = result.Count
	}
	j.setProgress(uint64(len(j.representative)), uint64(len(j.representative)))
	j.setReady(nil)
}

// NumberOfResults returns one row per vertex.
func (j *ComponentsJob) NumberOfResults() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.representative)
}

// GetResult returns the vertex's key and its component representative
// index, reported as an int.
func (j *ComponentsJob) GetResult(i int) (string, interface{}, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if i < 0 || i >= len(j.representative) {
		return "", nil, store.ErrVertexIndexOutOfRange
	}
	key, err := j.graph.KeyAt(uint32(i))
	if err != nil {
		return "", nil, err
	}
	return string(key), int(j.representative[i]), nil
}

// MemoryUsage estimates the result buffer's footprint.
func (j *ComponentsJob) MemoryUsage() uint64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return uint64(len(j.representative)) * 4
}

// ComponentCount returns the number of distinct components found, valid
// once IsReady reports true.
func (j *ComponentsJob) ComponentCount() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.count
}
