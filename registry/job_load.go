package registry

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/ingest"
	"github.com/katalvlaran/graphengine/store"
)

// loadPhaseCount is the number of coarse phases ingest.Pipeline.Run
// reports through its onPhase callback (spec.md §4.6): 1 once vertices
// are sealed, 2 once edges are sealed.
const loadPhaseCount = 2

// LoadJob drives an ingest.Pipeline against a graph that was
// registered before submission. It exposes no per-vertex result rows;
// its product is the populated graph itself.
type LoadJob struct {
	jobBase

	pipeline *ingest.Pipeline
}

// NewLoadJob constructs a load job that ingests req into graph. graph
// must already carry @collection_name as its last column, per the
// convention ingest.Pipeline assumes when appending implicit collection
// values.
func NewLoadJob(graph *store.Graph, req ingest.Request, bearerToken string, algorithmName string, log *logrus.Entry) *LoadJob {
	return &LoadJob{
		jobBase:  newJobBase(graph, algorithmName, log),
		pipeline: ingest.NewPipeline(req, graph, bearerToken, log),
	}
}

// Run drives the ingest pipeline to completion and marks the job
// ready. The pipeline's phase callback advances coarse progress.
func (j *LoadJob) Run(ctx context.Context) {
	err := j.pipeline.Run(ctx, func(phase int) {
		j.setProgress(uint64(phase), uint64(loadPhaseCount))
	})
	j.setReady(err)
}

// NumberOfResults is always zero: a load job's output is the graph it
// populated, not a result row set.
func (j *LoadJob) NumberOfResults() int { return 0 }

// GetResult always fails: load jobs carry no result rows.
func (j *LoadJob) GetResult(i int) (string, interface{}, error) {
	return "", nil, fmt.Errorf("registry: load jobs have no result rows")
}

// MemoryUsage reports the populated graph's total memory footprint.
func (j *LoadJob) MemoryUsage() uint64 {
	g := j.Graph()
	if g == nil {
		return 0
	}
	total, _, _ := g.MemoryUsage()
	return total
}
