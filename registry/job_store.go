package registry

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/graphengine/resultwriter"
)

// memoryUsageReporter is satisfied structurally by every other Job
// variant; used here only to roll up an estimate, never to gate
// behaviour.
type memoryUsageReporter interface {
	MemoryUsage() uint64
}

// StoreJob writes one or more completed jobs' results back to the
// source database via a resultwriter.Writer. Its inputs' Source fields
// are themselves registry.Job values, which satisfy
// resultwriter.ResultSource structurally.
type StoreJob struct {
	jobBase

	writer *resultwriter.Writer
	inputs []resultwriter.Input
}

// NewStoreJob constructs a store job writing inputs through writer.
func NewStoreJob(writer *resultwriter.Writer, inputs []resultwriter.Input, algorithmName string, log *logrus.Entry) *StoreJob {
	return &StoreJob{
		jobBase: newJobBase(nil, algorithmName, log),
		writer:  writer,
		inputs:  inputs,
	}
}

// Run writes all inputs back to the database and marks the job ready.
func (j *StoreJob) Run(ctx context.Context) {
	err := j.writer.Write(ctx, j.inputs)
	j.setProgress(1, 1)
	j.setReady(err)
}

// NumberOfResults is always zero: a store job's product is written to
// the external database, not retained as result rows.
func (j *StoreJob) NumberOfResults() int { return 0 }

// GetResult always fails: store jobs carry no result rows.
func (j *StoreJob) GetResult(i int) (string, interface{}, error) {
	return "", nil, fmt.Errorf("registry: store jobs have no result rows")
}

// MemoryUsage sums the memory usage reported by each input's source
// job, when that source exposes one.
func (j *StoreJob) MemoryUsage() uint64 {
	var total uint64
	for _, in := range j.inputs {
		if reporter, ok := in.Source.(memoryUsageReporter); ok {
			total += reporter.MemoryUsage()
		}
	}
	return total
}
