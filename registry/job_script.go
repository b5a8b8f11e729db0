package registry

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ScriptJob is the Job-shaped placeholder for the custom-script
// variant. The script executor itself is an external collaborator
// (spec.md §1 Non-goals); this type exists only so the polymorphic job
// set stays exhaustive at the registry boundary.
type ScriptJob struct {
	jobBase
}

// NewScriptJob constructs a script job stub.
func NewScriptJob(algorithmName string, log *logrus.Entry) *ScriptJob {
	return &ScriptJob{jobBase: newJobBase(nil, algorithmName, log)}
}

// Run immediately fails the job: no in-process script executor exists.
func (j *ScriptJob) Run(ctx context.Context) {
	j.setReady(fmt.Errorf("registry: custom-script jobs are not executed in-process"))
}

// NumberOfResults is always zero.
func (j *ScriptJob) NumberOfResults() int { return 0 }

// GetResult always fails.
func (j *ScriptJob) GetResult(i int) (string, interface{}, error) {
	return "", nil, fmt.Errorf("registry: script jobs have no result rows")
}

// MemoryUsage is always zero.
func (j *ScriptJob) MemoryUsage() uint64 { return 0 }
