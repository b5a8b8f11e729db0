package registry

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// AggregationOp is a reduction applied over another job's result
// column (SPEC_FULL.md §10: aggregation jobs need only get_result from
// another job, no graph of their own).
type AggregationOp int

const (
	AggregationSum AggregationOp = iota
	AggregationMin
	AggregationMax
	AggregationCount
)

// AggregationJob reduces another job's result values to a single
// scalar. It holds no graph reference of its own.
type AggregationJob struct {
	jobBase

	source resultSource
	op     AggregationOp

	value float64
	ok    bool
}

// resultSource is the narrow surface AggregationJob needs from another
// job: just result enumeration, matching resultwriter.ResultSource.
type resultSource interface {
	NumberOfResults() int
	GetResult(i int) (key string, value interface{}, err error)
}

// NewAggregationJob constructs an aggregation job reducing source's
// result values with op.
func NewAggregationJob(source resultSource, op AggregationOp, algorithmName string, log *logrus.Entry) *AggregationJob {
	return &AggregationJob{jobBase: newJobBase(nil, algorithmName, log), source: source, op: op}
}

// Run walks the source job's result rows and reduces them, marking
// this job ready when done.
func (j *AggregationJob) Run(ctx context.Context) {
	n := j.source.NumberOfResults()

	var acc float64
	var initialized bool

	for i := 0; i < n; i++ {
		_, raw, err := j.source.GetResult(i)
		if err != nil {
			j.setReady(err)
			return
		}

		if j.op == AggregationCount {
			acc++
			continue
		}

		f, ok := toFloat64(raw)
		if !ok {
			j.setReady(fmt.Errorf("registry: aggregation: result %d is not numeric", i))
			return
		}

		switch {
		case !initialized:
			acc = f
			initialized = true
		case j.op == AggregationSum:
			acc += f
		case j.op == AggregationMin:
			if f < acc {
				acc = f
			}
		case j.op == AggregationMax:
			if f > acc {
				acc = f
			}
		}
	}

	j.mu.Lock()
	j.value = acc
	j.ok = true
	j.mu.Unlock()

	j.setProgress(uint64(n), uint64(n))
	j.setReady(nil)
}

// NumberOfResults is 1 once the reduction has completed, else 0.
func (j *AggregationJob) NumberOfResults() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.ok {
		return 1
	}
	return 0
}

// GetResult returns the single reduced scalar under the key
// "aggregate".
func (j *AggregationJob) GetResult(i int) (string, interface{}, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if i != 0 || !j.ok {
		return "", nil, fmt.Errorf("registry: aggregation result not available")
	}
	return "aggregate", j.value, nil
}

// MemoryUsage is negligible: a single float64 accumulator.
func (j *AggregationJob) MemoryUsage() uint64 { return 8 }

func toFloat64(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
