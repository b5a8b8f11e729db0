package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/exp/slices"
)

// readySetter is satisfied by every job variant through its embedded
// jobBase; it lets Spawn mark a panicking job ready-with-error without
// the Job interface itself exposing a public setter.
type readySetter interface {
	setReady(err error)
}

// JobRegistry hands out monotonically increasing job IDs and owns each
// job's worker goroutine, giving every job its own cancellable context
// the way a single HealthMonitor poll loop is generalized here into N
// independently stoppable job loops.
type JobRegistry struct {
	mu   sync.RWMutex
	jobs map[uint64]*entry

	nextID uint64

	liveGauge prometheus.Gauge
}

type entry struct {
	job    Job
	cancel context.CancelFunc
}

// NewJobRegistry constructs an empty registry. liveGauge, if non-nil,
// tracks the number of currently registered jobs.
func NewJobRegistry(liveGauge prometheus.Gauge) *JobRegistry {
	return &JobRegistry{
		jobs:      make(map[uint64]*entry),
		liveGauge: liveGauge,
	}
}

// Spawn registers job under a new ID and runs work in its own
// goroutine with a context derived from parent; work is expected to
// poll job.(interface{ Cancelled() bool }) or ctx.Done() at coarse
// boundaries and to call the job's own setReady before returning. A
// panic inside work is recovered and turned into a failed-but-ready
// job rather than crashing the process.
func (r *JobRegistry) Spawn(parent context.Context, job Job, work func(ctx context.Context)) uint64 {
	ctx, cancel := context.WithCancel(parent)

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.jobs[id] = &entry{job: job, cancel: cancel}
	if r.liveGauge != nil {
		r.liveGauge.Set(float64(len(r.jobs)))
	}
	r.mu.Unlock()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				if rs, ok := job.(readySetter); ok {
					rs.setReady(fmt.Errorf("registry: job panicked: %v", rec))
				}
			}
		}()
		work(ctx)
	}()

	return id
}

// Get returns the job registered under id, if any.
func (r *JobRegistry) Get(id uint64) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	return e.job, true
}

// Cancel requests cooperative cancellation of the job registered under
// id, cancelling its worker context and setting its Cancel flag. It
// reports whether id was registered.
func (r *JobRegistry) Cancel(id uint64) bool {
	r.mu.RLock()
	e, ok := r.jobs[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	e.cancel()
	e.job.Cancel()
	return true
}

// Drop cancels and removes the job registered under id. It reports
// whether id was registered.
func (r *JobRegistry) Drop(id uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.jobs[id]
	if !ok {
		return false
	}
	e.cancel()
	e.job.Cancel()
	delete(r.jobs, id)

	if r.liveGauge != nil {
		r.liveGauge.Set(float64(len(r.jobs)))
	}
	return true
}

// Count returns the number of currently registered jobs.
func (r *JobRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.jobs)
}

// IDs returns every currently registered job ID in ascending order, for
// diagnostic logging (e.g. at shutdown).
func (r *JobRegistry) IDs() []uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]uint64, 0, len(r.jobs))
	for id := range r.jobs {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
