// Package scheduler runs the daily consistency sweeps: rolling finished
// CONFIRMED bookings into COMPLETED and pruning old availability counters.
// Jobs are registered explicitly and executed on a fixed cadence by the
// Service, guarded by a distributed lock so only one instance sweeps.
package scheduler

import "context"

// Job is one scheduled task.
type Job interface {
    Name() string
    Run(ctx context.Context) error
}

// Registry tracks registered jobs in insertion order.
type Registry struct {
    jobs []Job
}

// NewRegistry builds a registry preloaded with the provided jobs.
func NewRegistry(jobs ...Job) *Registry {
    r := &Registry{}
    for _, job := range jobs {
        r.Register(job)
    }
    return r
}

// Register adds a job; nil jobs are ignored.
func (r *Registry) Register(job Job) {
    if job == nil {
        return
    }
    r.jobs = append(r.jobs, job)
}

// Jobs returns the registered jobs in the order they were added.
func (r *Registry) Jobs() []Job {
    jobs := make([]Job, len(r.jobs))
    copy(jobs, r.jobs)
    return jobs
}
