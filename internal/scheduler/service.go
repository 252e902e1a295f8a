package scheduler

import (
    "context"
    "fmt"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/logger"
)

const defaultInterval = 24 * time.Hour

// ServiceParams configure the sweep service.
type ServiceParams struct {
    Logger   *logger.Logger
    Registry *Registry
    Lock     Lock
    Interval time.Duration
}

// Service executes registered jobs on a fixed cadence.  A failing job is
// logged and the remaining jobs still run; the service itself only stops
// when its context is cancelled.
type Service struct {
    logg     *logger.Logger
    registry *Registry
    lock     Lock
    interval time.Duration
}

// NewService builds a sweep service.
func NewService(params ServiceParams) (*Service, error) {
    if params.Logger == nil {
        return nil, fmt.Errorf("logger required")
    }
    if params.Lock == nil {
        return nil, fmt.Errorf("lock required")
    }
    registry := params.Registry
    if registry == nil {
        registry = NewRegistry()
    }
    interval := params.Interval
    if interval <= 0 {
        interval = defaultInterval
    }
    return &Service{
        logg:     params.Logger,
        registry: registry,
        lock:     params.Lock,
        interval: interval,
    }, nil
}

// Run executes one cycle immediately, then keeps sweeping on the
// configured interval until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
    if err := s.runCycle(ctx); err != nil {
        s.logg.Error(ctx, "scheduled run failed", err)
    }
    ticker := time.NewTicker(s.interval)
    defer ticker.Stop()

    for {
        select {
        case <-ctx.Done():
            s.logg.Info(ctx, "scheduler context cancelled")
            return ctx.Err()
        case <-ticker.C:
            if err := s.runCycle(ctx); err != nil {
                s.logg.Error(ctx, "scheduled run failed", err)
            }
        }
    }
}

func (s *Service) runCycle(ctx context.Context) error {
    locked, err := s.lock.Acquire(ctx)
    if err != nil {
        return fmt.Errorf("lock acquire: %w", err)
    }
    if !locked {
        s.logg.Info(ctx, "another instance is sweeping; skipping this cycle")
        return nil
    }
    defer func() {
        if relErr := s.lock.Release(ctx); relErr != nil {
            s.logg.Error(ctx, "failed to release sweep lock", relErr)
        }
    }()

    for _, job := range s.registry.Jobs() {
        s.runJob(ctx, job)
    }
    return nil
}

func (s *Service) runJob(ctx context.Context, job Job) {
    jobCtx := s.logg.WithField(ctx, "job", job.Name())
    s.logg.Info(jobCtx, "job start")
    start := time.Now()
    err := job.Run(jobCtx)
    jobCtx = s.logg.WithField(jobCtx, "duration_ms", time.Since(start).Milliseconds())
    if err != nil {
        s.logg.Error(jobCtx, "job failed", err)
        return
    }
    s.logg.Info(jobCtx, "job completed")
}
