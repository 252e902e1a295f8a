package scheduler

import (
    "context"
    "fmt"
    "time"

    "go.uber.org/multierr"

    "github.com/iliyamo/hotel-room-reservation/internal/logger"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ledgerPruner is the slice of the availability store the retention job
// needs.
type ledgerPruner interface {
    DeleteBefore(ctx context.Context, kind model.ResourceKind, cutoff time.Time) (int64, error)
}

// RetentionJob prunes availability counters dated further in the past than
// the retention window, for both ledger instances independently.  Old
// counters carry no information the booking records do not already hold.
type RetentionJob struct {
    logg          *logger.Logger
    store         ledgerPruner
    retentionDays int
    now           func() time.Time
}

// NewRetentionJob constructs the pruning sweep.
func NewRetentionJob(logg *logger.Logger, store ledgerPruner, retentionDays int) (*RetentionJob, error) {
    if logg == nil {
        return nil, fmt.Errorf("logger required")
    }
    if store == nil {
        return nil, fmt.Errorf("availability store required")
    }
    if retentionDays < 1 {
        return nil, fmt.Errorf("retention days must be at least 1, got %d", retentionDays)
    }
    return &RetentionJob{logg: logg, store: store, retentionDays: retentionDays, now: time.Now}, nil
}

// Name identifies the job in logs.
func (j *RetentionJob) Name() string { return "availability.retention" }

// Run prunes both ledgers.  A failing kind is logged and collected; the
// other kind still gets pruned.
func (j *RetentionJob) Run(ctx context.Context) error {
    cutoff := model.Date(j.now()).AddDate(0, 0, -j.retentionDays)
    var errs error
    for _, kind := range []model.ResourceKind{model.KindRoom, model.KindExtraBed} {
        pruned, err := j.store.DeleteBefore(ctx, kind, cutoff)
        if err != nil {
            itemCtx := j.logg.WithField(ctx, "kind", string(kind))
            j.logg.Error(itemCtx, "failed to prune availability entries", err)
            errs = multierr.Append(errs, fmt.Errorf("kind %s: %w", kind, err))
            continue
        }
        itemCtx := j.logg.WithField(ctx, "kind", string(kind))
        itemCtx = j.logg.WithField(itemCtx, "pruned", pruned)
        j.logg.Info(itemCtx, "retention prune finished")
    }
    return errs
}
