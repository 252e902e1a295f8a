package scheduler

import (
    "context"
    "fmt"
    "time"

    "go.uber.org/multierr"

    "github.com/iliyamo/hotel-room-reservation/internal/logger"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// rolloverStore is the slice of the booking store the rollover job needs.
type rolloverStore interface {
    ListEndedBefore(ctx context.Context, status model.BookingStatus, cutoff time.Time) ([]model.Booking, error)
    UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus, at time.Time) (bool, error)
}

// RolloverJob advances CONFIRMED bookings whose check-out date is strictly
// before today into COMPLETED.  It is a polling sweep: booking volume is
// low relative to a once-daily cadence, so event-driven completion would
// buy nothing.
type RolloverJob struct {
    logg  *logger.Logger
    store rolloverStore
    now   func() time.Time
}

// NewRolloverJob constructs the rollover sweep.
func NewRolloverJob(logg *logger.Logger, store rolloverStore) (*RolloverJob, error) {
    if logg == nil {
        return nil, fmt.Errorf("logger required")
    }
    if store == nil {
        return nil, fmt.Errorf("booking store required")
    }
    return &RolloverJob{logg: logg, store: store, now: time.Now}, nil
}

// Name identifies the job in logs.
func (j *RolloverJob) Name() string { return "booking.rollover" }

// Run performs one sweep.  Each booking is advanced independently; one bad
// record is logged and collected but never aborts the rest of the sweep.
func (j *RolloverJob) Run(ctx context.Context) error {
    today := model.Date(j.now())
    stale, err := j.store.ListEndedBefore(ctx, model.StatusConfirmed, today)
    if err != nil {
        return fmt.Errorf("list ended bookings: %w", err)
    }
    var errs error
    completed := 0
    for _, b := range stale {
        flipped, err := j.store.UpdateStatus(ctx, b.ID, model.StatusConfirmed, model.StatusCompleted, j.now().UTC())
        if err != nil {
            itemCtx := j.logg.WithField(ctx, "booking_id", b.ID)
            j.logg.Error(itemCtx, "failed to complete booking", err)
            errs = multierr.Append(errs, fmt.Errorf("booking %s: %w", b.ID, err))
            continue
        }
        if flipped {
            completed++
        }
    }
    ctx = j.logg.WithField(ctx, "completed", completed)
    j.logg.Info(ctx, "rollover sweep finished")
    return errs
}
