package scheduler

import (
    "context"
    "errors"
    "io"
    "testing"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/logger"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

type stubRolloverStore struct {
    listCutoff time.Time
    bookings   []model.Booking
    listErr    error
    updated    []string
    updateErrs map[string]error
}

func (s *stubRolloverStore) ListEndedBefore(_ context.Context, status model.BookingStatus, cutoff time.Time) ([]model.Booking, error) {
    s.listCutoff = cutoff
    if s.listErr != nil {
        return nil, s.listErr
    }
    if status != model.StatusConfirmed {
        return nil, nil
    }
    return s.bookings, nil
}

func (s *stubRolloverStore) UpdateStatus(_ context.Context, id string, from, to model.BookingStatus, _ time.Time) (bool, error) {
    if err := s.updateErrs[id]; err != nil {
        return false, err
    }
    if from != model.StatusConfirmed || to != model.StatusCompleted {
        return false, nil
    }
    s.updated = append(s.updated, id)
    return true, nil
}

func testLogger() *logger.Logger {
    return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func TestRolloverJobCompletesEndedBookings(t *testing.T) {
    store := &stubRolloverStore{
        bookings: []model.Booking{{ID: "b1"}, {ID: "b2"}},
    }
    job, err := NewRolloverJob(testLogger(), store)
    if err != nil {
        t.Fatalf("new job: %v", err)
    }
    job.now = func() time.Time { return time.Date(2026, 9, 1, 3, 0, 0, 0, time.UTC) }

    if err := job.Run(context.Background()); err != nil {
        t.Fatalf("run: %v", err)
    }
    if len(store.updated) != 2 {
        t.Fatalf("expected 2 completions, got %v", store.updated)
    }
    // The cutoff is today's date: a stay ending today is not yet complete.
    want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
    if !store.listCutoff.Equal(want) {
        t.Fatalf("expected cutoff %v, got %v", want, store.listCutoff)
    }
}

func TestRolloverJobContinuesPastItemFailures(t *testing.T) {
    store := &stubRolloverStore{
        bookings:   []model.Booking{{ID: "b1"}, {ID: "b2"}, {ID: "b3"}},
        updateErrs: map[string]error{"b2": errors.New("deadlock")},
    }
    job, err := NewRolloverJob(testLogger(), store)
    if err != nil {
        t.Fatalf("new job: %v", err)
    }

    runErr := job.Run(context.Background())
    if runErr == nil {
        t.Fatal("expected aggregated error")
    }
    if len(store.updated) != 2 {
        t.Fatalf("other bookings must still complete, got %v", store.updated)
    }
}

func TestRolloverJobPropagatesListFailure(t *testing.T) {
    store := &stubRolloverStore{listErr: errors.New("db down")}
    job, err := NewRolloverJob(testLogger(), store)
    if err != nil {
        t.Fatalf("new job: %v", err)
    }
    if err := job.Run(context.Background()); err == nil {
        t.Fatal("expected error")
    }
}
