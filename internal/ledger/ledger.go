// Package ledger implements the per-date capacity ledger.  Two instances
// run in production: one keyed by room id for room inventory and one keyed
// by property id for the shared extra-bed pool.  Both expose the same
// operations; callers never touch individual per-date counters, only whole
// end-exclusive ranges.
package ledger

import (
    "context"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ErrInsufficient is returned when a range cannot be reserved because at
// least one date's available count is below the requested units.  After a
// passed availability check this means a concurrent writer took the
// capacity first; the operation is safe to retry.
var ErrInsufficient = errors.New("insufficient availability")

// Tx is the set of per-date mutations available inside one unit of work.
// Every mutation applied through a Tx is atomic with the others: if any
// date in a range fails, the whole range is rolled back.
type Tx interface {
    // EnsureEntry lazily creates the counter for (resource, date) seeded
    // fully available at total.  Existing counters are left untouched.
    EnsureEntry(ctx context.Context, kind model.ResourceKind, resourceID string, date time.Time, total int) error
    // ReserveDate conditionally moves units from available to booked,
    // failing with ErrInsufficient when available < units.
    ReserveDate(ctx context.Context, kind model.ResourceKind, resourceID string, date time.Time, units int) error
    // ReleaseDate moves units back from booked to available, clamped at
    // the counter bounds.
    ReleaseDate(ctx context.Context, kind model.ResourceKind, resourceID string, date time.Time, units int) error
}

// Store is the persistence contract the ledger runs against.  The SQL
// implementation lives in store.go; tests substitute an in-memory fake.
type Store interface {
    // InTx runs fn inside one transaction, committing when fn returns nil
    // and rolling back otherwise.
    InTx(ctx context.Context, fn func(tx Tx) error) error
    // ListRange returns existing entries for [from, to) ordered by date.
    ListRange(ctx context.Context, kind model.ResourceKind, resourceID string, from, to time.Time) ([]model.AvailabilityEntry, error)
    // StatsRange aggregates existing entries over [from, to).
    StatsRange(ctx context.Context, kind model.ResourceKind, resourceID string, from, to time.Time) (model.OccupancyStats, error)
}

// CapacityFunc resolves a resource's authoritative total capacity from the
// catalog.  It is consulted for dates that have no counter row yet.
type CapacityFunc func(ctx context.Context, resourceID string) (int, error)

// Ledger answers availability questions and shifts capacity between
// available and booked for end-exclusive date ranges.
type Ledger struct {
    kind     model.ResourceKind
    store    Store
    capacity CapacityFunc
}

// New builds a ledger instance of the given kind.
func New(kind model.ResourceKind, store Store, capacity CapacityFunc) *Ledger {
    if store == nil || capacity == nil {
        panic("nil dependency passed to ledger.New")
    }
    return &Ledger{kind: kind, store: store, capacity: capacity}
}

// Kind returns which resource kind this instance tracks.
func (l *Ledger) Kind() model.ResourceKind { return l.kind }

// CheckAvailability reports whether every date in [r.From, r.To) has at
// least units available.  Dates without a counter row count as fully
// available at the catalog total.  The answer is advisory: only
// ReserveRange's conditional updates actually guarantee the capacity.
func (l *Ledger) CheckAvailability(ctx context.Context, resourceID string, r model.StayRange, units int) (bool, error) {
    if units < 1 {
        return false, fmt.Errorf("units must be at least 1, got %d", units)
    }
    entries, err := l.store.ListRange(ctx, l.kind, resourceID, r.From, r.To)
    if err != nil {
        return false, err
    }
    byDate := make(map[string]model.AvailabilityEntry, len(entries))
    for _, e := range entries {
        byDate[e.Date.Format(model.DateLayout)] = e
    }
    total := -1 // catalog total, fetched only if an untouched date shows up
    for _, d := range r.Dates() {
        avail := 0
        if e, ok := byDate[d.Format(model.DateLayout)]; ok {
            avail = e.Available
        } else {
            if total < 0 {
                if total, err = l.capacity(ctx, resourceID); err != nil {
                    return false, err
                }
            }
            avail = total
        }
        if avail < units {
            return false, nil
        }
    }
    return true, nil
}

// ReserveRange atomically moves units from available to booked for every
// date in [r.From, r.To).  All dates succeed or none do: a single date
// failing its conditional decrement rolls the whole range back and
// ErrInsufficient is returned.  Counter rows are created lazily at the
// catalog total for dates never touched before.
func (l *Ledger) ReserveRange(ctx context.Context, resourceID string, r model.StayRange, units int) error {
    dates := r.Dates()
    if len(dates) == 0 {
        return fmt.Errorf("empty range %s to %s", r.From.Format(model.DateLayout), r.To.Format(model.DateLayout))
    }
    if units < 1 {
        return fmt.Errorf("units must be at least 1, got %d", units)
    }
    total, err := l.capacity(ctx, resourceID)
    if err != nil {
        return err
    }
    return l.store.InTx(ctx, func(tx Tx) error {
        for _, d := range dates {
            if err := tx.EnsureEntry(ctx, l.kind, resourceID, d, total); err != nil {
                return err
            }
            if err := tx.ReserveDate(ctx, l.kind, resourceID, d, units); err != nil {
                return err
            }
        }
        return nil
    })
}

// ReleaseRange returns units to available for every date in [r.From, r.To),
// clamped so no counter ever exceeds its total or drops below zero.  Used
// by cancellation and by the create saga's compensation step.
func (l *Ledger) ReleaseRange(ctx context.Context, resourceID string, r model.StayRange, units int) error {
    dates := r.Dates()
    if len(dates) == 0 {
        return fmt.Errorf("empty range %s to %s", r.From.Format(model.DateLayout), r.To.Format(model.DateLayout))
    }
    total, err := l.capacity(ctx, resourceID)
    if err != nil {
        return err
    }
    return l.store.InTx(ctx, func(tx Tx) error {
        for _, d := range dates {
            if err := tx.EnsureEntry(ctx, l.kind, resourceID, d, total); err != nil {
                return err
            }
            if err := tx.ReleaseDate(ctx, l.kind, resourceID, d, units); err != nil {
                return err
            }
        }
        return nil
    })
}

// Calendar returns the available count per date over [r.From, r.To) as a
// read-only projection for display.  Dates without a counter row report
// the catalog total.
func (l *Ledger) Calendar(ctx context.Context, resourceID string, r model.StayRange) (map[string]int, error) {
    entries, err := l.store.ListRange(ctx, l.kind, resourceID, r.From, r.To)
    if err != nil {
        return nil, err
    }
    byDate := make(map[string]model.AvailabilityEntry, len(entries))
    for _, e := range entries {
        byDate[e.Date.Format(model.DateLayout)] = e
    }
    total := -1
    out := make(map[string]int, r.Nights())
    for _, d := range r.Dates() {
        key := d.Format(model.DateLayout)
        if e, ok := byDate[key]; ok {
            out[key] = e.Available
            continue
        }
        if total < 0 {
            if total, err = l.capacity(ctx, resourceID); err != nil {
                return nil, err
            }
        }
        out[key] = total
    }
    return out, nil
}

// Stats aggregates occupancy over existing entries in [r.From, r.To).
// Dates never touched are excluded from the average by policy.
func (l *Ledger) Stats(ctx context.Context, resourceID string, r model.StayRange) (model.OccupancyStats, error) {
    return l.store.StatsRange(ctx, l.kind, resourceID, r.From, r.To)
}
