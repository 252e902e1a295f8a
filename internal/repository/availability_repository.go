package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// AvailabilityRepo provides data access for the availability table, the
// per-(resource, date) capacity counters backing both ledger instances.
// Room entries and extra-bed entries share one table and are distinguished
// by the kind column; the unique key (kind, resource_id, date) makes every
// counter individually addressable, which is what allows the conditional
// single-row updates below to serialize concurrent writers without any
// global lock.
type AvailabilityRepo struct {
    db *sql.DB
}

// NewAvailabilityRepo returns an AvailabilityRepo bound to the given database.
func NewAvailabilityRepo(db *sql.DB) *AvailabilityRepo { return &AvailabilityRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several repository calls.
func (r *AvailabilityRepo) DB() *sql.DB { return r.db }

// EnsureEntryTx creates the counter row for (kind, resource, date) if it
// does not exist yet, seeding it fully available at the supplied total.
// Entries are created lazily on first mutation; an existing row is left
// untouched, including its total.
func (r *AvailabilityRepo) EnsureEntryTx(ctx context.Context, tx *sql.Tx, kind model.ResourceKind, resourceID string, date time.Time, total int) error {
    const q = `INSERT INTO availability (kind, resource_id, date, total, available, booked)
               VALUES (?, ?, ?, ?, ?, 0)
               ON DUPLICATE KEY UPDATE id = id`
    _, err := tx.ExecContext(ctx, q, kind, resourceID, date.Format(model.DateLayout), total, total)
    return err
}

// ReserveDateTx moves units from available to booked for a single date.
// The decrement is conditional: it succeeds only while available >= units,
// so two writers racing for the last unit cannot both win.  When the
// condition does not hold, ErrCapacityExhausted is returned and the row is
// untouched; the caller is expected to roll back the surrounding
// transaction.
func (r *AvailabilityRepo) ReserveDateTx(ctx context.Context, tx *sql.Tx, kind model.ResourceKind, resourceID string, date time.Time, units int) error {
    const q = `UPDATE availability
               SET available = available - ?, booked = booked + ?
               WHERE kind = ? AND resource_id = ? AND date = ? AND available >= ?`
    res, err := tx.ExecContext(ctx, q, units, units, kind, resourceID, date.Format(model.DateLayout), units)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrCapacityExhausted
    }
    return nil
}

// ReleaseDateTx moves units back from booked to available for a single
// date, clamping at the counters' bounds.  MySQL evaluates SET clauses
// left to right against already-assigned values, so available is derived
// from the clamped booked figure and the available+booked==total invariant
// holds even when the release is larger than what is currently booked.
func (r *AvailabilityRepo) ReleaseDateTx(ctx context.Context, tx *sql.Tx, kind model.ResourceKind, resourceID string, date time.Time, units int) error {
    const q = `UPDATE availability
               SET booked = GREATEST(CAST(booked AS SIGNED) - ?, 0), available = total - booked
               WHERE kind = ? AND resource_id = ? AND date = ?`
    _, err := tx.ExecContext(ctx, q, units, kind, resourceID, date.Format(model.DateLayout))
    return err
}

// ListRange returns the existing entries for a resource over [from, to),
// ordered by date.  Dates without an entry are simply absent; the ledger
// layer fills those in from the catalog total.
func (r *AvailabilityRepo) ListRange(ctx context.Context, kind model.ResourceKind, resourceID string, from, to time.Time) ([]model.AvailabilityEntry, error) {
    const q = `SELECT id, kind, resource_id, date, total, available, booked, created_at, updated_at
               FROM availability
               WHERE kind = ? AND resource_id = ? AND date >= ? AND date < ?
               ORDER BY date`
    rows, err := r.db.QueryContext(ctx, q, kind, resourceID, from.Format(model.DateLayout), to.Format(model.DateLayout))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var entries []model.AvailabilityEntry
    for rows.Next() {
        var e model.AvailabilityEntry
        var date time.Time
        if err := rows.Scan(&e.ID, &e.Kind, &e.ResourceID, &date, &e.Total, &e.Available, &e.Booked, &e.CreatedAt, &e.UpdatedAt); err != nil {
            return nil, err
        }
        e.Date = model.Date(date)
        entries = append(entries, e)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return entries, nil
}

// StatsRange aggregates the existing entries for a resource over [from, to).
// Untouched dates contribute nothing: the occupancy average is computed
// only over dates that have a counter row.
func (r *AvailabilityRepo) StatsRange(ctx context.Context, kind model.ResourceKind, resourceID string, from, to time.Time) (model.OccupancyStats, error) {
    const q = `SELECT COUNT(*), COALESCE(SUM(booked), 0), COALESCE(SUM(available), 0), COALESCE(SUM(total), 0)
               FROM availability
               WHERE kind = ? AND resource_id = ? AND date >= ? AND date < ?`
    var stats model.OccupancyStats
    var sumTotal int
    err := r.db.QueryRowContext(ctx, q, kind, resourceID, from.Format(model.DateLayout), to.Format(model.DateLayout)).
        Scan(&stats.DaysCounted, &stats.TotalBooked, &stats.TotalAvailable, &sumTotal)
    if err != nil {
        return model.OccupancyStats{}, err
    }
    if sumTotal > 0 {
        stats.AverageOccupancyPct = float64(stats.TotalBooked) / float64(sumTotal) * 100
    }
    return stats, nil
}

// DeleteBefore removes all entries of the given kind dated strictly before
// the cutoff and reports how many rows were pruned.  Used by the retention
// job; live request paths never delete counters.
func (r *AvailabilityRepo) DeleteBefore(ctx context.Context, kind model.ResourceKind, cutoff time.Time) (int64, error) {
    const q = `DELETE FROM availability WHERE kind = ? AND date < ?`
    res, err := r.db.ExecContext(ctx, q, kind, cutoff.Format(model.DateLayout))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}
