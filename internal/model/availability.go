package model

import "time"

// ResourceKind distinguishes the two ledger instances.  Room entries are
// keyed by room id, extra-bed entries by property id; both share the same
// counter shape and the same conditional-update rules.
type ResourceKind string

const (
    KindRoom     ResourceKind = "room"
    KindExtraBed ResourceKind = "extra_bed"
)

// AvailabilityEntry is the per-(resource, date) capacity counter.  One
// entry exists per resource and calendar date once that date has been
// touched by a reservation; dates never touched have no entry and report
// the catalog's current total.
//
// Invariant: Available + Booked == Total, Available >= 0, Booked >= 0.
type AvailabilityEntry struct {
    ID         uint64       `json:"-"`
    Kind       ResourceKind `json:"-"`
    ResourceID string       `json:"resource_id"`
    Date       time.Time    `json:"date"`
    Total      int          `json:"total"`
    Available  int          `json:"available"`
    Booked     int          `json:"booked"`
    CreatedAt  time.Time    `json:"-"`
    UpdatedAt  time.Time    `json:"-"`
}

// Consistent reports whether the entry's counters satisfy the ledger
// invariant.  Used by tests and by the audit read path.
func (e *AvailabilityEntry) Consistent() bool {
    return e.Available >= 0 && e.Booked >= 0 && e.Available+e.Booked == e.Total
}

// OccupancyStats aggregates existing ledger entries over a window.  Dates
// without an entry are excluded from the average: an untouched date has no
// occupancy signal, so counting it would dilute the figure.
type OccupancyStats struct {
    AverageOccupancyPct float64 `json:"average_occupancy_pct"`
    TotalBooked         int     `json:"total_booked"`
    TotalAvailable      int     `json:"total_available"`
    DaysCounted         int     `json:"days_counted"`
}
