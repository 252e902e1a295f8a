package model

import "time"

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

// Date truncates t to midnight UTC.  All calendar arithmetic in this
// package operates on midnight-UTC values so that a "date" compares equal
// regardless of the clock time it was derived from.
func Date(t time.Time) time.Time {
    y, m, d := t.UTC().Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a midnight-UTC time.
func ParseDate(s string) (time.Time, error) {
    t, err := time.Parse(DateLayout, s)
    if err != nil {
        return time.Time{}, err
    }
    return Date(t), nil
}

// StayRange is an end-exclusive date interval [From, To).  The departure
// date To itself does not consume inventory: a stay from 2024-06-01 to
// 2024-06-03 occupies the nights of the 1st and the 2nd only.
type StayRange struct {
    From time.Time
    To   time.Time
}

// Nights returns the number of occupied nights, To minus From in days.
// A non-positive result means the range is empty or inverted.
func (r StayRange) Nights() int {
    return int(r.To.Sub(r.From).Hours() / 24)
}

// Dates returns every date in [From, To) in ascending order.  The slice is
// empty when the range holds no nights.
func (r StayRange) Dates() []time.Time {
    n := r.Nights()
    if n <= 0 {
        return nil
    }
    dates := make([]time.Time, 0, n)
    for d := Date(r.From); d.Before(r.To); d = d.AddDate(0, 0, 1) {
        dates = append(dates, d)
    }
    return dates
}

// Overlaps reports whether two end-exclusive ranges share at least one
// night: [a1,a2) and [b1,b2) overlap iff a1 < b2 and b1 < a2.
func (r StayRange) Overlaps(o StayRange) bool {
    return r.From.Before(o.To) && o.From.Before(r.To)
}

// Contains reports whether date d falls inside [From, To).
func (r StayRange) Contains(d time.Time) bool {
    d = Date(d)
    return !d.Before(r.From) && d.Before(r.To)
}
