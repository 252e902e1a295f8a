package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking.  The set is
// closed: any status not listed here is rejected at the persistence
// boundary.  PENDING is reserved for future asynchronous flows and is not
// produced by the current create path, which confirms immediately.
type BookingStatus string

const (
    StatusPending   BookingStatus = "PENDING"
    StatusConfirmed BookingStatus = "CONFIRMED"
    StatusCancelled BookingStatus = "CANCELLED"
    StatusCompleted BookingStatus = "COMPLETED"
    StatusNoShow    BookingStatus = "NO_SHOW"
)

// Valid reports whether s is a member of the closed status set.
func (s BookingStatus) Valid() bool {
    switch s {
    case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
        return true
    }
    return false
}

// Terminal reports whether s admits no further transitions.  CANCELLED,
// COMPLETED and NO_SHOW are terminal; a booking in one of these states can
// never be resurrected.
func (s BookingStatus) Terminal() bool {
    switch s {
    case StatusCancelled, StatusCompleted, StatusNoShow:
        return true
    }
    return false
}

// CanTransition reports whether moving from s to next is a legal status
// transition.  All legality checks go through this single function so that
// illegal transitions are caught in one place rather than by scattered
// string comparisons.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
    if !s.Valid() || !next.Valid() || s == next {
        return false
    }
    switch s {
    case StatusPending:
        return next == StatusConfirmed || next == StatusCancelled
    case StatusConfirmed:
        return next == StatusCancelled || next == StatusCompleted || next == StatusNoShow
    }
    // terminal states transition nowhere
    return false
}

// Booking records a guest's reservation of one or more rooms in a property
// for a span of nights.  It snapshots the nightly price at creation time so
// later catalog changes never alter an existing booking's total.
//
// Fields:
//  ID                 – opaque unique identifier (UUID).
//  ConfirmationCode   – short human-readable code, unique per booking.
//  RoomID             – room being reserved (catalog reference).
//  PropertyID         – property owning the room (catalog reference).
//  GuestID            – requester identity, validated externally.
//  CheckIn            – first occupied night (UTC midnight).
//  CheckOut           – departure date, exclusive: the last occupied night
//                       is CheckOut minus one day.
//  CheckInTime        – optional time-of-day for arrival (e.g. "15:00").
//  CheckOutTime       – optional time-of-day for departure.
//  Rooms              – number of rooms reserved, at least 1.
//  Adults, Children   – occupant counts.
//  ExtraBeds          – extra beds drawn from the property's shared pool.
//  PricePerNightCents – nightly price snapshot for one room.
//  Nights             – derived: CheckOut minus CheckIn in days.
//  TotalCents         – PricePerNightCents x Rooms x Nights.
//  Status             – lifecycle state, see BookingStatus.
//  CancelReason       – reason supplied on cancellation (nullable).
//  CreatedAt          – creation timestamp.
//  UpdatedAt          – last modification timestamp.
//  CancelledAt        – cancellation timestamp (nullable).
type Booking struct {
    ID                 string        `json:"id"`
    ConfirmationCode   string        `json:"confirmation_code"`
    RoomID             string        `json:"room_id"`
    PropertyID         string        `json:"property_id"`
    GuestID            string        `json:"guest_id"`
    CheckIn            time.Time     `json:"check_in"`
    CheckOut           time.Time     `json:"check_out"`
    CheckInTime        *string       `json:"check_in_time,omitempty"`
    CheckOutTime       *string       `json:"check_out_time,omitempty"`
    Rooms              int           `json:"rooms"`
    Adults             int           `json:"adults"`
    Children           int           `json:"children"`
    ExtraBeds          int           `json:"extra_beds"`
    PricePerNightCents int64         `json:"price_per_night_cents"`
    Nights             int           `json:"nights"`
    TotalCents         int64         `json:"total_cents"`
    Status             BookingStatus `json:"status"`
    CancelReason       *string       `json:"cancel_reason,omitempty"`
    CreatedAt          time.Time     `json:"created_at"`
    UpdatedAt          time.Time     `json:"updated_at"`
    CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
}

// Stay returns the booking's date span as a StayRange.
func (b *Booking) Stay() StayRange {
    return StayRange{From: b.CheckIn, To: b.CheckOut}
}
