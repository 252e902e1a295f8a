// Package repository defines error values shared across the data access
// layer.  Sentinel errors let higher layers such as the booking manager and
// the HTTP handlers distinguish failure scenarios with errors.Is instead of
// string matching.
package repository

import "errors"

// ErrBookingNotFound is returned when no booking row matches the lookup.
var ErrBookingNotFound = errors.New("booking not found")

// ErrDuplicateCode is returned when an insert collides with the unique
// index on the confirmation code.  Callers retry with a fresh code.
var ErrDuplicateCode = errors.New("confirmation code already in use")

// ErrCapacityExhausted is returned by the conditional capacity decrement
// when a date's available count is below the requested units.  It signals
// a lost race or genuine shortage, never a storage fault.
var ErrCapacityExhausted = errors.New("capacity exhausted for date")
