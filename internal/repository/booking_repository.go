package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// mysqlDuplicateEntry is the MySQL error number raised when an insert
// violates a unique index.
const mysqlDuplicateEntry = 1062

// BookingRepo provides CRUD and lookup operations for booking rows.  All
// timestamp columns are stored in UTC; check_in and check_out are DATE
// columns holding the end-exclusive stay range.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, confirmation_code, room_id, property_id, guest_id,
    check_in, check_out, check_in_time, check_out_time,
    rooms, adults, children, extra_beds,
    price_per_night_cents, nights, total_cents,
    status, cancel_reason, created_at, updated_at, cancelled_at`

// Create inserts a booking.  A collision on the confirmation code unique
// index is reported as ErrDuplicateCode so the caller can regenerate and
// retry; any other failure is returned as-is.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (id, confirmation_code, room_id, property_id, guest_id,
                   check_in, check_out, check_in_time, check_out_time,
                   rooms, adults, children, extra_beds,
                   price_per_night_cents, nights, total_cents,
                   status, created_at, updated_at)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    _, err := r.db.ExecContext(ctx, q,
        b.ID, b.ConfirmationCode, b.RoomID, b.PropertyID, b.GuestID,
        b.CheckIn.Format(model.DateLayout), b.CheckOut.Format(model.DateLayout),
        b.CheckInTime, b.CheckOutTime,
        b.Rooms, b.Adults, b.Children, b.ExtraBeds,
        b.PricePerNightCents, b.Nights, b.TotalCents,
        b.Status, b.CreatedAt, b.UpdatedAt,
    )
    var mysqlErr *mysql.MySQLError
    if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
        return ErrDuplicateCode
    }
    return err
}

// Delete removes a booking row.  Only the create saga uses this, to
// compensate a persisted record whose capacity reservation could not be
// completed.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
    _, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
    return err
}

// GetByID loads a single booking.  ErrBookingNotFound is returned when no
// row matches.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
    b, err := scanBooking(r.db.QueryRowContext(ctx, q, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrBookingNotFound
    }
    return b, err
}

// ListByGuest returns all bookings created by a guest, newest first.
func (r *BookingRepo) ListByGuest(ctx context.Context, guestID string) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE guest_id = ? ORDER BY created_at DESC`
    return r.queryBookings(ctx, q, guestID)
}

// ListOverlapping returns the bookings for a room whose stay intersects the
// end-exclusive window [from, to): check_in < to AND from < check_out.
// CANCELLED bookings are excluded because they no longer consume capacity;
// overlap results feed capacity cross-checks and audits, where a cancelled
// row would be noise.
func (r *BookingRepo) ListOverlapping(ctx context.Context, roomID string, from, to time.Time) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE room_id = ? AND check_in < ? AND ? < check_out AND status <> ?
               ORDER BY check_in`
    return r.queryBookings(ctx, q, roomID, to.Format(model.DateLayout), from.Format(model.DateLayout), model.StatusCancelled)
}

// ListOverlappingByProperty is the property-wide variant of ListOverlapping,
// used by the audit window endpoint.
func (r *BookingRepo) ListOverlappingByProperty(ctx context.Context, propertyID string, from, to time.Time) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE property_id = ? AND check_in < ? AND ? < check_out AND status <> ?
               ORDER BY check_in`
    return r.queryBookings(ctx, q, propertyID, to.Format(model.DateLayout), from.Format(model.DateLayout), model.StatusCancelled)
}

// ListByStatus returns all bookings in the given status.
func (r *BookingRepo) ListByStatus(ctx context.Context, status model.BookingStatus) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE status = ? ORDER BY created_at`
    return r.queryBookings(ctx, q, status)
}

// ListEndedBefore returns bookings in the given status whose check_out is
// strictly before the cutoff date.  The rollover job uses this to find
// CONFIRMED stays that have finished.
func (r *BookingRepo) ListEndedBefore(ctx context.Context, status model.BookingStatus, cutoff time.Time) ([]model.Booking, error) {
    const q = `SELECT ` + bookingColumns + ` FROM bookings
               WHERE status = ? AND check_out < ? ORDER BY check_out`
    return r.queryBookings(ctx, q, status, cutoff.Format(model.DateLayout))
}

// UpdateStatus advances a booking from one status to another.  The guard on
// the current status makes the update a compare-and-swap: a booking already
// moved by a concurrent writer is left alone, and false is returned.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus, at time.Time) (bool, error) {
    const q = `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, to, at, id, from)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    return n > 0, err
}

// MarkCancelled flips a CONFIRMED booking to CANCELLED, stamping
// cancelled_at and storing the reason.  The guard on the current status
// returns false when the row was not in CONFIRMED state anymore, so a
// concurrent cancel or rollover wins cleanly.
func (r *BookingRepo) MarkCancelled(ctx context.Context, id string, reason string, at time.Time) (bool, error) {
    const q = `UPDATE bookings
               SET status = ?, cancel_reason = ?, cancelled_at = ?, updated_at = ?
               WHERE id = ? AND status = ?`
    res, err := r.db.ExecContext(ctx, q, model.StatusCancelled, reason, at, at, id, model.StatusConfirmed)
    if err != nil {
        return false, err
    }
    n, err := res.RowsAffected()
    return n > 0, err
}

func (r *BookingRepo) queryBookings(ctx context.Context, q string, args ...interface{}) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    bookings := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        bookings = append(bookings, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return bookings, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows so one scan routine serves
// both single and multi row queries.
type rowScanner interface {
    Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*model.Booking, error) {
    var b model.Booking
    var checkIn, checkOut time.Time
    var checkInTime, checkOutTime, cancelReason sql.NullString
    var cancelledAt sql.NullTime
    if err := row.Scan(
        &b.ID, &b.ConfirmationCode, &b.RoomID, &b.PropertyID, &b.GuestID,
        &checkIn, &checkOut, &checkInTime, &checkOutTime,
        &b.Rooms, &b.Adults, &b.Children, &b.ExtraBeds,
        &b.PricePerNightCents, &b.Nights, &b.TotalCents,
        &b.Status, &cancelReason, &b.CreatedAt, &b.UpdatedAt, &cancelledAt,
    ); err != nil {
        return nil, err
    }
    b.CheckIn = model.Date(checkIn)
    b.CheckOut = model.Date(checkOut)
    if checkInTime.Valid {
        v := checkInTime.String
        b.CheckInTime = &v
    }
    if checkOutTime.Valid {
        v := checkOutTime.String
        b.CheckOutTime = &v
    }
    if cancelReason.Valid {
        v := cancelReason.String
        b.CancelReason = &v
    }
    if cancelledAt.Valid {
        t := cancelledAt.Time
        b.CancelledAt = &t
    }
    return &b, nil
}
