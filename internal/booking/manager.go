// Package booking implements the booking lifecycle: creation, cancellation
// and reads.  The Manager is the only writer of booking records and the
// only caller of the availability ledgers' mutating operations; everything
// else in the system observes bookings read-only.
package booking

import (
    "context"
    "errors"
    "time"

    "github.com/go-playground/validator/v10"
    "github.com/google/uuid"

    "github.com/iliyamo/hotel-room-reservation/internal/catalog"
    "github.com/iliyamo/hotel-room-reservation/internal/ledger"
    "github.com/iliyamo/hotel-room-reservation/internal/logger"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
    "github.com/iliyamo/hotel-room-reservation/internal/utils"
)

// codeLength is the confirmation code size in characters.
const codeLength = 8

// maxCodeAttempts bounds how many times creation retries a confirmation
// code that collided with the store's unique index.
const maxCodeAttempts = 5

// recordStore is the booking persistence contract the manager depends on.
type recordStore interface {
    Create(ctx context.Context, b *model.Booking) error
    Delete(ctx context.Context, id string) error
    GetByID(ctx context.Context, id string) (*model.Booking, error)
    ListByGuest(ctx context.Context, guestID string) ([]model.Booking, error)
    ListOverlappingByProperty(ctx context.Context, propertyID string, from, to time.Time) ([]model.Booking, error)
    MarkCancelled(ctx context.Context, id string, reason string, at time.Time) (bool, error)
}

// capacityLedger is the slice of the availability ledger the manager uses.
type capacityLedger interface {
    CheckAvailability(ctx context.Context, resourceID string, r model.StayRange, units int) (bool, error)
    ReserveRange(ctx context.Context, resourceID string, r model.StayRange, units int) error
    ReleaseRange(ctx context.Context, resourceID string, r model.StayRange, units int) error
}

// catalogService resolves rooms, properties and requester identities.
type catalogService interface {
    Room(ctx context.Context, id string) (*catalog.Room, error)
    Property(ctx context.Context, id string) (*catalog.Property, error)
    ValidateIdentity(ctx context.Context, guestID, bearer string) (*catalog.Identity, error)
}

// eventPublisher emits domain events.  Failures are logged, never surfaced.
type eventPublisher interface {
    BookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
    BookingCancelled(ctx context.Context, ev queue.BookingCancelledEvent) error
}

// Manager orchestrates the booking lifecycle.
type Manager struct {
    logg      *logger.Logger
    store     recordStore
    rooms     capacityLedger
    extraBeds capacityLedger
    catalog   catalogService
    events    eventPublisher
    validate  *validator.Validate
    now       func() time.Time
}

// NewManager wires a Manager.  All dependencies must be non-nil.
func NewManager(logg *logger.Logger, store recordStore, rooms, extraBeds capacityLedger, cat catalogService, events eventPublisher) *Manager {
    if logg == nil || store == nil || rooms == nil || extraBeds == nil || cat == nil || events == nil {
        panic("nil dependency passed to NewManager")
    }
    return &Manager{
        logg:      logg,
        store:     store,
        rooms:     rooms,
        extraBeds: extraBeds,
        catalog:   cat,
        events:    events,
        validate:  validator.New(),
        now:       time.Now,
    }
}

// CreateInput is the create-booking request body.
type CreateInput struct {
    RoomID       string  `json:"room_id" validate:"required,uuid4"`
    PropertyID   string  `json:"property_id" validate:"required,uuid4"`
    CheckIn      string  `json:"check_in" validate:"required,datetime=2006-01-02"`
    CheckOut     string  `json:"check_out" validate:"required,datetime=2006-01-02"`
    CheckInTime  *string `json:"check_in_time,omitempty" validate:"omitempty,datetime=15:04"`
    CheckOutTime *string `json:"check_out_time,omitempty" validate:"omitempty,datetime=15:04"`
    Rooms        int     `json:"rooms" validate:"required,min=1"`
    Adults       int     `json:"adults" validate:"required,min=1"`
    Children     int     `json:"children" validate:"min=0"`
    ExtraBeds    int     `json:"extra_beds" validate:"min=0"`
}

// Detail is a booking merged with the catalog display fields callers see in
// a confirmation.
type Detail struct {
    model.Booking
    RoomName         string `json:"room_name"`
    PropertyName     string `json:"property_name"`
    PropertyLocation string `json:"property_location"`
}

// Create reserves capacity and persists a booking, per the following order:
// identity and catalog validation, date validation, availability check on
// both ledgers, price snapshot, record persistence, then the capacity
// decrement as a saga.  If the room leg of the decrement loses a race the
// record is removed and a retryable conflict error is returned; if the
// extra-bed leg fails, the room leg is compensated first.  No partial
// reservation ever survives.
func (m *Manager) Create(ctx context.Context, guestID, bearer string, in CreateInput) (*Detail, error) {
    if err := m.validate.Struct(in); err != nil {
        return nil, validationErr("invalid booking request", fieldErrors(err))
    }

    ident, err := m.catalog.ValidateIdentity(ctx, guestID, bearer)
    if err != nil {
        return nil, identityFailure(err)
    }

    room, err := m.catalog.Room(ctx, in.RoomID)
    if err != nil {
        if errors.Is(err, catalog.ErrNotFound) {
            return nil, notFoundErr("room not found")
        }
        return nil, dependencyErr("catalog lookup failed", err)
    }
    if room.PropertyID != in.PropertyID {
        return nil, domainErr("room does not belong to the stated property")
    }
    if !room.Active {
        return nil, domainErr("room is not currently bookable")
    }
    prop, err := m.catalog.Property(ctx, in.PropertyID)
    if err != nil {
        if errors.Is(err, catalog.ErrNotFound) {
            return nil, notFoundErr("property not found")
        }
        return nil, dependencyErr("catalog lookup failed", err)
    }

    stay, err := m.parseStay(in.CheckIn, in.CheckOut)
    if err != nil {
        return nil, err
    }

    ok, err := m.rooms.CheckAvailability(ctx, in.RoomID, stay, in.Rooms)
    if err != nil {
        return nil, dependencyErr("availability check failed", err)
    }
    if !ok {
        return nil, domainErr("room is not available for the requested dates")
    }
    if in.ExtraBeds > 0 {
        ok, err := m.extraBeds.CheckAvailability(ctx, in.PropertyID, stay, in.ExtraBeds)
        if err != nil {
            return nil, dependencyErr("availability check failed", err)
        }
        if !ok {
            return nil, domainErr("not enough extra beds available for the requested dates")
        }
    }

    occupants := in.Adults + in.Children
    rate := room.RateForOccupants(occupants)
    nights := stay.Nights()
    now := m.now().UTC()

    b := &model.Booking{
        ID:                 uuid.NewString(),
        RoomID:             in.RoomID,
        PropertyID:         in.PropertyID,
        GuestID:            ident.GuestID,
        CheckIn:            stay.From,
        CheckOut:           stay.To,
        CheckInTime:        in.CheckInTime,
        CheckOutTime:       in.CheckOutTime,
        Rooms:              in.Rooms,
        Adults:             in.Adults,
        Children:           in.Children,
        ExtraBeds:          in.ExtraBeds,
        PricePerNightCents: rate,
        Nights:             nights,
        TotalCents:         rate * int64(in.Rooms) * int64(nights),
        Status:             model.StatusConfirmed,
        CreatedAt:          now,
        UpdatedAt:          now,
    }
    if err := m.persistWithCode(ctx, b); err != nil {
        return nil, err
    }

    // Capacity saga: rooms first, then extra beds; compensate on failure.
    if err := m.rooms.ReserveRange(ctx, in.RoomID, stay, in.Rooms); err != nil {
        m.compensateRecord(ctx, b.ID)
        if errors.Is(err, ledger.ErrInsufficient) {
            return nil, conflictErr("availability changed, please retry", err)
        }
        return nil, dependencyErr("capacity reservation failed", err)
    }
    if in.ExtraBeds > 0 {
        if err := m.extraBeds.ReserveRange(ctx, in.PropertyID, stay, in.ExtraBeds); err != nil {
            if relErr := m.rooms.ReleaseRange(ctx, in.RoomID, stay, in.Rooms); relErr != nil {
                m.logg.Error(ctx, "failed to compensate room capacity", relErr)
            }
            m.compensateRecord(ctx, b.ID)
            if errors.Is(err, ledger.ErrInsufficient) {
                return nil, conflictErr("availability changed, please retry", err)
            }
            return nil, dependencyErr("capacity reservation failed", err)
        }
    }

    ev := queue.BookingConfirmedEvent{
        BookingID:        b.ID,
        ConfirmationCode: b.ConfirmationCode,
        GuestID:          b.GuestID,
        RoomID:           b.RoomID,
        PropertyID:       b.PropertyID,
        PropertyName:     prop.Name,
        RoomName:         room.Name,
        CheckIn:          b.CheckIn.Format(model.DateLayout),
        CheckOut:         b.CheckOut.Format(model.DateLayout),
        Rooms:            b.Rooms,
        ExtraBeds:        b.ExtraBeds,
        TotalCents:       b.TotalCents,
        ConfirmedAt:      now.Format(time.RFC3339),
    }
    if err := m.events.BookingConfirmed(ctx, ev); err != nil {
        m.logg.Error(ctx, "booking.confirmed publish failed", err)
    }

    return &Detail{
        Booking:          *b,
        RoomName:         room.Name,
        PropertyName:     prop.Name,
        PropertyLocation: prop.Location,
    }, nil
}

// Cancel flips a CONFIRMED booking to CANCELLED and restores its capacity
// when the stay window is still open.  Past stays are not restored: the
// inventory window has already closed.  Re-cancelling or cancelling a
// completed booking is a domain error, never a fatal one.
func (m *Manager) Cancel(ctx context.Context, guestID, bearer, bookingID, reason string) (*model.Booking, error) {
    if _, err := m.catalog.ValidateIdentity(ctx, guestID, bearer); err != nil {
        return nil, identityFailure(err)
    }
    b, err := m.store.GetByID(ctx, bookingID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return nil, notFoundErr("booking not found")
        }
        return nil, dependencyErr("booking lookup failed", err)
    }
    if b.GuestID != guestID {
        return nil, forbiddenErr("booking belongs to a different guest")
    }
    switch b.Status {
    case model.StatusCancelled:
        return nil, stateErr("booking is already cancelled")
    case model.StatusCompleted, model.StatusNoShow:
        return nil, stateErr("booking is already closed")
    }
    if !b.Status.CanTransition(model.StatusCancelled) {
        return nil, stateErr("booking cannot be cancelled in its current state")
    }

    now := m.now().UTC()
    // Win the compare-and-swap before touching the ledgers.  Of two racing
    // cancels only one observes flipped=true, so the span is released
    // exactly once no matter how the loads interleave.
    flipped, err := m.store.MarkCancelled(ctx, bookingID, reason, now)
    if err != nil {
        return nil, dependencyErr("cancellation persist failed", err)
    }
    if !flipped {
        return nil, stateErr("booking is already cancelled")
    }

    // Restore capacity only while the window is still open.  For a stay
    // already in progress, only the remaining nights go back.
    today := model.Date(now)
    if b.CheckOut.After(today) {
        restore := b.Stay()
        if restore.From.Before(today) {
            restore.From = today
        }
        if err := m.rooms.ReleaseRange(ctx, b.RoomID, restore, b.Rooms); err != nil {
            return nil, dependencyErr("capacity restore failed", err)
        }
        if b.ExtraBeds > 0 {
            if err := m.extraBeds.ReleaseRange(ctx, b.PropertyID, restore, b.ExtraBeds); err != nil {
                return nil, dependencyErr("capacity restore failed", err)
            }
        }
    }

    b.Status = model.StatusCancelled
    b.CancelReason = &reason
    b.CancelledAt = &now
    b.UpdatedAt = now

    ev := queue.BookingCancelledEvent{
        BookingID:        b.ID,
        ConfirmationCode: b.ConfirmationCode,
        GuestID:          b.GuestID,
        RoomID:           b.RoomID,
        PropertyID:       b.PropertyID,
        CheckIn:          b.CheckIn.Format(model.DateLayout),
        CheckOut:         b.CheckOut.Format(model.DateLayout),
        Reason:           reason,
        CancelledAt:      now.Format(time.RFC3339),
    }
    if err := m.events.BookingCancelled(ctx, ev); err != nil {
        m.logg.Error(ctx, "booking.cancelled publish failed", err)
    }
    return b, nil
}

// Get returns one booking owned by the guest.
func (m *Manager) Get(ctx context.Context, guestID, bookingID string) (*model.Booking, error) {
    b, err := m.store.GetByID(ctx, bookingID)
    if err != nil {
        if errors.Is(err, repository.ErrBookingNotFound) {
            return nil, notFoundErr("booking not found")
        }
        return nil, dependencyErr("booking lookup failed", err)
    }
    if b.GuestID != guestID {
        return nil, forbiddenErr("booking belongs to a different guest")
    }
    return b, nil
}

// ListForGuest returns all bookings the guest has created, newest first.
func (m *Manager) ListForGuest(ctx context.Context, guestID string) ([]model.Booking, error) {
    bookings, err := m.store.ListByGuest(ctx, guestID)
    if err != nil {
        return nil, dependencyErr("booking lookup failed", err)
    }
    return bookings, nil
}

// PropertyWindow returns the non-cancelled bookings impinging on a
// property's [from, to) window, for audits and capacity cross-checks.
func (m *Manager) PropertyWindow(ctx context.Context, propertyID string, r model.StayRange) ([]model.Booking, error) {
    if r.Nights() <= 0 {
        return nil, validationErr("invalid window", map[string]string{"to": "must be after from"})
    }
    bookings, err := m.store.ListOverlappingByProperty(ctx, propertyID, r.From, r.To)
    if err != nil {
        return nil, dependencyErr("booking lookup failed", err)
    }
    return bookings, nil
}

// parseStay validates the requested dates: well-formed, check-out strictly
// after check-in (a same-day stay has zero nights and is rejected here,
// before any ledger call), and check-in not in the past.
func (m *Manager) parseStay(checkIn, checkOut string) (model.StayRange, error) {
    from, err := model.ParseDate(checkIn)
    if err != nil {
        return model.StayRange{}, validationErr("invalid dates", map[string]string{"check_in": "must be YYYY-MM-DD"})
    }
    to, err := model.ParseDate(checkOut)
    if err != nil {
        return model.StayRange{}, validationErr("invalid dates", map[string]string{"check_out": "must be YYYY-MM-DD"})
    }
    if !to.After(from) {
        return model.StayRange{}, validationErr("invalid dates", map[string]string{"check_out": "must be after check_in"})
    }
    if from.Before(model.Date(m.now())) {
        return model.StayRange{}, validationErr("invalid dates", map[string]string{"check_in": "must not be in the past"})
    }
    return model.StayRange{From: from, To: to}, nil
}

// persistWithCode inserts the booking, regenerating the confirmation code
// on a unique-index collision up to maxCodeAttempts times.
func (m *Manager) persistWithCode(ctx context.Context, b *model.Booking) error {
    for attempt := 0; attempt < maxCodeAttempts; attempt++ {
        code, err := utils.ConfirmationCode(codeLength)
        if err != nil {
            return dependencyErr("confirmation code generation failed", err)
        }
        b.ConfirmationCode = code
        err = m.store.Create(ctx, b)
        if err == nil {
            return nil
        }
        if errors.Is(err, repository.ErrDuplicateCode) {
            continue
        }
        return dependencyErr("booking persist failed", err)
    }
    return dependencyErr("confirmation code space exhausted", repository.ErrDuplicateCode)
}

// compensateRecord removes a booking whose capacity reservation failed.
// Best effort: an orphaned CONFIRMED row without capacity would oversell
// on paper only, and the delete failure is logged for the audit trail.
func (m *Manager) compensateRecord(ctx context.Context, id string) {
    if err := m.store.Delete(ctx, id); err != nil {
        m.logg.Error(ctx, "failed to remove booking after reservation failure", err)
    }
}

// identityFailure classifies an identity validation error: an unknown
// identity is a domain rejection, an unreachable identity service is a
// dependency failure.  Both reject the operation.
func identityFailure(err error) *Error {
    if errors.Is(err, catalog.ErrNotFound) {
        return domainErr("invalid user")
    }
    return dependencyErr("identity validation failed", err)
}

// fieldErrors flattens validator.ValidationErrors into a field->rule map.
func fieldErrors(err error) map[string]string {
    var verrs validator.ValidationErrors
    if !errors.As(err, &verrs) {
        return nil
    }
    out := make(map[string]string, len(verrs))
    for _, fe := range verrs {
        out[fe.Field()] = fe.Tag()
    }
    return out
}
