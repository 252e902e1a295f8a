// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is successfully created.
// It carries enough information for downstream consumers to notify guests or
// feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID        string `json:"booking_id"`
    ConfirmationCode string `json:"confirmation_code"`
    GuestID          string `json:"guest_id"`
    RoomID           string `json:"room_id"`
    PropertyID       string `json:"property_id"`
    PropertyName     string `json:"property_name"`
    RoomName         string `json:"room_name"`
    CheckIn          string `json:"check_in"`
    CheckOut         string `json:"check_out"`
    Rooms            int    `json:"rooms"`
    ExtraBeds        int    `json:"extra_beds"`
    TotalCents       int64  `json:"total_cents"`
    ConfirmedAt      string `json:"confirmed_at"`
}

// BookingCancelledEvent is published when a booking is cancelled and its
// capacity, where the stay window was still open, has been restored.
type BookingCancelledEvent struct {
    BookingID        string `json:"booking_id"`
    ConfirmationCode string `json:"confirmation_code"`
    GuestID          string `json:"guest_id"`
    RoomID           string `json:"room_id"`
    PropertyID       string `json:"property_id"`
    CheckIn          string `json:"check_in"`
    CheckOut         string `json:"check_out"`
    Reason           string `json:"reason"`
    CancelledAt      string `json:"cancelled_at"`
}
