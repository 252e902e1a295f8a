package model

import "testing"

func TestBookingStatusValid(t *testing.T) {
    for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow} {
        if !s.Valid() {
            t.Fatalf("expected %s to be valid", s)
        }
    }
    if BookingStatus("SOMETHING").Valid() {
        t.Fatal("expected unknown status to be invalid")
    }
}

func TestBookingStatusTransitions(t *testing.T) {
    cases := []struct {
        from, to BookingStatus
        want     bool
    }{
        {StatusPending, StatusConfirmed, true},
        {StatusPending, StatusCancelled, true},
        {StatusPending, StatusCompleted, false},
        {StatusConfirmed, StatusCancelled, true},
        {StatusConfirmed, StatusCompleted, true},
        {StatusConfirmed, StatusNoShow, true},
        {StatusConfirmed, StatusPending, false},
        {StatusCancelled, StatusConfirmed, false},
        {StatusCancelled, StatusCancelled, false},
        {StatusCompleted, StatusCancelled, false},
        {StatusNoShow, StatusConfirmed, false},
    }
    for _, tc := range cases {
        if got := tc.from.CanTransition(tc.to); got != tc.want {
            t.Errorf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
        }
    }
}

func TestBookingStatusTerminal(t *testing.T) {
    terminal := map[BookingStatus]bool{
        StatusPending:   false,
        StatusConfirmed: false,
        StatusCancelled: true,
        StatusCompleted: true,
        StatusNoShow:    true,
    }
    for s, want := range terminal {
        if got := s.Terminal(); got != want {
            t.Errorf("%s terminal: got %v want %v", s, got, want)
        }
    }
}

func TestBookingStay(t *testing.T) {
    from := mustDate(t, "2026-09-10")
    to := mustDate(t, "2026-09-13")
    b := Booking{CheckIn: from, CheckOut: to}
    stay := b.Stay()
    if !stay.From.Equal(from) || !stay.To.Equal(to) {
        t.Fatalf("unexpected stay range: %v", stay)
    }
    if stay.Nights() != 3 {
        t.Fatalf("expected 3 nights, got %d", stay.Nights())
    }
}
