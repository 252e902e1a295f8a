package catalog

import (
    "context"
    "net/http"
    "net/http/httptest"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestClientRoomSuccess(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "/internal/rooms/room-1", r.URL.Path)
        w.Header().Set("Content-Type", "application/json")
        _, _ = w.Write([]byte(`{"id":"room-1","property_id":"prop-1","name":"Standard Twin","active":true,"total_rooms":7,"single_rate_cents":8000,"double_rate_cents":9500,"base_rate_cents":11000}`))
    }))
    defer srv.Close()

    c := NewClient(srv.URL, srv.URL, time.Second, 0)
    room, err := c.Room(context.Background(), "room-1")
    require.NoError(t, err)
    assert.Equal(t, 7, room.TotalRooms)
    assert.Equal(t, "Standard Twin", room.Name)
    assert.True(t, room.Active)
}

func TestClientRoomNotFoundIsTerminal(t *testing.T) {
    var calls int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        atomic.AddInt32(&calls, 1)
        w.WriteHeader(http.StatusNotFound)
    }))
    defer srv.Close()

    c := NewClient(srv.URL, srv.URL, time.Second, 3)
    _, err := c.Room(context.Background(), "missing")
    require.ErrorIs(t, err, ErrNotFound)
    assert.EqualValues(t, 1, atomic.LoadInt32(&calls), "404 must not be retried")
}

func TestClientRetriesServerErrors(t *testing.T) {
    var calls int32
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if atomic.AddInt32(&calls, 1) < 3 {
            w.WriteHeader(http.StatusBadGateway)
            return
        }
        _, _ = w.Write([]byte(`{"id":"prop-1","name":"Harbor Hotel","location":"Oslo","extra_bed_total":4}`))
    }))
    defer srv.Close()

    c := NewClient(srv.URL, srv.URL, time.Second, 5)
    prop, err := c.Property(context.Background(), "prop-1")
    require.NoError(t, err)
    assert.Equal(t, 4, prop.ExtraBedTotal)
    assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestClientExhaustedRetriesReportUnavailable(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusInternalServerError)
    }))
    defer srv.Close()

    c := NewClient(srv.URL, srv.URL, time.Second, 1)
    _, err := c.Room(context.Background(), "room-1")
    require.ErrorIs(t, err, ErrUnavailable)
}

func TestClientValidateIdentityForwardsBearer(t *testing.T) {
    srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
        _, _ = w.Write([]byte(`{"guest_id":"guest-1","email":"g@example.com","full_name":"Guest One"}`))
    }))
    defer srv.Close()

    c := NewClient(srv.URL, srv.URL, time.Second, 0)
    ident, err := c.ValidateIdentity(context.Background(), "guest-1", "tok-123")
    require.NoError(t, err)
    assert.Equal(t, "guest-1", ident.GuestID)
}

func TestRateForOccupants(t *testing.T) {
    room := Room{SingleRateCents: 8000, DoubleRateCents: 9500, BaseRateCents: 11000}
    assert.EqualValues(t, 8000, room.RateForOccupants(1))
    assert.EqualValues(t, 9500, room.RateForOccupants(2))
    assert.EqualValues(t, 11000, room.RateForOccupants(3))
    assert.EqualValues(t, 11000, room.RateForOccupants(5))
}
