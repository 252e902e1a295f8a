package handler

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-room-reservation/internal/catalog"
    "github.com/iliyamo/hotel-room-reservation/internal/ledger"
    "github.com/iliyamo/hotel-room-reservation/internal/logger"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// AvailabilityHandler serves the unauthenticated read side: availability
// checks, per-day calendars and occupancy statistics.  Responses are
// derived purely from the ledgers, so calendar and stats reads are cached
// in Redis for a short TTL.  A nil cache client disables caching without
// changing behaviour.
type AvailabilityHandler struct {
    Rooms     *ledger.Ledger // per-date room counters
    ExtraBeds *ledger.Ledger // per-date extra-bed counters, keyed by property
    Cache     *redis.Client  // optional read cache; nil means every read hits the DB
    CacheTTL  time.Duration  // lifetime of cached calendar/stats payloads
    Logg      *logger.Logger
}

// NewAvailabilityHandler constructs an AvailabilityHandler.  The cache
// client may be nil.
func NewAvailabilityHandler(rooms, extraBeds *ledger.Ledger, cache *redis.Client, ttl time.Duration, logg *logger.Logger) *AvailabilityHandler {
    if rooms == nil || extraBeds == nil || logg == nil {
        panic("nil dependency passed to NewAvailabilityHandler")
    }
    return &AvailabilityHandler{Rooms: rooms, ExtraBeds: extraBeds, Cache: cache, CacheTTL: ttl, Logg: logg}
}

// Check handles GET /v1/rooms/:id/availability.  Query parameters:
// check_in and check_out (YYYY-MM-DD, end exclusive), rooms (default 1)
// and extra_beds (default 0, requires property_id).  It reports whether
// the requested units fit on every night of the stay.  The answer is
// advisory; the authoritative check happens again inside the booking
// transaction.
func (h *AvailabilityHandler) Check(c echo.Context) error {
    roomID := c.Param("id")
    if roomID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    stay, err := parseWindow(c.QueryParam("check_in"), c.QueryParam("check_out"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    rooms, err := positiveParam(c.QueryParam("rooms"), 1, 1)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rooms must be a positive integer"})
    }
    beds, err := positiveParam(c.QueryParam("extra_beds"), 0, 0)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "extra_beds must be a non-negative integer"})
    }

    ctx := c.Request().Context()
    ok, err := h.Rooms.CheckAvailability(ctx, roomID, stay, rooms)
    if err != nil {
        return h.availabilityErr(c, err)
    }
    if ok && beds > 0 {
        propertyID := c.QueryParam("property_id")
        if propertyID == "" {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "property_id is required when requesting extra beds"})
        }
        ok, err = h.ExtraBeds.CheckAvailability(ctx, propertyID, stay, beds)
        if err != nil {
            return h.availabilityErr(c, err)
        }
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_id":   roomID,
        "check_in":  stay.From.Format(model.DateLayout),
        "check_out": stay.To.Format(model.DateLayout),
        "available": ok,
    })
}

// Calendar handles GET /v1/rooms/:id/calendar.  It returns the free unit
// count for every date in [from, to), serving repeated reads from Redis
// for CacheTTL.
func (h *AvailabilityHandler) Calendar(c echo.Context) error {
    roomID := c.Param("id")
    if roomID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    window, err := parseWindow(c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    key := h.cacheKey("calendar", roomID, window)
    if payload, ok := h.cacheGet(c, key); ok {
        return c.JSONBlob(http.StatusOK, payload)
    }
    days, err := h.Rooms.Calendar(c.Request().Context(), roomID, window)
    if err != nil {
        return h.availabilityErr(c, err)
    }
    resp := echo.Map{"room_id": roomID, "days": days}
    h.cacheSet(c, key, resp)
    return c.JSON(http.StatusOK, resp)
}

// Stats handles GET /v1/rooms/:id/stats.  It aggregates occupancy over
// [from, to): average occupancy percentage plus booked/available totals.
// Like Calendar, responses are cached briefly.
func (h *AvailabilityHandler) Stats(c echo.Context) error {
    roomID := c.Param("id")
    if roomID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    window, err := parseWindow(c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    key := h.cacheKey("stats", roomID, window)
    if payload, ok := h.cacheGet(c, key); ok {
        return c.JSONBlob(http.StatusOK, payload)
    }
    stats, err := h.Rooms.Stats(c.Request().Context(), roomID, window)
    if err != nil {
        return h.availabilityErr(c, err)
    }
    resp := echo.Map{"room_id": roomID, "stats": stats}
    h.cacheSet(c, key, resp)
    return c.JSON(http.StatusOK, resp)
}

// availabilityErr maps ledger read failures.  The capacity resolver
// surfaces catalog not-found for unknown resources; everything else is a
// 500.
func (h *AvailabilityHandler) availabilityErr(c echo.Context, err error) error {
    if errors.Is(err, catalog.ErrNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
    }
    if errors.Is(err, catalog.ErrUnavailable) {
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "catalog unavailable"})
    }
    h.Logg.Error(c.Request().Context(), "availability read failed", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func (h *AvailabilityHandler) cacheKey(view, resourceID string, r model.StayRange) string {
    return fmt.Sprintf("avail:%s:%s:%s:%s", view, resourceID,
        r.From.Format(model.DateLayout), r.To.Format(model.DateLayout))
}

// cacheGet returns the cached JSON payload for key, when caching is
// enabled and the key is present.  Cache errors are logged and treated as
// misses.
func (h *AvailabilityHandler) cacheGet(c echo.Context, key string) ([]byte, bool) {
    if h.Cache == nil || h.CacheTTL <= 0 {
        return nil, false
    }
    payload, err := h.Cache.Get(c.Request().Context(), key).Bytes()
    if err != nil {
        if !errors.Is(err, redis.Nil) {
            h.Logg.Warn(c.Request().Context(), "availability cache read failed: "+err.Error())
        }
        return nil, false
    }
    c.Response().Header().Set("X-Cache", "HIT")
    return payload, true
}

// cacheSet stores the response payload best-effort.  A background context
// is used so a cancelled request does not abort the write.
func (h *AvailabilityHandler) cacheSet(c echo.Context, key string, resp echo.Map) {
    if h.Cache == nil || h.CacheTTL <= 0 {
        return
    }
    payload, err := json.Marshal(resp)
    if err != nil {
        return
    }
    if err := h.Cache.SetEx(context.Background(), key, payload, h.CacheTTL).Err(); err != nil {
        h.Logg.Warn(c.Request().Context(), "availability cache write failed: "+err.Error())
    }
}

// positiveParam parses an optional integer query parameter with a default.
// Values below min are rejected, so a caller asking for zero rooms fails
// fast instead of reaching the ledger.
func positiveParam(raw string, def, min int) (int, error) {
    if raw == "" {
        return def, nil
    }
    n, err := strconv.Atoi(raw)
    if err != nil || n < min {
        return 0, errors.New("invalid integer")
    }
    return n, nil
}
