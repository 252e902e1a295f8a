package handler

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/booking"
    "github.com/iliyamo/hotel-room-reservation/internal/logger"
    "github.com/iliyamo/hotel-room-reservation/internal/middleware"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// BookingHandler exposes the booking lifecycle over HTTP.  All methods
// assume JWT authentication has already run; they read the guest id and
// the raw bearer token out of the echo context.  Business rules live in
// the booking manager, so handlers only bind, delegate and translate
// errors to HTTP statuses.
type BookingHandler struct {
    Bookings *booking.Manager // lifecycle manager; owns validation and the reservation saga
    Logg     *logger.Logger   // request-scoped structured logging
}

// NewBookingHandler constructs a BookingHandler.  Both dependencies must
// be non-nil.
func NewBookingHandler(m *booking.Manager, logg *logger.Logger) *BookingHandler {
    if m == nil || logg == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Bookings: m, Logg: logg}
}

// getGuestID extracts the authenticated guest id placed in the context by
// the JWT middleware.
func getGuestID(c echo.Context) (string, error) {
    id, _ := c.Get(middleware.ContextGuestID).(string)
    if id == "" {
        return "", errors.New("missing guest id in context")
    }
    return id, nil
}

// getBearer extracts the raw access token stashed by the JWT middleware.
func getBearer(c echo.Context) string {
    raw, _ := c.Get(middleware.ContextBearer).(string)
    return raw
}

// writeBookingErr translates manager failures into JSON responses.  The
// structured error carries its own category and status; anything else is
// an unexpected internal failure.
func (h *BookingHandler) writeBookingErr(c echo.Context, err error) error {
    var be *booking.Error
    if errors.As(err, &be) {
        resp := echo.Map{
            "error":    be.Message,
            "category": string(be.Category),
        }
        if len(be.Fields) > 0 {
            resp["fields"] = be.Fields
        }
        return c.JSON(be.HTTPStatus(), resp)
    }
    h.Logg.Error(c.Request().Context(), "unexpected booking failure", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// Create handles POST /v1/bookings.  It binds the request body, runs the
// full reservation flow through the manager and returns 201 Created with
// the persisted booking plus room/property names on success.
func (h *BookingHandler) Create(c echo.Context) error {
    guestID, err := getGuestID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var in booking.CreateInput
    if err := c.Bind(&in); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    detail, err := h.Bookings.Create(c.Request().Context(), guestID, getBearer(c), in)
    if err != nil {
        return h.writeBookingErr(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"booking": detail})
}

// Cancel handles DELETE /v1/bookings/:id.  An optional JSON body may carry
// a free-text reason.  Cancellation restores availability for the unused
// nights and returns the updated booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
    guestID, err := getGuestID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID := c.Param("id")
    if bookingID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    var body struct {
        Reason string `json:"reason"`
    }
    // The body is optional; binding failures on an empty body are ignored.
    _ = c.Bind(&body)
    b, err := h.Bookings.Cancel(c.Request().Context(), guestID, getBearer(c), bookingID, body.Reason)
    if err != nil {
        return h.writeBookingErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// Get handles GET /v1/bookings/:id and returns a single booking owned by
// the requesting guest.
func (h *BookingHandler) Get(c echo.Context) error {
    guestID, err := getGuestID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    bookingID := c.Param("id")
    if bookingID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    b, err := h.Bookings.Get(c.Request().Context(), guestID, bookingID)
    if err != nil {
        return h.writeBookingErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": b})
}

// ListMine handles GET /v1/bookings and returns every booking created
// by the authenticated guest, newest first.  An empty list is a valid
// response.
func (h *BookingHandler) ListMine(c echo.Context) error {
    guestID, err := getGuestID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.Bookings.ListForGuest(c.Request().Context(), guestID)
    if err != nil {
        return h.writeBookingErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// PropertyWindow handles GET /v1/properties/:id/bookings.  It lists every
// non-cancelled booking overlapping the [from, to) window, for property
// staff auditing occupancy.  Both query parameters are required.
func (h *BookingHandler) PropertyWindow(c echo.Context) error {
    if _, err := getGuestID(c); err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    propertyID := c.Param("id")
    if propertyID == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
    }
    window, err := parseWindow(c.QueryParam("from"), c.QueryParam("to"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    items, err := h.Bookings.PropertyWindow(c.Request().Context(), propertyID, window)
    if err != nil {
        return h.writeBookingErr(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// parseWindow parses a [from, to) date window from query parameters and
// enforces ordering.
func parseWindow(from, to string) (model.StayRange, error) {
    if from == "" || to == "" {
        return model.StayRange{}, errors.New("from and to are required")
    }
    f, err := model.ParseDate(from)
    if err != nil {
        return model.StayRange{}, errors.New("from must be YYYY-MM-DD")
    }
    t, err := model.ParseDate(to)
    if err != nil {
        return model.StayRange{}, errors.New("to must be YYYY-MM-DD")
    }
    if !t.After(f) {
        return model.StayRange{}, errors.New("to must be after from")
    }
    return model.StayRange{From: f, To: t}, nil
}
