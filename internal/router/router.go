package router // package router defines how HTTP routes are registered for the API

import (
    "database/sql"

    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/hotel-room-reservation/internal/handler"    // import the handlers that implement business logic
    "github.com/iliyamo/hotel-room-reservation/internal/middleware" // import middleware for JWT authentication
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the health check and the public
// availability read side.  The rate limiter runs on the public reads
// because they are unauthenticated and cheap to hammer; the health check
// stays unthrottled for probes.
func RegisterRoutes(e *echo.Echo, db *sql.DB, avail *handler.AvailabilityHandler, limit echo.MiddlewareFunc) {
    // The health endpoint pings the database so orchestrators only route
    // traffic to instances that can actually serve bookings.
    e.GET("/healthz", handler.Health(db))

    // Public availability reads.  Guests browse these before they have an
    // account, so no JWT is applied.
    public := e.Group("/v1/rooms")
    public.Use(limit)
    public.GET("/:id/availability", avail.Check)
    public.GET("/:id/calendar", avail.Calendar)
    public.GET("/:id/stats", avail.Stats)
}

// RegisterBookings registers the authenticated booking lifecycle under
// /v1.  Every route in the group runs the JWTAuth middleware first; the
// handlers read the guest identity out of the request context.  The rate
// limiter runs after authentication so its buckets key on the guest id.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, jwtSecret string, limit echo.MiddlewareFunc) {
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(limit)

    // Create a booking: validates, checks both ledgers and reserves the
    // full stay or nothing.
    auth.POST("/bookings", b.Create)
    // Fetch a single booking owned by the caller.
    auth.GET("/bookings/:id", b.Get)
    // Cancel a confirmed booking; unused nights return to availability.
    auth.DELETE("/bookings/:id", b.Cancel)
    // List the caller's own bookings, newest first.
    auth.GET("/bookings", b.ListMine)
    // Property staff audit: bookings overlapping a date window.
    auth.GET("/properties/:id/bookings", b.PropertyWindow)
}
