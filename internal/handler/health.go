package handler // declare the package name; contains HTTP handlers

import (
    "context"      // context bounds the dependency probe
    "database/sql" // sql.DB ping verifies the ledger store is reachable
    "net/http"     // net/http provides status codes and response helpers
    "time"         // time limits how long the probe may take

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health returns a health-check endpoint used by load balancers and
// monitoring systems.  It pings the database with a short deadline: the
// service is only "up" when the ledger store answers, since every booking
// operation depends on it.
func Health(db *sql.DB) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if err := db.PingContext(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded", "db": err.Error()})
        }
        return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
    }
}
