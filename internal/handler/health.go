package handler // declare the package name; contains HTTP handlers

import (
    "context"  // bound the readiness probe
    "net/http" // net/http provides status codes and response helpers
    "time"

    "github.com/labstack/echo/v4" // echo is the web framework used for this project
)

// Health is a liveness endpoint used by load balancers.  It returns a plain
// text "ok" with 200.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
    PingContext(ctx context.Context) error
}

// Ready returns a readiness endpoint that pings the backing store.  A nil
// pinger (in-memory store) is always ready.
func Ready(db Pinger) echo.HandlerFunc {
    return func(c echo.Context) error {
        if db == nil {
            return c.String(http.StatusOK, "ok")
        }
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        if err := db.PingContext(ctx); err != nil {
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "store unavailable"})
        }
        return c.String(http.StatusOK, "ok")
    }
}
