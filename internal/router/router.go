package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/1316346949/meeting-room-booking-system/internal/handler"    // booking and health handlers
	"github.com/1316346949/meeting-room-booking-system/internal/middleware" // JWT authentication, roles, cache and rate limiting
)

// RegisterRoutes registers routes that do not require authentication:
// liveness at /healthz and readiness at /readyz.
func RegisterRoutes(e *echo.Echo, ready handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(ready))
}

// BookingMiddleware groups the optional middlewares wrapped around booking
// routes.  Nil entries are skipped.
type BookingMiddleware struct {
	ListCache  echo.MiddlewareFunc // applied to GET /v1/bookings
	CreateRate echo.MiddlewareFunc // applied to POST /v1/bookings
}

// RegisterBookings registers the booking API under /v1/bookings.  Every
// route requires a valid access token.  Users and admins may create, list
// and read bookings; only admins move bookings through the approval
// workflow.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, mw BookingMiddleware) {
	g := e.Group("/v1/bookings", middleware.JWTAuth(jwtSecret))

	member := middleware.RequireRole(middleware.RoleUser, middleware.RoleAdmin)
	admin := middleware.RequireRole(middleware.RoleAdmin)

	g.POST("", h.Create, withOptional(member, mw.CreateRate)...)
	g.GET("", h.List, withOptional(member, mw.ListCache)...)
	g.GET("/:id", h.Get, member)

	g.POST("/:id/approve", h.Approve, admin)
	g.POST("/:id/reject", h.Reject, admin)
	g.POST("/:id/unbind", h.Unbind, admin)
}

// withOptional keeps the role check first so rejected callers never touch
// Redis.
func withOptional(role echo.MiddlewareFunc, extra ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := []echo.MiddlewareFunc{role}
	for _, m := range extra {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
