package handler

import (
    "context"  // per-request deadlines
    "errors"   // errors.Is comparisons against domain sentinels
    "net/http" // HTTP status codes
    "strconv"  // parsing path and query parameters
    "strings"  // trimming query values
    "time"     // RFC 3339 timestamps

    "github.com/labstack/echo/v4" // Echo web framework

    "github.com/1316346949/meeting-room-booking-system/internal/model"   // domain types and errors
    "github.com/1316346949/meeting-room-booking-system/internal/service" // booking engine
)

// requestTimeout bounds the service call of each booking request.
const requestTimeout = 5 * time.Second

// BookingHandler exposes the booking engine over HTTP.  All methods assume
// JWTAuth and RequireRole already ran; the caller id comes from the token.
type BookingHandler struct {
    Svc *service.BookingService
}

// NewBookingHandler panics if svc is nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
    if svc == nil {
        panic("nil service passed to NewBookingHandler")
    }
    return &BookingHandler{Svc: svc}
}

type createBookingRequest struct {
    RoomID    uint64 `json:"room_id"`
    StartTime string `json:"start_time"`
    EndTime   string `json:"end_time"`
    Note      string `json:"note"`
}

// bookingResponse is the wire form of a single booking.
type bookingResponse struct {
    ID        uint64              `json:"id"`
    RoomID    uint64              `json:"room_id"`
    UserID    uint64              `json:"user_id"`
    StartTime time.Time           `json:"start_time"`
    EndTime   time.Time           `json:"end_time"`
    Note      string              `json:"note"`
    Status    model.BookingStatus `json:"status"`
    CreatedAt time.Time           `json:"created_at"`
}

func toBookingResponse(b model.Booking) bookingResponse {
    return bookingResponse{
        ID:        b.ID,
        RoomID:    b.RoomID,
        UserID:    b.UserID,
        StartTime: b.Interval.Start,
        EndTime:   b.Interval.End,
        Note:      b.Note,
        Status:    b.Status,
        CreatedAt: b.CreatedAt,
    }
}

// Create handles POST /v1/bookings.  The body carries room_id, start_time
// and end_time (RFC 3339) and an optional note.  Returns 201 with the new
// booking id.
func (h *BookingHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body createBookingRequest
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.RoomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
    }
    start, err := time.Parse(time.RFC3339, strings.TrimSpace(body.StartTime))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be RFC 3339"})
    }
    end, err := time.Parse(time.RFC3339, strings.TrimSpace(body.EndTime))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "end_time must be RFC 3339"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    id, err := h.Svc.CreateBooking(ctx, service.CreateBookingInput{
        RoomID: body.RoomID,
        UserID: userID,
        Start:  start,
        End:    end,
        Note:   strings.TrimSpace(body.Note),
    })
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List handles GET /v1/bookings.  Query parameters: page_no, page_size
// (both default to 1), username, room_name, room_location (substring
// match) and range_start, range_end (RFC 3339 overlap window).
func (h *BookingHandler) List(c echo.Context) error {
    pageNo, err := intParamOr(c.QueryParam("page_no"), 1)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "page_no must be an integer"})
    }
    pageSize, err := intParamOr(c.QueryParam("page_size"), 1)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "page_size must be an integer"})
    }
    filter := model.BookingFilter{
        Username:     c.QueryParam("username"),
        RoomName:     c.QueryParam("room_name"),
        RoomLocation: c.QueryParam("room_location"),
    }
    if filter.RangeStart, err = parseOptionalTime(c.QueryParam("range_start")); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "range_start must be RFC 3339"})
    }
    if filter.RangeEnd, err = parseOptionalTime(c.QueryParam("range_end")); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "range_end must be RFC 3339"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    page, err := h.Svc.ListBookings(ctx, service.ListBookingsInput{Filter: filter, PageNo: pageNo, PageSize: pageSize})
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, page)
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
    id, err := bookingIDParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    b, err := h.Svc.GetBooking(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toBookingResponse(b)})
}

// Approve handles POST /v1/bookings/:id/approve.
func (h *BookingHandler) Approve(c echo.Context) error { return h.transition(c, h.Svc.Approve) }

// Reject handles POST /v1/bookings/:id/reject.
func (h *BookingHandler) Reject(c echo.Context) error { return h.transition(c, h.Svc.Reject) }

// Unbind handles POST /v1/bookings/:id/unbind.
func (h *BookingHandler) Unbind(c echo.Context) error { return h.transition(c, h.Svc.Unbind) }

func (h *BookingHandler) transition(c echo.Context, apply func(context.Context, uint64) (model.BookingStatus, error)) error {
    id, err := bookingIDParam(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
    defer cancel()
    status, err := apply(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"id": id, "status": status})
}

func bookingIDParam(c echo.Context) (uint64, error) {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid id")
    }
    return id, nil
}

// intParamOr parses an integer query value; an absent value yields def.
func intParamOr(raw string, def int) (int, error) {
    raw = strings.TrimSpace(raw)
    if raw == "" {
        return def, nil
    }
    return strconv.Atoi(raw)
}

func parseOptionalTime(raw string) (*time.Time, error) {
    raw = strings.TrimSpace(raw)
    if raw == "" {
        return nil, nil
    }
    t, err := time.Parse(time.RFC3339, raw)
    if err != nil {
        return nil, err
    }
    return &t, nil
}

// writeError maps domain errors onto HTTP responses.  Storage and unknown
// errors are reported as 500 without leaking details.
func writeError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, model.ErrInvalidInterval):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start_time must be before end_time"})
    case errors.Is(err, model.ErrValidation):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, model.ErrRoomNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
    case errors.Is(err, model.ErrUserNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    case errors.Is(err, model.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, model.ErrSlotConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for that time"})
    case errors.Is(err, model.ErrInvalidTransition):
        return c.JSON(http.StatusConflict, echo.Map{"error": "booking status does not allow this action"})
    default:
        c.Logger().Errorf("booking request failed: %v", err)
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
    }
}
