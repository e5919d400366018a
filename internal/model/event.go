package model

import "time"

// EventKind names a booking lifecycle event.  The value doubles as the
// routing key on the message broker.
type EventKind string

const (
    EventCreated  EventKind = "booking.created"
    EventApproved EventKind = "booking.approved"
    EventRejected EventKind = "booking.rejected"
    EventUnbound  EventKind = "booking.unbound"
)

// BookingEvent is emitted after a booking write commits.  It carries enough
// of the booking for consumers to keep an audit trail without reading the
// primary database.
type BookingEvent struct {
    Kind       EventKind     `json:"kind"`
    BookingID  uint64        `json:"booking_id"`
    RoomID     uint64        `json:"room_id"`
    UserID     uint64        `json:"user_id"`
    StartTime  time.Time     `json:"start_time"`
    EndTime    time.Time     `json:"end_time"`
    Status     BookingStatus `json:"status"`
    PrevStatus BookingStatus `json:"prev_status,omitempty"`
    OccurredAt time.Time     `json:"occurred_at"`
}

// EventFor builds the event describing b after a write.
func EventFor(kind EventKind, b Booking, prev BookingStatus, at time.Time) BookingEvent {
    return BookingEvent{
        Kind:       kind,
        BookingID:  b.ID,
        RoomID:     b.RoomID,
        UserID:     b.UserID,
        StartTime:  b.Interval.Start,
        EndTime:    b.Interval.End,
        Status:     b.Status,
        PrevStatus: prev,
        OccurredAt: at.UTC(),
    }
}
