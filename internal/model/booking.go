package model

import (
    "fmt"
    "strings"
    "time"
)

// BookingStatus is the approval state of a booking.  The set of values is
// closed; anything else read from storage or the wire is rejected by
// ParseBookingStatus.
type BookingStatus string

const (
    StatusPending  BookingStatus = "PENDING"
    StatusApproved BookingStatus = "APPROVED"
    StatusRejected BookingStatus = "REJECTED"
    StatusUnbound  BookingStatus = "UNBOUND"
)

// BlockingStatuses lists the statuses that occupy a room's interval.
var BlockingStatuses = []BookingStatus{StatusPending, StatusApproved}

// Blocking reports whether a booking in this status prevents new
// overlapping reservations on the same room.
func (s BookingStatus) Blocking() bool {
    return s == StatusPending || s == StatusApproved
}

// Terminal reports whether no further transition is possible.
func (s BookingStatus) Terminal() bool {
    return s == StatusRejected || s == StatusUnbound
}

func (s BookingStatus) String() string { return string(s) }

// ParseBookingStatus converts a stored label into a BookingStatus.  The
// comparison is case-insensitive so rows written by older tooling in lower
// case still load.
func ParseBookingStatus(raw string) (BookingStatus, error) {
    switch s := BookingStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
    case StatusPending, StatusApproved, StatusRejected, StatusUnbound:
        return s, nil
    }
    return "", fmt.Errorf("unknown booking status %q", raw)
}

// Interval is a half-open time range [Start, End).  Both instants are
// absolute; callers should normalise to UTC before persisting.
type Interval struct {
    Start time.Time
    End   time.Time
}

// Precision is the resolution at which instants are compared and stored.
// It matches the DATETIME(3) columns of the bookings table.
const Precision = time.Millisecond

// NewInterval builds an interval normalised to UTC and truncated to
// Precision.
func NewInterval(start, end time.Time) Interval {
    return Interval{Start: start.UTC().Truncate(Precision), End: end.UTC().Truncate(Precision)}
}

// Valid reports whether Start is strictly before End.
func (iv Interval) Valid() bool { return iv.Start.Before(iv.End) }

// Overlaps reports whether two half-open intervals share at least one
// instant.  Intervals that only touch (one ends where the other starts) do
// not overlap.
func (iv Interval) Overlaps(o Interval) bool {
    return iv.Start.Before(o.End) && o.Start.Before(iv.End)
}

// Duration returns End - Start.
func (iv Interval) Duration() time.Duration { return iv.End.Sub(iv.Start) }

// Booking is a reservation of one room for one interval.  It corresponds to
// a row in the `bookings` table.
//
// Fields:
//  ID        – primary key identifier, assigned by the store.
//  RoomID    – meeting room being reserved (meeting_rooms.id).
//  UserID    – user who requested the booking (users.id).
//  Interval  – reserved time range, half-open.
//  Note      – optional free text supplied by the requester.
//  Status    – approval state, changed only by the lifecycle manager.
//  CreatedAt – creation timestamp, never updated.
type Booking struct {
    ID        uint64        // bookings.id
    RoomID    uint64        // bookings.room_id
    UserID    uint64        // bookings.user_id
    Interval  Interval      // bookings.start_time, bookings.end_time
    Note      string        // bookings.note
    Status    BookingStatus // bookings.status
    CreatedAt time.Time     // bookings.created_at
}
