// Package ports declares the storage and collaborator interfaces the
// booking service depends on.  Implementations live in the repository and
// queue packages; tests use the in-memory store.
package ports

import (
	"context"

	"github.com/1316346949/meeting-room-booking-system/internal/model"
)

// RoomTx is the view of one room's bookings inside BookingStore.InRoom.
// Reads and writes made through it are atomic with respect to every other
// InRoom call on the same room.
type RoomTx interface {
	// BlockingBookings returns the room's PENDING and APPROVED bookings
	// whose interval overlaps window.
	BlockingBookings(ctx context.Context, window model.Interval) ([]model.Booking, error)
	// Insert stores b and sets b.ID.  The row becomes visible to other
	// callers only after the enclosing InRoom returns nil.
	Insert(ctx context.Context, b *model.Booking) error
}

// BookingStore is the durable source of truth for bookings.
type BookingStore interface {
	// InRoom runs fn with exclusive access to roomID's bookings.  Writes
	// made by fn are committed when fn returns nil and discarded otherwise.
	// It returns model.ErrRoomNotFound when the room does not exist.
	InRoom(ctx context.Context, roomID uint64, fn func(tx RoomTx) error) error
	// BlockingBookings is a lock-free snapshot read of the room's blocking
	// bookings overlapping window.
	BlockingBookings(ctx context.Context, roomID uint64, window model.Interval) ([]model.Booking, error)
	// GetBooking returns model.ErrBookingNotFound for an unknown id.
	GetBooking(ctx context.Context, id uint64) (model.Booking, error)
	// SetStatus changes the status from `from` to `to` only if the stored
	// status still equals `from`.  It returns model.ErrBookingNotFound for
	// an unknown id and ErrStatusChanged when the compare fails.
	SetStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error
	// ListBookings returns one page of summaries ordered by id ascending
	// and the total number of matching rows.
	ListBookings(ctx context.Context, q model.BookingQuery) ([]model.BookingSummary, int, error)
}

// RoomDirectory answers existence questions about meeting rooms.
type RoomDirectory interface {
	RoomExists(ctx context.Context, roomID uint64) (bool, error)
}

// UserDirectory answers existence questions about users.
type UserDirectory interface {
	UserExists(ctx context.Context, userID uint64) (bool, error)
}

// EventPublisher receives booking events after the write has committed.
type EventPublisher interface {
	Publish(ctx context.Context, ev model.BookingEvent) error
}
