package service

import (
	"context"
	"fmt"

	"github.com/1316346949/meeting-room-booking-system/internal/model"
)

// DetectConflict reports whether candidate overlaps any blocking booking of
// roomID in existing.  Rows of other rooms, non-blocking rows and the row
// whose id equals exclude are skipped; exclude == 0 skips nothing.  Every
// row is examined, so the caller may pass an unfiltered list.
func DetectConflict(existing []model.Booking, roomID uint64, candidate model.Interval, exclude uint64) bool {
	for _, b := range existing {
		if b.RoomID != roomID || !b.Status.Blocking() {
			continue
		}
		if exclude != 0 && b.ID == exclude {
			continue
		}
		if b.Interval.Overlaps(candidate) {
			return true
		}
	}
	return false
}

// HasConflict evaluates DetectConflict against the current contents of the
// store without taking the room lock.  The answer is advisory: only the
// check made inside CreateBooking is authoritative.
func (s *BookingService) HasConflict(ctx context.Context, roomID uint64, candidate model.Interval, exclude uint64) (bool, error) {
	if !candidate.Valid() {
		return false, model.ErrInvalidInterval
	}
	blocking, err := s.store.BlockingBookings(ctx, roomID, candidate)
	if err != nil {
		return false, fmt.Errorf("load blocking bookings: %w", err)
	}
	return DetectConflict(blocking, roomID, candidate, exclude), nil
}
