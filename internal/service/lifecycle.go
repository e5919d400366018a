package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/labstack/gommon/log"

	"github.com/1316346949/meeting-room-booking-system/internal/model"
	"github.com/1316346949/meeting-room-booking-system/internal/service/ports"
)

// Action is an approver's decision on a booking.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionUnbind  Action = "unbind"
)

type transition struct {
	from  model.BookingStatus
	to    model.BookingStatus
	event model.EventKind
}

// transitions is the complete state machine.  A status that is not the
// `from` of some action accepts no action at all.
var transitions = map[Action]transition{
	ActionApprove: {from: model.StatusPending, to: model.StatusApproved, event: model.EventApproved},
	ActionReject:  {from: model.StatusPending, to: model.StatusRejected, event: model.EventRejected},
	ActionUnbind:  {from: model.StatusApproved, to: model.StatusUnbound, event: model.EventUnbound},
}

// NextStatus returns the status reached by applying a to a booking in
// current, or ErrInvalidTransition.
func NextStatus(current model.BookingStatus, a Action) (model.BookingStatus, error) {
	t, ok := transitions[a]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", model.ErrInvalidTransition, a)
	}
	if current != t.from {
		return "", fmt.Errorf("%w: cannot %s a %s booking", model.ErrInvalidTransition, a, current)
	}
	return t.to, nil
}

// Approve moves a PENDING booking to APPROVED.
func (s *BookingService) Approve(ctx context.Context, id uint64) (model.BookingStatus, error) {
	return s.apply(ctx, id, ActionApprove)
}

// Reject moves a PENDING booking to REJECTED, freeing its slot.
func (s *BookingService) Reject(ctx context.Context, id uint64) (model.BookingStatus, error) {
	return s.apply(ctx, id, ActionReject)
}

// Unbind releases an APPROVED booking, moving it to UNBOUND.
func (s *BookingService) Unbind(ctx context.Context, id uint64) (model.BookingStatus, error) {
	return s.apply(ctx, id, ActionUnbind)
}

// apply reads the booking, checks the transition table and writes the new
// status with a compare-and-swap.  When two callers race on the same
// booking the loser sees ErrInvalidTransition.
func (s *BookingService) apply(ctx context.Context, id uint64, a Action) (model.BookingStatus, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return "", fmt.Errorf("%s booking %d: %w", a, id, err)
	}
	next, err := NextStatus(b.Status, a)
	if err != nil {
		return "", err
	}
	if err := s.store.SetStatus(ctx, id, b.Status, next); err != nil {
		if errors.Is(err, ports.ErrStatusChanged) {
			return "", fmt.Errorf("%w: booking %d changed while trying to %s", model.ErrInvalidTransition, id, a)
		}
		return "", fmt.Errorf("%s booking %d: %w", a, id, err)
	}

	prev := b.Status
	b.Status = next
	s.logger.Infoj(log.JSON{
		"msg":        "booking status changed",
		"booking_id": id,
		"action":     string(a),
		"from":       string(prev),
		"to":         string(next),
	})
	s.publish(ctx, model.EventFor(transitions[a].event, b, prev, s.now()))
	return next, nil
}
