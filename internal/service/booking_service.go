package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/1316346949/meeting-room-booking-system/internal/model"
	"github.com/1316346949/meeting-room-booking-system/internal/service/ports"
)

// Options tunes the booking engine.  Zero values fall back to the
// defaults below.
type Options struct {
	MaxPageSize        int           // exclusive upper bound of page_size
	DefaultRangeWindow time.Duration // range_end = range_start + window when omitted
	LookupTimeout      time.Duration // bound on each room/user existence lookup
	PublishTimeout     time.Duration // bound on each event publish
}

const (
	defaultMaxPageSize    = 3
	defaultRangeWindow    = time.Hour
	defaultLookupTimeout  = 5 * time.Second
	defaultPublishTimeout = 2 * time.Second
)

func (o Options) withDefaults() Options {
	if o.MaxPageSize < 2 {
		o.MaxPageSize = defaultMaxPageSize
	}
	if o.DefaultRangeWindow <= 0 {
		o.DefaultRangeWindow = defaultRangeWindow
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = defaultLookupTimeout
	}
	if o.PublishTimeout <= 0 {
		o.PublishTimeout = defaultPublishTimeout
	}
	return o
}

// BookingService creates bookings, moves them through the approval
// workflow and lists them.  It holds no booking state of its own; all
// shared state lives in the store.
type BookingService struct {
	store     ports.BookingStore
	rooms     ports.RoomDirectory
	users     ports.UserDirectory
	publisher []ports.EventPublisher
	logger    *log.Logger
	opts      Options
	now       func() time.Time
}

func NewBookingService(
	store ports.BookingStore,
	rooms ports.RoomDirectory,
	users ports.UserDirectory,
	logger *log.Logger,
	opts Options,
	publishers ...ports.EventPublisher,
) *BookingService {
	if store == nil || rooms == nil || users == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if logger == nil {
		logger = log.New("booking")
	}
	return &BookingService{
		store:     store,
		rooms:     rooms,
		users:     users,
		publisher: publishers,
		logger:    logger,
		opts:      opts.withDefaults(),
		now:       time.Now,
	}
}

// CreateBookingInput is a reservation request from an authenticated user.
type CreateBookingInput struct {
	RoomID uint64
	UserID uint64
	Start  time.Time
	End    time.Time
	Note   string
}

// CreateBooking reserves in.RoomID for [in.Start, in.End) and returns the
// new booking id.  Preconditions are checked in order and the first
// failure is returned: ErrInvalidInterval, ErrRoomNotFound,
// ErrUserNotFound, ErrSlotConflict.  The conflict check and the insert run
// inside one room-scoped transaction, so concurrent requests for the same
// room cannot both succeed with overlapping intervals.
func (s *BookingService) CreateBooking(ctx context.Context, in CreateBookingInput) (uint64, error) {
	iv := model.NewInterval(in.Start, in.End)
	if !iv.Valid() {
		return 0, model.ErrInvalidInterval
	}
	if err := s.lookup(ctx, s.rooms.RoomExists, in.RoomID, model.ErrRoomNotFound); err != nil {
		return 0, err
	}
	if err := s.lookup(ctx, s.users.UserExists, in.UserID, model.ErrUserNotFound); err != nil {
		return 0, err
	}

	b := &model.Booking{
		RoomID:    in.RoomID,
		UserID:    in.UserID,
		Interval:  iv,
		Note:      in.Note,
		Status:    model.StatusPending,
		CreatedAt: s.now().UTC(),
	}
	err := s.store.InRoom(ctx, in.RoomID, func(tx ports.RoomTx) error {
		blocking, err := tx.BlockingBookings(ctx, iv)
		if err != nil {
			return fmt.Errorf("load blocking bookings: %w", err)
		}
		if DetectConflict(blocking, in.RoomID, iv, 0) {
			return model.ErrSlotConflict
		}
		return tx.Insert(ctx, b)
	})
	if err != nil {
		if errors.Is(err, model.ErrSlotConflict) || errors.Is(err, model.ErrRoomNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Infoj(log.JSON{
		"msg":        "booking created",
		"booking_id": b.ID,
		"room_id":    b.RoomID,
		"user_id":    b.UserID,
		"start":      iv.Start.Format(time.RFC3339),
		"end":        iv.End.Format(time.RFC3339),
	})
	s.publish(ctx, model.EventFor(model.EventCreated, *b, "", s.now()))
	return b.ID, nil
}

// GetBooking returns a single booking or ErrBookingNotFound.
func (s *BookingService) GetBooking(ctx context.Context, id uint64) (model.Booking, error) {
	b, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return model.Booking{}, fmt.Errorf("get booking %d: %w", id, err)
	}
	return b, nil
}

// lookup asks a directory whether id exists.  Any failure to resolve,
// including a lookup error or timeout, is terminal for the request and
// reported as notFound.
func (s *BookingService) lookup(ctx context.Context, exists func(context.Context, uint64) (bool, error), id uint64, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LookupTimeout)
	defer cancel()
	ok, err := exists(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: lookup %d: %v", notFound, id, err)
	}
	if !ok {
		return notFound
	}
	return nil
}

// publish hands ev to every publisher.  Failures are logged; the write has
// already committed and is not rolled back.
func (s *BookingService) publish(ctx context.Context, ev model.BookingEvent) {
	if len(s.publisher) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.PublishTimeout)
	defer cancel()
	for _, p := range s.publisher {
		if err := p.Publish(ctx, ev); err != nil {
			s.logger.Warnj(log.JSON{
				"msg":        "publish booking event failed",
				"kind":       string(ev.Kind),
				"booking_id": ev.BookingID,
				"error":      err.Error(),
			})
		}
	}
}
