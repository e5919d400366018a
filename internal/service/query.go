package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/1316346949/meeting-room-booking-system/internal/model"
)

// ListBookingsInput is a listing request.  PageNo starts at 1.
type ListBookingsInput struct {
	Filter   model.BookingFilter
	PageNo   int
	PageSize int
}

// ListBookings returns one page of bookings matching the filter, ordered by
// id so that repeated calls over unchanged data return the same page.
// Out-of-range paging or an inconsistent time range fails with
// ErrValidation; values are never clamped.
func (s *BookingService) ListBookings(ctx context.Context, in ListBookingsInput) (model.BookingPage, error) {
	q, err := s.buildQuery(in)
	if err != nil {
		return model.BookingPage{}, err
	}
	items, total, err := s.store.ListBookings(ctx, q)
	if err != nil {
		return model.BookingPage{}, fmt.Errorf("list bookings: %w", err)
	}
	if items == nil {
		items = []model.BookingSummary{}
	}
	return model.BookingPage{Items: items, Total: total, PageNo: in.PageNo, PageSize: in.PageSize}, nil
}

func (s *BookingService) buildQuery(in ListBookingsInput) (model.BookingQuery, error) {
	if in.PageNo < 1 {
		return model.BookingQuery{}, fmt.Errorf("%w: page_no must be a positive integer", model.ErrValidation)
	}
	if in.PageSize < 1 || in.PageSize >= s.opts.MaxPageSize {
		return model.BookingQuery{}, fmt.Errorf("%w: page_size must be between 1 and %d", model.ErrValidation, s.opts.MaxPageSize-1)
	}

	f := model.BookingFilter{
		Username:     strings.TrimSpace(in.Filter.Username),
		RoomName:     strings.TrimSpace(in.Filter.RoomName),
		RoomLocation: strings.TrimSpace(in.Filter.RoomLocation),
	}
	switch {
	case in.Filter.RangeStart == nil && in.Filter.RangeEnd != nil:
		return model.BookingQuery{}, fmt.Errorf("%w: range_end requires range_start", model.ErrValidation)
	case in.Filter.RangeStart != nil:
		start := in.Filter.RangeStart.UTC()
		end := start.Add(s.opts.DefaultRangeWindow)
		if in.Filter.RangeEnd != nil {
			end = in.Filter.RangeEnd.UTC()
		}
		if !start.Before(end) {
			return model.BookingQuery{}, fmt.Errorf("%w: range_end must be after range_start", model.ErrValidation)
		}
		f.RangeStart, f.RangeEnd = &start, &end
	}

	return model.BookingQuery{
		Filter: f,
		Offset: (in.PageNo - 1) * in.PageSize,
		Limit:  in.PageSize,
	}, nil
}
