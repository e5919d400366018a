package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1316346949/meeting-room-booking-system/internal/model"
)

func ptr(t time.Time) *time.Time { return &t }

func TestListBookings_Validation(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	cases := []struct {
		name string
		in   ListBookingsInput
	}{
		{"page_no zero", ListBookingsInput{PageNo: 0, PageSize: 1}},
		{"page_size zero", ListBookingsInput{PageNo: 1, PageSize: 0}},
		{"page_size at max", ListBookingsInput{PageNo: 1, PageSize: 3}},
		{"end without start", ListBookingsInput{PageNo: 1, PageSize: 1, Filter: model.BookingFilter{RangeEnd: ptr(at(1))}}},
		{"end before start", ListBookingsInput{PageNo: 1, PageSize: 1, Filter: model.BookingFilter{RangeStart: ptr(at(1)), RangeEnd: ptr(at(0))}}},
		{"empty range", ListBookingsInput{PageNo: 1, PageSize: 1, Filter: model.BookingFilter{RangeStart: ptr(at(1)), RangeEnd: ptr(at(1))}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ListBookings(context.Background(), tc.in)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestListBookings_DefaultMaxPageSize(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	book(t, svc, 1, 1, 0, 1)
	book(t, svc, 1, 1, 1, 2)
	book(t, svc, 1, 1, 2, 3)

	page, err := svc.ListBookings(context.Background(), ListBookingsInput{PageNo: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.Total)
}

func TestListBookings_PaginationIsDeterministic(t *testing.T) {
	svc, _, _ := newTestService(t, Options{MaxPageSize: 50})
	var ids []uint64
	for i := 0; i < 7; i++ {
		ids = append(ids, book(t, svc, uint64(i%3+1), 1, float64(i), float64(i)+1))
	}

	var seen []uint64
	for pageNo := 1; pageNo <= 3; pageNo++ {
		in := ListBookingsInput{PageNo: pageNo, PageSize: 3}
		first, err := svc.ListBookings(context.Background(), in)
		require.NoError(t, err)
		again, err := svc.ListBookings(context.Background(), in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
		assert.Equal(t, 7, first.Total)
		for _, it := range first.Items {
			seen = append(seen, it.ID)
		}
	}
	assert.Equal(t, ids, seen)

	past, err := svc.ListBookings(context.Background(), ListBookingsInput{PageNo: 9, PageSize: 3})
	require.NoError(t, err)
	assert.NotNil(t, past.Items)
	assert.Empty(t, past.Items)
	assert.Equal(t, 7, past.Total)
}

func TestListBookings_Filters(t *testing.T) {
	svc, _, _ := newTestService(t, Options{MaxPageSize: 50})
	jupiter := book(t, svc, 1, 1, 0, 1) // zhangsan, Jupiter, 1F west
	venus := book(t, svc, 2, 2, 0, 1)   // lisi, Venus, 2F east
	uranus := book(t, svc, 3, 2, 5, 6)  // lisi, Uranus, 3F east
	_, err := svc.Reject(context.Background(), uranus)
	require.NoError(t, err)

	list := func(f model.BookingFilter) []uint64 {
		page, err := svc.ListBookings(context.Background(), ListBookingsInput{Filter: f, PageNo: 1, PageSize: 10})
		require.NoError(t, err)
		var out []uint64
		for _, it := range page.Items {
			out = append(out, it.ID)
		}
		return out
	}

	assert.Equal(t, []uint64{jupiter, venus, uranus}, list(model.BookingFilter{}))
	assert.Equal(t, []uint64{venus, uranus}, list(model.BookingFilter{Username: "LIS"}))
	assert.Equal(t, []uint64{jupiter}, list(model.BookingFilter{RoomName: "jup"}))
	assert.Equal(t, []uint64{venus, uranus}, list(model.BookingFilter{RoomLocation: " east "}))
	assert.Equal(t, []uint64{venus}, list(model.BookingFilter{Username: "li", RoomLocation: "2F"}))
	assert.Nil(t, list(model.BookingFilter{Username: "wangwu"}))

	// Window defaults to one hour after range_start.
	assert.Equal(t, []uint64{jupiter, venus}, list(model.BookingFilter{RangeStart: ptr(at(-0.5))}))
	assert.Nil(t, list(model.BookingFilter{RangeStart: ptr(at(1))}))
	assert.Equal(t, []uint64{uranus}, list(model.BookingFilter{RangeStart: ptr(at(2)), RangeEnd: ptr(at(5.5))}))
}

func TestListBookings_ProjectsRoomAndUser(t *testing.T) {
	svc, _, _ := newTestService(t, Options{})
	id := book(t, svc, 3, 1, 0, 1)

	page, err := svc.ListBookings(context.Background(), ListBookingsInput{PageNo: 1, PageSize: 1})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	it := page.Items[0]
	assert.Equal(t, id, it.ID)
	assert.Equal(t, "zhangsan", it.User.Username)
	assert.Equal(t, "Zhang San", it.User.NickName)
	assert.Equal(t, "Uranus", it.Room.Name)
	assert.Equal(t, "3F east", it.Room.Location)
	assert.Equal(t, 30, it.Room.Capacity)
	assert.Equal(t, model.StatusPending, it.Status)
	assert.True(t, it.StartTime.Equal(at(0)))
}
