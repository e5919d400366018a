package model

import "time"

// BookingFilter narrows a booking listing.  Every field is optional and
// the set fields are combined with AND.  String fields match as
// case-insensitive substrings.  RangeStart/RangeEnd select bookings whose
// interval overlaps [RangeStart, RangeEnd).
type BookingFilter struct {
    Username     string
    RoomName     string
    RoomLocation string
    RangeStart   *time.Time
    RangeEnd     *time.Time
}

// Window returns the overlap window of the filter, if any.
func (f BookingFilter) Window() (Interval, bool) {
    if f.RangeStart == nil || f.RangeEnd == nil {
        return Interval{}, false
    }
    return NewInterval(*f.RangeStart, *f.RangeEnd), true
}

// BookingQuery is a validated listing request passed to the store.  Offset
// and Limit are derived from the page number and size.
type BookingQuery struct {
    Filter BookingFilter
    Offset int
    Limit  int
}

// BookingSummary is one row of a listing: the booking joined with the
// display fields of its room and user.
type BookingSummary struct {
    ID        uint64        `json:"id"`
    StartTime time.Time     `json:"start_time"`
    EndTime   time.Time     `json:"end_time"`
    Note      string        `json:"note"`
    Status    BookingStatus `json:"status"`
    CreatedAt time.Time     `json:"created_at"`
    User      UserSummary   `json:"user"`
    Room      RoomSummary   `json:"room"`
}

type UserSummary struct {
    ID       uint64 `json:"id"`
    Username string `json:"username"`
    NickName string `json:"nick_name"`
}

type RoomSummary struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Location    string `json:"location"`
    Capacity    int    `json:"capacity"`
    Equipment   string `json:"equipment"`
    Description string `json:"description"`
}

// BookingPage is one page of a listing plus the total number of rows that
// match the filter.
type BookingPage struct {
    Items    []BookingSummary `json:"items"`
    Total    int              `json:"total"`
    PageNo   int              `json:"page_no"`
    PageSize int              `json:"page_size"`
}

// SummaryOf builds the listing projection of a booking.
func SummaryOf(b Booking, u User, r Room) BookingSummary {
    return BookingSummary{
        ID:        b.ID,
        StartTime: b.Interval.Start,
        EndTime:   b.Interval.End,
        Note:      b.Note,
        Status:    b.Status,
        CreatedAt: b.CreatedAt,
        User:      UserSummary{ID: u.ID, Username: u.Username, NickName: u.NickName},
        Room: RoomSummary{
            ID:          r.ID,
            Name:        r.Name,
            Location:    r.Location,
            Capacity:    r.Capacity,
            Equipment:   r.Equipment,
            Description: r.Description,
        },
    }
}
