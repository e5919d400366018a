package model

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func at(h, m int) time.Time {
    return time.Date(2024, 5, 29, h, m, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
    base := NewInterval(at(10, 0), at(11, 0))

    cases := []struct {
        name string
        iv   Interval
        want bool
    }{
        {"inner", NewInterval(at(10, 30), at(10, 45)), true},
        {"left edge", NewInterval(at(9, 30), at(10, 30)), true},
        {"right edge", NewInterval(at(10, 59), at(12, 0)), true},
        {"exact", NewInterval(at(10, 0), at(11, 0)), true},
        {"covering", NewInterval(at(9, 0), at(12, 0)), true},
        {"touching after", NewInterval(at(11, 0), at(12, 0)), false},
        {"touching before", NewInterval(at(9, 0), at(10, 0)), false},
        {"disjoint", NewInterval(at(13, 0), at(14, 0)), false},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            assert.Equal(t, tc.want, base.Overlaps(tc.iv))
            assert.Equal(t, tc.want, tc.iv.Overlaps(base), "overlap must be symmetric")
        })
    }
}

func TestInterval_Valid(t *testing.T) {
    assert.True(t, NewInterval(at(10, 0), at(11, 0)).Valid())
    assert.False(t, NewInterval(at(10, 0), at(10, 0)).Valid())
    assert.False(t, NewInterval(at(11, 0), at(10, 0)).Valid())
}

func TestNewInterval_NormalisesToUTC(t *testing.T) {
    loc := time.FixedZone("UTC+8", 8*3600)
    iv := NewInterval(time.Date(2024, 5, 29, 18, 0, 0, 0, loc), time.Date(2024, 5, 29, 19, 0, 0, 0, loc))
    assert.Equal(t, time.UTC, iv.Start.Location())
    assert.Equal(t, at(10, 0), iv.Start)
    assert.Equal(t, time.Hour, iv.Duration())
}

func TestNewInterval_TruncatesToMilliseconds(t *testing.T) {
    start := at(9, 0).Add(100 * time.Microsecond)
    end := at(9, 0).Add(400 * time.Microsecond)
    assert.False(t, NewInterval(start, end).Valid())

    a := NewInterval(at(10, 0), at(11, 0).Add(400*time.Microsecond))
    b := NewInterval(at(11, 0).Add(200*time.Microsecond), at(12, 0))
    assert.Equal(t, at(11, 0), a.End)
    assert.Equal(t, at(11, 0), b.Start)
    assert.False(t, a.Overlaps(b))

    iv := NewInterval(at(10, 0).Add(1500*time.Microsecond), at(11, 0))
    assert.Equal(t, at(10, 0).Add(time.Millisecond), iv.Start)
}

func TestBookingStatus(t *testing.T) {
    assert.True(t, StatusPending.Blocking())
    assert.True(t, StatusApproved.Blocking())
    assert.False(t, StatusRejected.Blocking())
    assert.False(t, StatusUnbound.Blocking())

    assert.True(t, StatusRejected.Terminal())
    assert.True(t, StatusUnbound.Terminal())
    assert.False(t, StatusApproved.Terminal())

    s, err := ParseBookingStatus(" approved ")
    require.NoError(t, err)
    assert.Equal(t, StatusApproved, s)

    _, err = ParseBookingStatus("审批通过")
    assert.Error(t, err)
}
