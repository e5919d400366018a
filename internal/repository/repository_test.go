package repository

import (
    "errors"
    "fmt"
    "strings"
    "testing"
    "time"

    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
)

func TestIsRetryable(t *testing.T) {
    assert.True(t, isRetryable(&mysql.MySQLError{Number: 1213}))
    assert.True(t, isRetryable(fmt.Errorf("commit: %w", &mysql.MySQLError{Number: 1205})))
    assert.False(t, isRetryable(&mysql.MySQLError{Number: 1062}))
    assert.False(t, isRetryable(errors.New("deadlock")))
    assert.True(t, isDuplicate(&mysql.MySQLError{Number: 1062}))
}

func TestContainsPattern(t *testing.T) {
    assert.Equal(t, "%jupiter%", containsPattern("Jupiter"))
    assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}

func TestBuildListQuery_NoFilter(t *testing.T) {
    countSQL, countArgs, dataSQL, dataArgs := buildListQuery(model.BookingQuery{Offset: 4, Limit: 2})

    assert.Contains(t, countSQL, "WHERE 1=1")
    assert.Empty(t, countArgs)
    assert.Contains(t, dataSQL, "ORDER BY b.id ASC")
    assert.Equal(t, []any{2, 4}, dataArgs)
}

func TestBuildListQuery_AllFilters(t *testing.T) {
    start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
    end := start.Add(2 * time.Hour)
    q := model.BookingQuery{
        Filter: model.BookingFilter{
            Username:     "Zhang",
            RoomName:     "jup",
            RoomLocation: "1F",
            RangeStart:   &start,
            RangeEnd:     &end,
        },
        Offset: 0,
        Limit:  2,
    }
    countSQL, countArgs, dataSQL, dataArgs := buildListQuery(q)

    want := []any{"%zhang%", "%jup%", "%1f%", end, start}
    assert.Equal(t, want, countArgs)
    assert.Equal(t, append(want, 2, 0), dataArgs)
    for _, frag := range []string{"LOWER(u.username) LIKE ?", "LOWER(r.name) LIKE ?", "LOWER(r.location) LIKE ?", "b.start_time < ? AND b.end_time > ?"} {
        assert.Contains(t, countSQL, frag)
        assert.Contains(t, dataSQL, frag)
    }
    assert.Equal(t, strings.Count(countSQL, "?"), len(countArgs))
    assert.Equal(t, strings.Count(dataSQL, "?"), len(dataArgs))
}
