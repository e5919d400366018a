package repository

import (
    "context"
    "strings"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
)

const listFrom = `
    FROM bookings b
    JOIN users u         ON u.id = b.user_id
    JOIN meeting_rooms r ON r.id = b.room_id`

// buildListQuery translates a validated query into the count and page
// statements and their arguments.  Each filter field contributes at most
// one predicate.
func buildListQuery(q model.BookingQuery) (countSQL string, countArgs []any, dataSQL string, dataArgs []any) {
    where := []string{}
    args := []any{}

    if q.Filter.Username != "" {
        where = append(where, "LOWER(u.username) LIKE ?")
        args = append(args, containsPattern(q.Filter.Username))
    }
    if q.Filter.RoomName != "" {
        where = append(where, "LOWER(r.name) LIKE ?")
        args = append(args, containsPattern(q.Filter.RoomName))
    }
    if q.Filter.RoomLocation != "" {
        where = append(where, "LOWER(r.location) LIKE ?")
        args = append(args, containsPattern(q.Filter.RoomLocation))
    }
    if window, ok := q.Filter.Window(); ok {
        where = append(where, "b.start_time < ? AND b.end_time > ?")
        args = append(args, window.End, window.Start)
    }

    cond := "1=1"
    if len(where) > 0 {
        cond = strings.Join(where, " AND ")
    }

    countSQL = `SELECT COUNT(*)` + listFrom + `
    WHERE ` + cond
    dataSQL = `SELECT
        b.id, b.start_time, b.end_time, b.note, b.status, b.created_at,
        u.id, u.username, COALESCE(u.nick_name, ''),
        r.id, r.name, COALESCE(r.location, ''), r.capacity,
        COALESCE(r.equipment, ''), COALESCE(r.description, '')` + listFrom + `
    WHERE ` + cond + `
    ORDER BY b.id ASC
    LIMIT ? OFFSET ?`

    dataArgs = append(append([]any{}, args...), q.Limit, q.Offset)
    return countSQL, args, dataSQL, dataArgs
}

// ListBookings returns one page of booking summaries and the total count.
// The count and the page are separate statements; a write landing between
// them may make the two disagree, which listings tolerate.
func (r *BookingRepo) ListBookings(ctx context.Context, q model.BookingQuery) ([]model.BookingSummary, int, error) {
    countSQL, countArgs, dataSQL, dataArgs := buildListQuery(q)

    var total int
    if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
        return nil, 0, err
    }
    if total == 0 || q.Offset >= total {
        return []model.BookingSummary{}, total, nil
    }

    rows, err := r.db.QueryContext(ctx, dataSQL, dataArgs...)
    if err != nil {
        return nil, 0, err
    }
    defer rows.Close()

    out := make([]model.BookingSummary, 0, q.Limit)
    for rows.Next() {
        var (
            s      model.BookingSummary
            note   *string
            status string
        )
        if err := rows.Scan(
            &s.ID, &s.StartTime, &s.EndTime, &note, &status, &s.CreatedAt,
            &s.User.ID, &s.User.Username, &s.User.NickName,
            &s.Room.ID, &s.Room.Name, &s.Room.Location, &s.Room.Capacity,
            &s.Room.Equipment, &s.Room.Description,
        ); err != nil {
            return nil, 0, err
        }
        st, err := model.ParseBookingStatus(status)
        if err != nil {
            return nil, 0, err
        }
        s.Status = st
        if note != nil {
            s.Note = *note
        }
        s.StartTime, s.EndTime, s.CreatedAt = s.StartTime.UTC(), s.EndTime.UTC(), s.CreatedAt.UTC()
        out = append(out, s)
    }
    if err := rows.Err(); err != nil {
        return nil, 0, err
    }
    return out, total, nil
}
