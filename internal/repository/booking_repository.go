package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
    "github.com/1316346949/meeting-room-booking-system/internal/service/ports"
)

// RetryPolicy bounds how often a room transaction is replayed after a
// deadlock or lock wait timeout.  Delay doubles after every attempt.
type RetryPolicy struct {
    Attempts int
    Delay    time.Duration
}

// BookingRepo stores bookings in the `bookings` table.  Creation for a
// room is serialized by a row lock on the room's meeting_rooms row; status
// changes are conditional updates on a single row.  All timestamps are
// stored in UTC.
type BookingRepo struct {
    db    *sql.DB
    retry RetryPolicy
}

var _ ports.BookingStore = (*BookingRepo)(nil)

// NewBookingRepo returns a BookingRepo bound to db.
func NewBookingRepo(db *sql.DB, retry RetryPolicy) *BookingRepo {
    if retry.Attempts < 1 {
        retry.Attempts = 1
    }
    if retry.Delay <= 0 {
        retry.Delay = 50 * time.Millisecond
    }
    return &BookingRepo{db: db, retry: retry}
}

const bookingColumns = `id, room_id, user_id, start_time, end_time, note, status, created_at`

type rowScanner interface {
    Scan(dest ...any) error
}

func scanBooking(s rowScanner) (model.Booking, error) {
    var (
        b      model.Booking
        note   sql.NullString
        status string
    )
    if err := s.Scan(&b.ID, &b.RoomID, &b.UserID, &b.Interval.Start, &b.Interval.End, &note, &status, &b.CreatedAt); err != nil {
        return model.Booking{}, err
    }
    st, err := model.ParseBookingStatus(status)
    if err != nil {
        return model.Booking{}, err
    }
    b.Status = st
    b.Note = note.String
    b.Interval = model.NewInterval(b.Interval.Start, b.Interval.End)
    b.CreatedAt = b.CreatedAt.UTC()
    return b, nil
}

// InRoom runs fn inside a transaction holding an exclusive lock on the
// room row.  Deadlocks and lock wait timeouts replay the whole
// transaction, including fn, up to the retry policy; after that the error
// is reported as model.ErrStorage.
func (r *BookingRepo) InRoom(ctx context.Context, roomID uint64, fn func(tx ports.RoomTx) error) error {
    delay := r.retry.Delay
    for attempt := 1; ; attempt++ {
        err := r.inRoomOnce(ctx, roomID, fn)
        if err == nil || !isRetryable(err) {
            return err
        }
        if attempt >= r.retry.Attempts {
            return fmt.Errorf("%w: room %d after %d attempts: %v", model.ErrStorage, roomID, attempt, err)
        }
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(delay):
        }
        delay *= 2
    }
}

func (r *BookingRepo) inRoomOnce(ctx context.Context, roomID uint64, fn func(tx ports.RoomTx) error) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return fmt.Errorf("begin tx: %w", err)
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Concurrent creators for this room queue up here.
    var locked uint64
    err = tx.QueryRowContext(ctx, `SELECT id FROM meeting_rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&locked)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.ErrRoomNotFound
        }
        return err
    }

    if err := fn(&roomTx{tx: tx, roomID: roomID}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// roomTx is the RoomTx handed to InRoom callbacks.
type roomTx struct {
    tx     *sql.Tx
    roomID uint64
}

// blockingQuery selects blocking bookings of a room overlapping
// [window.Start, window.End).  It is served by the
// (room_id, status, start_time, end_time) index.
const blockingQuery = `SELECT ` + bookingColumns + `
    FROM bookings
    WHERE room_id = ? AND status IN (?, ?) AND start_time < ? AND end_time > ?
    ORDER BY start_time, id`

func (t *roomTx) BlockingBookings(ctx context.Context, window model.Interval) ([]model.Booking, error) {
    // A locking read sees rows committed by creators that held the room
    // lock before us, regardless of the transaction's snapshot.
    rows, err := t.tx.QueryContext(ctx, blockingQuery+` LOCK IN SHARE MODE`,
        t.roomID, model.StatusPending, model.StatusApproved, window.End, window.Start)
    if err != nil {
        return nil, err
    }
    return collectBookings(rows)
}

func (t *roomTx) Insert(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (room_id, user_id, start_time, end_time, note, status, created_at)
               VALUES (?, ?, ?, ?, ?, ?, ?)`
    note := sql.NullString{String: b.Note, Valid: b.Note != ""}
    res, err := t.tx.ExecContext(ctx, q,
        t.roomID, b.UserID, b.Interval.Start.UTC(), b.Interval.End.UTC(), note, b.Status, b.CreatedAt.UTC())
    if err != nil {
        if isDuplicate(err) {
            return model.ErrSlotConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    b.RoomID = t.roomID
    return nil
}

// BlockingBookings is the non-locking variant used for advisory checks.
func (r *BookingRepo) BlockingBookings(ctx context.Context, roomID uint64, window model.Interval) ([]model.Booking, error) {
    rows, err := r.db.QueryContext(ctx, blockingQuery,
        roomID, model.StatusPending, model.StatusApproved, window.End, window.Start)
    if err != nil {
        return nil, err
    }
    return collectBookings(rows)
}

func collectBookings(rows *sql.Rows) ([]model.Booking, error) {
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetBooking loads one booking by id.
func (r *BookingRepo) GetBooking(ctx context.Context, id uint64) (model.Booking, error) {
    row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
    b, err := scanBooking(row)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return model.Booking{}, model.ErrBookingNotFound
        }
        return model.Booking{}, err
    }
    return b, nil
}

// SetStatus is a compare-and-swap on bookings.status.  When no row is
// updated it tells a missing booking apart from a lost race.
func (r *BookingRepo) SetStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
    res, err := r.db.ExecContext(ctx, `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`, to, id, from)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 1 {
        return nil
    }
    var current string
    err = r.db.QueryRowContext(ctx, `SELECT status FROM bookings WHERE id = ?`, id).Scan(&current)
    if errors.Is(err, sql.ErrNoRows) {
        return model.ErrBookingNotFound
    }
    if err != nil {
        return err
    }
    return ports.ErrStatusChanged
}
