// Package memstore is an in-memory implementation of the booking store and
// of the room and user directories.  It backs the service tests and the
// STORE_DRIVER=memory mode of the server.
package memstore

import (
    "context"
    "sort"
    "strings"
    "sync"

    "github.com/1316346949/meeting-room-booking-system/internal/model"
    "github.com/1316346949/meeting-room-booking-system/internal/service/ports"
)

// Store keeps bookings, rooms and users in maps.  mu guards the maps and
// is only held for short reads and writes.  Check-then-insert sequences on
// one room are serialized by that room's entry in roomLocks, so different
// rooms never wait on each other.
type Store struct {
    mu       sync.RWMutex
    bookings map[uint64]model.Booking
    rooms    map[uint64]model.Room
    users    map[uint64]model.User
    nextID   uint64

    locksMu   sync.Mutex
    roomLocks map[uint64]*sync.Mutex
}

var _ ports.BookingStore = (*Store)(nil)

func New() *Store {
    return &Store{
        bookings:  make(map[uint64]model.Booking),
        rooms:     make(map[uint64]model.Room),
        users:     make(map[uint64]model.User),
        roomLocks: make(map[uint64]*sync.Mutex),
    }
}

// PutRoom registers or replaces a room.
func (s *Store) PutRoom(r model.Room) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.rooms[r.ID] = r
}

// PutUser registers or replaces a user.
func (s *Store) PutUser(u model.User) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.users[u.ID] = u
}

func (s *Store) RoomExists(_ context.Context, roomID uint64) (bool, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    _, ok := s.rooms[roomID]
    return ok, nil
}

func (s *Store) UserExists(_ context.Context, userID uint64) (bool, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    _, ok := s.users[userID]
    return ok, nil
}

func (s *Store) roomLock(roomID uint64) *sync.Mutex {
    s.locksMu.Lock()
    defer s.locksMu.Unlock()
    l, ok := s.roomLocks[roomID]
    if !ok {
        l = &sync.Mutex{}
        s.roomLocks[roomID] = l
    }
    return l
}

// roomTx stages inserts until InRoom commits them.
type roomTx struct {
    s       *Store
    roomID  uint64
    pending []*model.Booking
}

func (tx *roomTx) BlockingBookings(ctx context.Context, window model.Interval) ([]model.Booking, error) {
    blocking, err := tx.s.BlockingBookings(ctx, tx.roomID, window)
    if err != nil {
        return nil, err
    }
    for _, b := range tx.pending {
        if b.Interval.Overlaps(window) {
            blocking = append(blocking, *b)
        }
    }
    return blocking, nil
}

func (tx *roomTx) Insert(ctx context.Context, b *model.Booking) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    tx.s.mu.Lock()
    tx.s.nextID++
    b.ID = tx.s.nextID
    tx.s.mu.Unlock()
    b.RoomID = tx.roomID
    tx.pending = append(tx.pending, b)
    return nil
}

// InRoom holds the room lock for the whole of fn and commits the staged
// inserts only when fn succeeds.  Ids taken by a discarded insert are not
// reused, as with an auto-increment column.
func (s *Store) InRoom(ctx context.Context, roomID uint64, fn func(tx ports.RoomTx) error) error {
    l := s.roomLock(roomID)
    l.Lock()
    defer l.Unlock()

    if ok, _ := s.RoomExists(ctx, roomID); !ok {
        return model.ErrRoomNotFound
    }
    tx := &roomTx{s: s, roomID: roomID}
    if err := fn(tx); err != nil {
        return err
    }
    if err := ctx.Err(); err != nil {
        return err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, b := range tx.pending {
        s.bookings[b.ID] = *b
    }
    return nil
}

func (s *Store) BlockingBookings(ctx context.Context, roomID uint64, window model.Interval) ([]model.Booking, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()
    var out []model.Booking
    for _, b := range s.bookings {
        if b.RoomID == roomID && b.Status.Blocking() && b.Interval.Overlaps(window) {
            out = append(out, b)
        }
    }
    return out, nil
}

func (s *Store) GetBooking(_ context.Context, id uint64) (model.Booking, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    b, ok := s.bookings[id]
    if !ok {
        return model.Booking{}, model.ErrBookingNotFound
    }
    return b, nil
}

func (s *Store) SetStatus(_ context.Context, id uint64, from, to model.BookingStatus) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    b, ok := s.bookings[id]
    if !ok {
        return model.ErrBookingNotFound
    }
    if b.Status != from {
        return ports.ErrStatusChanged
    }
    b.Status = to
    s.bookings[id] = b
    return nil
}

// ListBookings applies the filter the way the MySQL store does: LIKE
// '%x%' under a case-insensitive collation, and an interval overlap for
// the time range.
func (s *Store) ListBookings(ctx context.Context, q model.BookingQuery) ([]model.BookingSummary, int, error) {
    if err := ctx.Err(); err != nil {
        return nil, 0, err
    }
    s.mu.RLock()
    defer s.mu.RUnlock()

    window, hasWindow := q.Filter.Window()
    matched := make([]model.BookingSummary, 0)
    for _, b := range s.bookings {
        u, okU := s.users[b.UserID]
        r, okR := s.rooms[b.RoomID]
        if !okU || !okR {
            continue // inner join semantics
        }
        if !containsFold(u.Username, q.Filter.Username) ||
            !containsFold(r.Name, q.Filter.RoomName) ||
            !containsFold(r.Location, q.Filter.RoomLocation) {
            continue
        }
        if hasWindow && !b.Interval.Overlaps(window) {
            continue
        }
        matched = append(matched, model.SummaryOf(b, u, r))
    }
    sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

    total := len(matched)
    lo := q.Offset
    if lo > total {
        lo = total
    }
    hi := lo + q.Limit
    if hi > total {
        hi = total
    }
    return matched[lo:hi], total, nil
}

func containsFold(s, sub string) bool {
    if sub == "" {
        return true
    }
    return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
