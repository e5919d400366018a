package memstore

import "github.com/1316346949/meeting-room-booking-system/internal/model"

// SeedDemo registers a few rooms and users so that a freshly started
// in-memory server can take bookings straight away.
func (s *Store) SeedDemo() {
    s.PutUser(model.User{ID: 1, Username: "zhangsan", NickName: "Zhang San"})
    s.PutUser(model.User{ID: 2, Username: "lisi", NickName: "Li Si"})

    s.PutRoom(model.Room{ID: 1, Name: "Jupiter", Capacity: 10, Equipment: "whiteboard", Location: "1F west"})
    s.PutRoom(model.Room{ID: 2, Name: "Venus", Capacity: 5, Location: "2F east"})
    s.PutRoom(model.Room{ID: 3, Name: "Uranus", Capacity: 30, Equipment: "whiteboard, TV", Location: "3F east"})
}
