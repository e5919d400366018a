package model

// Room is the read-only projection of a meeting room owned by the room
// directory.  The booking engine only checks that a room exists and copies
// these display fields into listings.
type Room struct {
    ID          uint64 // meeting_rooms.id
    Name        string // meeting_rooms.name
    Location    string // meeting_rooms.location
    Capacity    int    // meeting_rooms.capacity
    Equipment   string // meeting_rooms.equipment
    Description string // meeting_rooms.description
}

// User is the read-only projection of an account owned by the user
// directory.
type User struct {
    ID       uint64 // users.id
    Username string // users.username
    NickName string // users.nick_name
}
