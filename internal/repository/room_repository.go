package repository

import (
	"context"
	"database/sql"
	"errors"
)

// RoomRepo reads the `meeting_rooms` table owned by the room directory.
type RoomRepo struct{ db *sql.DB }

func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// RoomExists reports whether a room with the given id exists.
func (r *RoomRepo) RoomExists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM meeting_rooms WHERE id=? LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
