package repository

import (
	"context"
	"database/sql"
	"errors"
)

// UserRepo reads the `users` table owned by the user directory.  The
// booking engine never writes to it.
type UserRepo struct{ db *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// UserExists reports whether a non-frozen user with the given id exists.
func (r *UserRepo) UserExists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM users WHERE id=? AND is_frozen=0 LIMIT 1", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
