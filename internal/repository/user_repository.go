package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/campus-inventory/internal/model"
)

// UserRepo reads the `users` table.  Accounts are provisioned outside this
// service, so there is no write path.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// GetByUsername fetches a user by exact username.  ErrNotFound when absent.
// A NULL email is returned as "".
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	var (
		u     model.User
		email sql.NullString
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT userId, username, password, email, role FROM users WHERE username = ? LIMIT 1",
		strings.TrimSpace(username)).Scan(&u.ID, &u.Username, &u.Password, &email, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Email = email.String
	return u, nil
}
