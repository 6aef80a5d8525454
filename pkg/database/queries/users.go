package queries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/OldStager01/scaling-advisor/internal/auth"
)

const (
	selectOperatorSQL = `SELECT id, username, password_hash FROM users WHERE username = $1`

	// xmax is zero only on a row this statement inserted.
	upsertOperatorSQL = `
		INSERT INTO users (username, password_hash) VALUES ($1, $2)
		ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
		RETURNING id, created_at, (xmax = 0)`
)

// Operator is a stored account allowed to call the protected API.
type Operator struct {
	ID        int
	Username  string
	CreatedAt time.Time
	Created   bool
}

// UserRepository stores operator credentials. It is an auth.UserStore.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	user := &auth.User{}
	err := r.db.QueryRowContext(ctx, selectOperatorSQL, username).
		Scan(&user.ID, &user.Username, &user.PasswordHash)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, auth.ErrUserNotFound
	case err != nil:
		return nil, fmt.Errorf("load operator %q: %w", username, err)
	}
	return user, nil
}

// Upsert stores passwordHash for username, creating the account when absent.
func (r *UserRepository) Upsert(ctx context.Context, username, passwordHash string) (*Operator, error) {
	op := &Operator{Username: username}
	err := r.db.QueryRowContext(ctx, upsertOperatorSQL, username, passwordHash).
		Scan(&op.ID, &op.CreatedAt, &op.Created)
	if err != nil {
		return nil, fmt.Errorf("save operator %q: %w", username, err)
	}
	return op, nil
}
