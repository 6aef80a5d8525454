package auth

import (
	"context"
	"errors"
)

var ErrUserNotFound = errors.New("user not found")

type User struct {
	ID           int
	Username     string
	PasswordHash string
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
}

// StaticUsers serves the single operator account from configuration.
type StaticUsers struct {
	user User
}

func NewStaticUsers(username, passwordHash string) *StaticUsers {
	return &StaticUsers{user: User{Username: username, PasswordHash: passwordHash}}
}

func (s *StaticUsers) GetByUsername(_ context.Context, username string) (*User, error) {
	if s.user.Username == "" || s.user.PasswordHash == "" || username != s.user.Username {
		return nil, ErrUserNotFound
	}
	u := s.user
	return &u, nil
}

// ChainUsers asks each store in order and returns the first match. Errors
// other than ErrUserNotFound stop the search.
type ChainUsers []UserStore

func (c ChainUsers) GetByUsername(ctx context.Context, username string) (*User, error) {
	for _, store := range c {
		if store == nil {
			continue
		}
		user, err := store.GetByUsername(ctx, username)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrUserNotFound) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}
