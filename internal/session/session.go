// Package session keeps server-side login state. Clients only hold a
// signed token naming their session id.
package session

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Identity is the authenticated principal attached to a request.
type Identity struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type Session struct {
	ID        string    `json:"id"`
	Identity  *Identity `json:"identity,omitempty"`
	Next      string    `json:"next,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil && s.Identity.UserID != 0
}

type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}
