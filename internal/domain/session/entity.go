package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidSession covers bad tokens and sessions that no longer exist.
var ErrInvalidSession = errors.New("invalid session")

type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	IP        string
	CreatedAt time.Time
}

type Repository interface {
	CreateSession(ctx context.Context, req Session) (*Session, error)
	SessionExists(ctx context.Context, id, userID uuid.UUID) (bool, error)
	DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int64, error)
}
