package ports

import (
	"context"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/user"
)

// Principal is the caller behind a bearer token.
type Principal struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

type Authenticator interface {
	// Authenticate accepts a token only while its session is still open.
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

type Auth interface {
	Authenticator
	// Login checks the password, opens a session and returns a bearer token.
	Login(ctx context.Context, u *user.User, requestPassword, ip string) (string, error)
}
