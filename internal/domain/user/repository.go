package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Repository interface {
	FetchUserByID(ctx context.Context, uuid UUID) (*User, error)
	FetchUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, req User) (*User, error)
	// SetAvatar points the user at avatar and returns the avatar it replaced.
	SetAvatar(ctx context.Context, uuid UUID, avatar uuid.UUID) (*uuid.UUID, error)
	DeleteUser(ctx context.Context, uuid UUID) (*User, error)
}
