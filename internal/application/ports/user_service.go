package ports

import (
	"context"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/user"
)

type UserService interface {
	FindUserByID(ctx context.Context, uuid user.UUID) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	CreateUser(ctx context.Context, email, name, password string) (*user.User, error)
	SetAvatar(ctx context.Context, userID user.UUID, avatar uuid.UUID) (*user.User, error)
	DeleteUser(ctx context.Context, uuid user.UUID) error
}
