package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UUID         uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Avatar       *uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}
