package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Email        string
		PasswordHash string
		Name         string
		Avatar       *uuid.UUID

		CreatedAt time.Time
		UpdatedAt time.Time
	}
)
