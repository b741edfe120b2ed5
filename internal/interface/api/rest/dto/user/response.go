package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	Request struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	AvatarRequest struct {
		MediaID string `json:"media_id"`
	}
	User struct {
		UUID      uuid.UUID  `json:"uuid"`
		Email     string     `json:"email"`
		Name      string     `json:"name"`
		Avatar    *uuid.UUID `json:"avatar,omitempty"`
		CreatedAt time.Time  `json:"created_at"`
	}
	// Public is what anyone but the user themself sees.
	Public struct {
		UUID   uuid.UUID  `json:"uuid"`
		Name   string     `json:"name"`
		Avatar *uuid.UUID `json:"avatar,omitempty"`
	}
)
