package post

import (
	"time"

	"github.com/google/uuid"
)

type (
	Post struct {
		ID         uuid.UUID
		Author     uuid.UUID
		Title      string
		Caption    string
		Photo      uuid.UUID
		Audio      uuid.UUID
		Visibility string

		CreatedAt time.Time
	}
	Posts []*Post
)
