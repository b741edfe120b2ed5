package post

import (
	"time"

	"github.com/google/uuid"
)

type (
	Request struct {
		Title      string `json:"title"`
		Caption    string `json:"caption"`
		Photo      string `json:"photo"`
		Audio      string `json:"audio"`
		Visibility string `json:"visibility"`
	}
	VisibilityRequest struct {
		Visibility string `json:"visibility" binding:"required,oneof=private public"`
	}
	ListQuery struct {
		Before time.Time `form:"before" time_format:"2006-01-02T15:04:05Z07:00"`
		Offset int       `form:"offset" binding:"gte=0"`
		Limit  int       `form:"limit" binding:"gte=0,lte=255"`
	}
	Post struct {
		ID         uuid.UUID `json:"id"`
		Author     uuid.UUID `json:"author"`
		Title      string    `json:"title"`
		Caption    string    `json:"caption,omitempty"`
		Photo      uuid.UUID `json:"photo"`
		Audio      uuid.UUID `json:"audio"`
		Visibility string    `json:"visibility"`
		CreatedAt  time.Time `json:"created_at"`
	}
)
