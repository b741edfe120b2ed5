package post

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/media"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPost  = errors.New("invalid post")
)

type Repository interface {
	CreatePost(ctx context.Context, req *Post) (*Post, error)
	FetchPostByID(ctx context.Context, id ID) (*Post, error)
	FetchPostsByAuthor(ctx context.Context, author uuid.UUID) (Posts, error)
	ListPostsByAuthor(ctx context.Context, author uuid.UUID, q ListQuery) (Posts, error)
	UpdateVisibility(ctx context.Context, id ID, author uuid.UUID, v media.Visibility) (*Post, error)
	DeletePost(ctx context.Context, id ID, author uuid.UUID) (*Post, error)
}
