package ports

import (
	"context"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
)

type PostService interface {
	CreatePost(ctx context.Context, author uuid.UUID, in post.NewPost) (*post.Post, error)
	FindPostByID(ctx context.Context, id post.ID) (*post.Post, error)
	FetchPostsByAuthor(ctx context.Context, author uuid.UUID, viewer *uuid.UUID, q post.ListQuery) (post.Posts, error)
	UpdateVisibility(ctx context.Context, id post.ID, author uuid.UUID, v media.Visibility) (*post.Post, error)
	DeletePost(ctx context.Context, id post.ID, author uuid.UUID) error
}
