package media

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateMedia(ctx context.Context, req *Media) (*Media, error)
	FetchMediaByID(ctx context.Context, id ID) (*Media, error)
	FetchMediaByUploader(ctx context.Context, uploader uuid.UUID) (MediaList, error)

	Claim(ctx context.Context, f ClaimFilter) (*Media, error)
	ClaimMany(ctx context.Context, fs []ClaimFilter) ([]ID, error)
	Unclaim(ctx context.Context, ids ...ID) error
	SetVisibility(ctx context.Context, v Visibility, ids ...ID) error

	DeleteMedia(ctx context.Context, id ID) error
	DeleteMediaByUploader(ctx context.Context, uploader uuid.UUID) (int64, error)

	// Sweep listings page by id: after is exclusive, before is the expiry boundary.
	FetchExpiredWaiting(ctx context.Context, after, before ID, limit int) ([]ID, error)
	DeleteWaiting(ctx context.Context, id ID) (bool, error)
	FetchUnreferencedAssigned(ctx context.Context, after, before ID, limit int) ([]ID, error)
	DeleteUnreferenced(ctx context.Context, id ID) (bool, error)
}
