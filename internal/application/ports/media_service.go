package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"socialmedia-api/internal/domain/media"
)

type Upload struct {
	FileName string
	Size     int64
	Body     io.Reader
}

type MediaService interface {
	Upload(ctx context.Context, uploader uuid.UUID, in Upload) (*media.Media, time.Duration, error)
	Get(ctx context.Context, id media.ID, viewer *uuid.UUID) (*media.Media, io.ReadCloser, error)
	IsExpired(id media.ID) bool
	ClaimOne(ctx context.Context, id media.ID, format media.Format, claimant uuid.UUID) (*media.Media, error)
	ClaimMany(ctx context.Context, targets []media.ClaimTarget, claimant uuid.UUID) error
	SetVisibility(ctx context.Context, v media.Visibility, ids ...media.ID) error
	DeleteCascade(ctx context.Context, owner media.Owner) error
}

type MediaSweeper interface {
	SweepExpired(ctx context.Context, now time.Time) (int, error)
	SweepOrphans(ctx context.Context, now time.Time) (int, error)
	Run(ctx context.Context, every time.Duration)
}
