package services

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"socialmedia-api/config"
	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/infrastructure/metrics"
)

type MediaSweeper struct {
	mediaRepository media.Repository
	blobs           ports.BlobStore
	mCounter        *prometheus.CounterVec
	logger          *zap.Logger

	ttl         time.Duration
	orphanGrace time.Duration
	batch       int
}

func NewMediaSweeper(
	mediaRepository media.Repository,
	blobs ports.BlobStore,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
	cfg config.Media,
) ports.MediaSweeper {
	return &MediaSweeper{
		mediaRepository: mediaRepository,
		blobs:           blobs,
		mCounter:        mCounter,
		logger:          logger,
		ttl:             cfg.TTL,
		orphanGrace:     cfg.OrphanGrace,
		batch:           cfg.SweepBatch,
	}
}

// SweepExpired deletes every unclaimed upload older than the TTL, one page
// at a time. Each record is deleted only if it is still waiting, so a claim
// racing the sweep wins; the blob goes after its record.
func (s *MediaSweeper) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	boundary := media.ExpiryBoundary(now.Add(-s.ttl))
	swept, err := s.drain(ctx, func(ctx context.Context, after media.ID) ([]media.ID, error) {
		return s.mediaRepository.FetchExpiredWaiting(ctx, after, boundary, s.batch)
	}, s.mediaRepository.DeleteWaiting)
	s.mCounter.WithLabelValues(metrics.MediaSweptExpired).Add(float64(swept))
	if err != nil {
		return swept, fmt.Errorf("list expired media: %w", err)
	}

	return swept, ctx.Err()
}

// SweepOrphans deletes claimed media that nothing references any more, for
// example after a post insert failed following a successful claim.
func (s *MediaSweeper) SweepOrphans(ctx context.Context, now time.Time) (int, error) {
	boundary := media.ExpiryBoundary(now.Add(-s.ttl - s.orphanGrace))
	swept, err := s.drain(ctx, func(ctx context.Context, after media.ID) ([]media.ID, error) {
		return s.mediaRepository.FetchUnreferencedAssigned(ctx, after, boundary, s.batch)
	}, s.mediaRepository.DeleteUnreferenced)
	s.mCounter.WithLabelValues(metrics.MediaSweptOrphans).Add(float64(swept))
	if err != nil {
		return swept, fmt.Errorf("list orphaned media: %w", err)
	}

	return swept, ctx.Err()
}

// drain pages through the listing by id until a short page comes back.
// Paging resumes after the last listed id, so records whose delete keeps
// failing are passed over instead of filling every page.
func (s *MediaSweeper) drain(
	ctx context.Context,
	list func(context.Context, media.ID) ([]media.ID, error),
	deleteRecord func(context.Context, media.ID) (bool, error),
) (int, error) {
	var after media.ID
	swept := 0
	for ctx.Err() == nil {
		ids, err := list(ctx, after)
		if err != nil {
			return swept, err
		}

		swept += s.sweep(ctx, ids, deleteRecord)
		if len(ids) < s.batch {
			break
		}
		after = ids[len(ids)-1]
	}

	return swept, nil
}

func (s *MediaSweeper) sweep(
	ctx context.Context,
	ids []media.ID,
	deleteRecord func(context.Context, media.ID) (bool, error),
) int {
	swept := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}

		deleted, err := deleteRecord(ctx, id)
		if err != nil {
			s.logger.Error("sweep: delete record failed", zap.Stringer("media_id", id), zap.Error(err))
			continue
		}
		if !deleted {
			continue
		}

		if err = s.blobs.Delete(ctx, id); err != nil {
			s.logger.Warn("sweep: delete blob failed", zap.Stringer("media_id", id), zap.Error(err))
		}
		swept++
	}

	return swept
}

func (s *MediaSweeper) Run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	s.logger.Info("media sweeper started", zap.Duration("interval", every))

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			expired, err := s.SweepExpired(ctx, now)
			if err != nil {
				s.logger.Error("sweep expired media failed", zap.Error(err))
			}
			orphans, err := s.SweepOrphans(ctx, now)
			if err != nil {
				s.logger.Error("sweep orphaned media failed", zap.Error(err))
			}
			if expired+orphans > 0 {
				s.logger.Info("media sweep completed", zap.Int("expired", expired), zap.Int("orphans", orphans))
			}
		case <-ctx.Done():
			s.logger.Info("media sweeper stopped")
			return
		}
	}
}
