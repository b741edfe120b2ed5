package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"socialmedia-api/config"
	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/infrastructure/metrics"
	"socialmedia-api/internal/infrastructure/mq"
)

// blobDeleteParallelism bounds concurrent blob deletions in a user cascade.
const blobDeleteParallelism = 8

type MediaService struct {
	mediaRepository media.Repository
	blobs           ports.BlobStore
	inspector       ports.ContentInspector
	mq              ports.RabbitMQ
	mCounter        *prometheus.CounterVec
	logger          *zap.Logger

	ttl     time.Duration
	maxSize int64
	now     func() time.Time
}

func NewMediaService(
	mediaRepository media.Repository,
	blobs ports.BlobStore,
	inspector ports.ContentInspector,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
	cfg config.Media,
) ports.MediaService {
	return &MediaService{
		mediaRepository: mediaRepository,
		blobs:           blobs,
		inspector:       inspector,
		mq:              mq,
		mCounter:        mCounter,
		logger:          logger,
		ttl:             cfg.TTL,
		maxSize:         cfg.MaxSize,
		now:             time.Now,
	}
}

// Upload stores the bytes first and the record second. A crash in between
// leaves only a blob with no record, never a record without bytes.
func (ms *MediaService) Upload(ctx context.Context, uploader uuid.UUID, in ports.Upload) (*media.Media, time.Duration, error) {
	if in.Size <= 0 || in.Size > ms.maxSize {
		return nil, 0, media.ErrMediaTooLarge
	}

	info, body, err := ms.inspector.Inspect(in.Body)
	if err != nil {
		return nil, 0, err
	}

	id, err := media.NewID(ms.now())
	if err != nil {
		return nil, 0, err
	}

	if err = ms.blobs.Put(ctx, id, body, in.Size, info.MimeType); err != nil {
		return nil, 0, fmt.Errorf("store blob: %w", err)
	}

	m, err := ms.mediaRepository.CreateMedia(ctx, &media.Media{
		ID:         id,
		UploadedBy: uploader,
		Format:     info.Format,
		MimeType:   info.MimeType,
		FileName:   displayName(in.FileName, info.Ext),
		SizeBytes:  in.Size,
	})
	if err != nil {
		if derr := ms.blobs.Delete(context.WithoutCancel(ctx), id); derr != nil {
			ms.logger.Warn("orphan blob left after failed insert", zap.Stringer("media_id", id), zap.Error(derr))
		}
		return nil, 0, err
	}

	ms.mCounter.WithLabelValues(metrics.MediaUploaded).Inc()
	emit(ms.mq, ms.mCounter, mq.NewEvent(mq.MediaUploaded, uploader, mediaEvent{MediaID: m.ID, Format: m.Format}))

	return m, ms.ttl, nil
}

// Get serves only claimed media, and private media only to its uploader.
func (ms *MediaService) Get(ctx context.Context, id media.ID, viewer *uuid.UUID) (*media.Media, io.ReadCloser, error) {
	m, err := ms.mediaRepository.FetchMediaByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if m.Status != media.StatusAssigned {
		return nil, nil, media.ErrMediaNotFound
	}
	if !m.VisibleTo(viewer) {
		return nil, nil, media.ErrMediaForbidden
	}

	rc, err := ms.blobs.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return m, rc, nil
}

func (ms *MediaService) IsExpired(id media.ID) bool {
	return media.IsExpired(id, ms.ttl, ms.now())
}

func (ms *MediaService) ClaimOne(
	ctx context.Context,
	id media.ID,
	format media.Format,
	claimant uuid.UUID,
) (*media.Media, error) {
	if ms.IsExpired(id) {
		return nil, media.ErrMediaExpired
	}

	m, err := ms.mediaRepository.Claim(ctx, media.WaitingFor(id, format, claimant))
	if err != nil {
		return nil, err
	}

	ms.mCounter.WithLabelValues(metrics.MediaClaimed).Inc()
	emit(ms.mq, ms.mCounter, mq.NewEvent(mq.MediaClaimed, claimant, mediaEvent{MediaID: id, Format: format}))

	return m, nil
}

// ClaimMany claims every target or none. The claim itself is one statement;
// when it matches fewer records than asked for, exactly the ones it did
// match are released again, so media owned by someone else is left alone.
func (ms *MediaService) ClaimMany(ctx context.Context, targets []media.ClaimTarget, claimant uuid.UUID) error {
	if len(targets) == 0 {
		return nil
	}
	if media.HasDuplicates(targets) {
		return media.ErrMediaUnavailable
	}
	for _, t := range targets {
		if ms.IsExpired(t.ID) {
			return media.ErrMediaExpired
		}
	}

	claimed, err := ms.mediaRepository.ClaimMany(ctx, media.Filters(targets, claimant))
	if err != nil {
		return err
	}

	if len(claimed) != len(targets) {
		ms.mCounter.WithLabelValues(metrics.MediaClaimRollbacks).Inc()
		if err = ms.mediaRepository.Unclaim(context.WithoutCancel(ctx), claimed...); err != nil {
			ms.logger.Error("claim rollback failed", zap.Error(err), zap.Int("claimed", len(claimed)))
			return errors.Join(media.ErrMediaUnavailable, err)
		}
		return media.ErrMediaUnavailable
	}

	ms.mCounter.WithLabelValues(metrics.MediaClaimed).Add(float64(len(claimed)))
	for _, t := range targets {
		emit(ms.mq, ms.mCounter, mq.NewEvent(mq.MediaClaimed, claimant, mediaEvent{MediaID: t.ID, Format: t.Format}))
	}

	return nil
}

func (ms *MediaService) SetVisibility(ctx context.Context, v media.Visibility, ids ...media.ID) error {
	return ms.mediaRepository.SetVisibility(ctx, v, ids...)
}

// DeleteCascade removes the media owned by something that is being deleted.
// Blob failures are logged and skipped; a leftover blob without a record is
// harmless. Record failures do not stop the remaining deletions and are all
// returned.
func (ms *MediaService) DeleteCascade(ctx context.Context, owner media.Owner) error {
	switch owner.Kind {
	case media.OwnerPost, media.OwnerAvatar:
		return ms.deleteEach(ctx, owner)
	case media.OwnerUser:
		return ms.deleteUploads(ctx, owner)
	default:
		return fmt.Errorf("%w: %q", media.ErrInvalidOwner, owner.Kind)
	}
}

func (ms *MediaService) deleteEach(ctx context.Context, owner media.Owner) error {
	var errs []error
	for _, id := range owner.Media {
		if id == uuid.Nil {
			continue
		}
		ms.deleteBlob(ctx, id, owner)

		if err := ms.mediaRepository.DeleteMedia(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete media %s: %w", id, err))
			continue
		}
		ms.mCounter.WithLabelValues(metrics.MediaDeleted).Inc()
		emit(ms.mq, ms.mCounter, mq.NewEvent(mq.MediaDeleted, owner.ID, mediaEvent{MediaID: id, Owner: string(owner.Kind)}))
	}

	return errors.Join(errs...)
}

func (ms *MediaService) deleteUploads(ctx context.Context, owner media.Owner) error {
	uploads, err := ms.mediaRepository.FetchMediaByUploader(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("list uploads: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(blobDeleteParallelism)
	for _, m := range uploads {
		g.Go(func() error {
			ms.deleteBlob(gctx, m.ID, owner)
			return nil
		})
	}
	_ = g.Wait()

	n, err := ms.mediaRepository.DeleteMediaByUploader(ctx, owner.ID)
	if err != nil {
		return fmt.Errorf("delete uploads: %w", err)
	}

	ms.mCounter.WithLabelValues(metrics.MediaDeleted).Add(float64(n))
	for _, m := range uploads {
		emit(ms.mq, ms.mCounter, mq.NewEvent(mq.MediaDeleted, owner.ID, mediaEvent{MediaID: m.ID, Owner: string(owner.Kind)}))
	}

	return nil
}

func (ms *MediaService) deleteBlob(ctx context.Context, id media.ID, owner media.Owner) {
	if err := ms.blobs.Delete(ctx, id); err != nil {
		ms.logger.Warn("blob delete failed",
			zap.Stringer("media_id", id),
			zap.String("owner_kind", string(owner.Kind)),
			zap.Stringer("owner_id", owner.ID),
			zap.Error(err),
		)
	}
}
