package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/infrastructure/metrics"
	"socialmedia-api/internal/infrastructure/mq"
)

type PostService struct {
	postRepository post.Repository
	media          ports.MediaService
	mq             ports.RabbitMQ
	mCounter       *prometheus.CounterVec
	logger         *zap.Logger
	now            func() time.Time
}

func NewPostService(
	postRepository post.Repository,
	media ports.MediaService,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.PostService {
	return &PostService{
		postRepository: postRepository,
		media:          media,
		mq:             mq,
		mCounter:       mCounter,
		logger:         logger,
		now:            time.Now,
	}
}

func (ps *PostService) CreatePost(ctx context.Context, author uuid.UUID, in post.NewPost) (*post.Post, error) {
	if errs := in.Validate(); errs != nil {
		return nil, fmt.Errorf("%w: %v", post.ErrInvalidPost, errs)
	}
	if in.Visibility == "" {
		in.Visibility = media.VisibilityPrivate
	}

	if err := ps.media.ClaimMany(ctx, in.Targets(), author); err != nil {
		return nil, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	p, err := ps.postRepository.CreatePost(ctx, &post.Post{
		ID:         id,
		Author:     author,
		Title:      in.Title,
		Caption:    in.Caption,
		Photo:      in.Photo,
		Audio:      in.Audio,
		Visibility: in.Visibility,
		CreatedAt:  ps.now().UTC(),
	})
	if err != nil {
		// The insert may have committed even though it reported an error, so
		// the media stays claimed. If no post references it, the orphan sweep
		// collects it.
		ps.logger.Error("post insert failed after claim",
			zap.Stringer("photo", in.Photo),
			zap.Stringer("audio", in.Audio),
			zap.Error(err),
		)
		return nil, err
	}

	if p.Visibility == media.VisibilityPublic {
		if err = ps.media.SetVisibility(ctx, media.VisibilityPublic, p.Media()...); err != nil {
			ps.logger.Warn("failed to publish post media", zap.Stringer("post_id", p.ID), zap.Error(err))
		}
	}

	ps.mCounter.WithLabelValues(metrics.PostsCreated).Inc()
	emit(ps.mq, ps.mCounter, mq.NewEvent(mq.PostCreated, author, postEvent{PostID: p.ID, Media: p.Media()}))

	return p, nil
}

func (ps *PostService) FindPostByID(ctx context.Context, id post.ID) (*post.Post, error) {
	return ps.postRepository.FetchPostByID(ctx, id)
}

// FetchPostsByAuthor pages through author's posts; private ones are only
// listed for the author.
func (ps *PostService) FetchPostsByAuthor(
	ctx context.Context,
	author uuid.UUID,
	viewer *uuid.UUID,
	q post.ListQuery,
) (post.Posts, error) {
	q = q.Normalize(ps.now().UTC())
	q.IncludePrivate = viewer != nil && *viewer == author

	return ps.postRepository.ListPostsByAuthor(ctx, author, q)
}

// UpdateVisibility changes who can see the post and its media. The post row
// goes first; media visibility follows and is safe to retry.
func (ps *PostService) UpdateVisibility(
	ctx context.Context,
	id post.ID,
	author uuid.UUID,
	v media.Visibility,
) (*post.Post, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: visibility must be private or public", post.ErrInvalidPost)
	}

	p, err := ps.postRepository.UpdateVisibility(ctx, id, author, v)
	if err != nil {
		return nil, err
	}

	if err = ps.media.SetVisibility(ctx, v, p.Media()...); err != nil {
		return nil, fmt.Errorf("set media visibility: %w", err)
	}

	ps.mCounter.WithLabelValues(metrics.PostsUpdated).Inc()
	emit(ps.mq, ps.mCounter, mq.NewEvent(mq.PostUpdated, author, postEvent{PostID: p.ID, Media: p.Media()}))

	return p, nil
}

// DeletePost removes the post if author wrote it, then everything attached
// to it.
func (ps *PostService) DeletePost(ctx context.Context, id post.ID, author uuid.UUID) error {
	p, err := ps.postRepository.DeletePost(ctx, id, author)
	if err != nil {
		return err
	}

	if err = ps.media.DeleteCascade(ctx, media.Owner{
		Kind:  media.OwnerPost,
		ID:    p.ID,
		Media: p.Media(),
	}); err != nil {
		return err
	}

	ps.mCounter.WithLabelValues(metrics.PostsDeleted).Inc()
	emit(ps.mq, ps.mCounter, mq.NewEvent(mq.PostDeleted, author, postEvent{PostID: p.ID, Media: p.Media()}))

	return nil
}
