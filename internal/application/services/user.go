package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/domain/session"
	domain "socialmedia-api/internal/domain/user"
	"socialmedia-api/internal/infrastructure/metrics"
	"socialmedia-api/internal/infrastructure/mq"
)

type UserService struct {
	userRepository    domain.Repository
	postRepository    post.Repository
	sessionRepository session.Repository
	mediaRepository   media.Repository
	media             ports.MediaService
	mq                ports.RabbitMQ
	mCounter          *prometheus.CounterVec
	logger            *zap.Logger
}

func NewUserService(
	userRepository domain.Repository,
	postRepository post.Repository,
	sessionRepository session.Repository,
	mediaRepository media.Repository,
	mediaService ports.MediaService,
	mq ports.RabbitMQ,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.UserService {
	return &UserService{
		userRepository:    userRepository,
		postRepository:    postRepository,
		sessionRepository: sessionRepository,
		mediaRepository:   mediaRepository,
		media:             mediaService,
		mq:                mq,
		mCounter:          mCounter,
		logger:            logger,
	}
}

func (us *UserService) FindUserByID(ctx context.Context, uuid domain.UUID) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByID(ctx, uuid)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (us *UserService) CreateUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}

	u, err := us.userRepository.CreateUser(ctx, domain.User{
		UUID:         id,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
	})
	if err != nil {
		return nil, err
	}

	us.mCounter.WithLabelValues(metrics.UsersCreated).Inc()
	emit(us.mq, us.mCounter, mq.NewEvent(mq.UserCreated, u.UUID, userEvent{UserID: u.UUID}))

	return u, nil
}

// SetAvatar claims avatar as an image of userID and makes it public. The
// avatar it replaces is deleted.
func (us *UserService) SetAvatar(ctx context.Context, userID domain.UUID, avatar uuid.UUID) (*domain.User, error) {
	if _, err := us.media.ClaimOne(ctx, avatar, media.FormatImage, userID); err != nil {
		return nil, err
	}

	prev, err := us.userRepository.SetAvatar(ctx, userID, avatar)
	if err != nil {
		if uerr := us.mediaRepository.Unclaim(context.WithoutCancel(ctx), avatar); uerr != nil {
			us.logger.Error("avatar claim rollback failed", zap.Stringer("media_id", avatar), zap.Error(uerr))
		}
		return nil, err
	}

	if err = us.media.SetVisibility(ctx, media.VisibilityPublic, avatar); err != nil {
		us.logger.Warn("failed to publish avatar", zap.Stringer("media_id", avatar), zap.Error(err))
	}

	if prev != nil && *prev != avatar {
		if err = us.media.DeleteCascade(ctx, media.Owner{
			Kind:  media.OwnerAvatar,
			ID:    userID,
			Media: []media.ID{*prev},
		}); err != nil {
			us.logger.Warn("failed to delete replaced avatar", zap.Stringer("media_id", *prev), zap.Error(err))
		}
	}

	return us.userRepository.FetchUserByID(ctx, userID)
}

// DeleteUser removes the user's posts, every media they uploaded, their
// sessions and finally the user. Any failure stops before the user row goes,
// so the call can simply be retried.
func (us *UserService) DeleteUser(ctx context.Context, userID domain.UUID) error {
	u, err := us.userRepository.FetchUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrUserNotFound
	}

	posts, err := us.postRepository.FetchPostsByAuthor(ctx, userID)
	if err != nil {
		return fmt.Errorf("list posts: %w", err)
	}
	for _, p := range posts {
		if _, err = us.postRepository.DeletePost(ctx, p.ID, userID); err != nil {
			return fmt.Errorf("delete post %s: %w", p.ID, err)
		}
		// the uploads cascade below removes the post media
		us.mCounter.WithLabelValues(metrics.PostsDeleted).Inc()
		emit(us.mq, us.mCounter, mq.NewEvent(mq.PostDeleted, userID, postEvent{PostID: p.ID, Media: p.Media()}))
	}

	if err = us.media.DeleteCascade(ctx, media.Owner{Kind: media.OwnerUser, ID: userID}); err != nil {
		return err
	}

	if _, err = us.sessionRepository.DeleteUserSessions(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}

	deleted, err := us.userRepository.DeleteUser(ctx, userID)
	if err != nil {
		return err
	}
	if deleted == nil {
		return domain.ErrUserNotFound
	}

	us.mCounter.WithLabelValues(metrics.UsersDeleted).Inc()
	emit(us.mq, us.mCounter, mq.NewEvent(mq.UserDeleted, userID, userEvent{UserID: userID}))

	return nil
}
