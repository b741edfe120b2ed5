package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/domain/user"
	"socialmedia-api/internal/infrastructure/metrics"
	"socialmedia-api/internal/infrastructure/mq"
)

func newUserService(f *mediaFixture, users user.Repository, posts post.Repository, sessions *FakeSessionRepository) *UserService {
	return NewUserService(users, posts, sessions, f.repo, f.svc, f.mq, f.counter, zap.NewNop()).(*UserService)
}

func TestUserService_CreateUser(t *testing.T) {
	f := newMediaFixture(t)

	var stored user.User
	us := newUserService(f, &FakeUserRepository{
		CreateUserFunc: func(ctx context.Context, req user.User) (*user.User, error) {
			stored = req
			return &req, nil
		},
	}, &FakePostRepository{}, &FakeSessionRepository{})

	u, err := us.CreateUser(context.Background(), "ann@example.com", "Ann", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.NotEqual(t, "s3cret-pass", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret-pass")))
	assert.Equal(t, []string{mq.UserCreated}, f.mq.actions())
}

func TestUserService_SetAvatar(t *testing.T) {
	owner := uuid.New()

	t.Run("replaces and deletes the previous avatar", func(t *testing.T) {
		f := newMediaFixture(t)
		prev := f.seed(t, owner, media.FormatImage, time.Hour)
		f.repo.items[prev].Status = media.StatusAssigned
		next := f.seed(t, owner, media.FormatImage, time.Second)

		us := newUserService(f, &FakeUserRepository{
			SetAvatarFunc: func(ctx context.Context, id user.UUID, avatar uuid.UUID) (*uuid.UUID, error) {
				return &prev, nil
			},
			FetchUserByIDFunc: func(ctx context.Context, id user.UUID) (*user.User, error) {
				return &user.User{UUID: id, Avatar: &next}, nil
			},
		}, &FakePostRepository{}, &FakeSessionRepository{})

		u, err := us.SetAvatar(context.Background(), owner, next)
		require.NoError(t, err)
		assert.Equal(t, next, *u.Avatar)

		m, ok := f.repo.get(next)
		require.True(t, ok)
		assert.Equal(t, media.StatusAssigned, m.Status)
		assert.Equal(t, media.VisibilityPublic, m.Visibility)
		assert.NotContains(t, f.repo.items, prev)
		assert.False(t, f.blobs.has(prev))
	})

	t.Run("audio cannot be an avatar", func(t *testing.T) {
		f := newMediaFixture(t)
		id := f.seed(t, owner, media.FormatAudio, time.Second)

		us := newUserService(f, &FakeUserRepository{}, &FakePostRepository{}, &FakeSessionRepository{})
		_, err := us.SetAvatar(context.Background(), owner, id)
		require.ErrorIs(t, err, media.ErrMediaNotFound)
	})

	t.Run("failed update releases the claim", func(t *testing.T) {
		f := newMediaFixture(t)
		id := f.seed(t, owner, media.FormatImage, time.Second)

		us := newUserService(f, &FakeUserRepository{
			SetAvatarFunc: func(ctx context.Context, uid user.UUID, avatar uuid.UUID) (*uuid.UUID, error) {
				return nil, user.ErrUserNotFound
			},
		}, &FakePostRepository{}, &FakeSessionRepository{})

		_, err := us.SetAvatar(context.Background(), owner, id)
		require.ErrorIs(t, err, user.ErrUserNotFound)

		m, _ := f.repo.get(id)
		assert.Equal(t, media.StatusWaiting, m.Status)
	})
}

func TestUserService_DeleteUser(t *testing.T) {
	owner := uuid.New()

	t.Run("cascades in order", func(t *testing.T) {
		f := newMediaFixture(t)
		photo := f.seed(t, owner, media.FormatImage, time.Second)
		audio := f.seed(t, owner, media.FormatAudio, time.Second)
		f.seed(t, owner, media.FormatImage, time.Second)
		postID := uuid.New()

		var steps []string
		us := newUserService(f, &FakeUserRepository{
			FetchUserByIDFunc: func(ctx context.Context, id user.UUID) (*user.User, error) {
				return &user.User{UUID: id}, nil
			},
			DeleteUserFunc: func(ctx context.Context, id user.UUID) (*user.User, error) {
				assert.Empty(t, f.repo.items, "media must be gone before the user")
				steps = append(steps, "user")
				return &user.User{UUID: id}, nil
			},
		}, &FakePostRepository{
			FetchPostsByAuthorFunc: func(ctx context.Context, author uuid.UUID) (post.Posts, error) {
				return post.Posts{{ID: postID, Author: author, Photo: photo, Audio: audio}}, nil
			},
			DeletePostFunc: func(ctx context.Context, id post.ID, author uuid.UUID) (*post.Post, error) {
				steps = append(steps, "post")
				return &post.Post{ID: id}, nil
			},
		}, &FakeSessionRepository{
			DeleteUserSessionsFunc: func(ctx context.Context, userID uuid.UUID) (int64, error) {
				steps = append(steps, "sessions")
				return 2, nil
			},
		})

		require.NoError(t, us.DeleteUser(context.Background(), owner))
		assert.Equal(t, []string{"post", "sessions", "user"}, steps)
		assert.Empty(t, f.blobs.data)
		actions := f.mq.actions()
		assert.Contains(t, actions, mq.PostDeleted)
		assert.Contains(t, actions, mq.UserDeleted)
		assert.Equal(t, 1.0, testutil.ToFloat64(f.counter.WithLabelValues(metrics.PostsDeleted)))
		assert.Equal(t, 1.0, testutil.ToFloat64(f.counter.WithLabelValues(metrics.UsersDeleted)))
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newMediaFixture(t)
		us := newUserService(f, &FakeUserRepository{
			FetchUserByIDFunc: func(ctx context.Context, id user.UUID) (*user.User, error) {
				return nil, nil
			},
		}, &FakePostRepository{}, &FakeSessionRepository{})

		require.ErrorIs(t, us.DeleteUser(context.Background(), owner), user.ErrUserNotFound)
	})

	t.Run("post failure keeps the user", func(t *testing.T) {
		f := newMediaFixture(t)
		f.seed(t, owner, media.FormatImage, time.Second)

		us := newUserService(f, &FakeUserRepository{
			FetchUserByIDFunc: func(ctx context.Context, id user.UUID) (*user.User, error) {
				return &user.User{UUID: id}, nil
			},
			DeleteUserFunc: func(ctx context.Context, id user.UUID) (*user.User, error) {
				t.Fatal("user row must survive a failed cascade")
				return nil, nil
			},
		}, &FakePostRepository{
			FetchPostsByAuthorFunc: func(ctx context.Context, author uuid.UUID) (post.Posts, error) {
				return post.Posts{{ID: uuid.New()}}, nil
			},
			DeletePostFunc: func(ctx context.Context, id post.ID, author uuid.UUID) (*post.Post, error) {
				return nil, errors.New("lock timeout")
			},
		}, &FakeSessionRepository{})

		require.ErrorContains(t, us.DeleteUser(context.Background(), owner), "lock timeout")
		assert.Len(t, f.repo.items, 1)
	})
}
