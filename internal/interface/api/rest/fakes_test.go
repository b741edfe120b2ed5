package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"socialmedia-api/internal/application/ports"
	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/domain/session"
	domain "socialmedia-api/internal/domain/user"
	jwtSvc "socialmedia-api/internal/infrastructure/jwt"
)

const testSecret = "test-secret"

type FakeUserService struct {
	FindUserByIDFunc func(ctx context.Context, id domain.UUID) (*domain.User, error)
	FindByEmailFunc  func(ctx context.Context, email string) (*domain.User, error)
	CreateUserFunc   func(ctx context.Context, email, name, password string) (*domain.User, error)
	SetAvatarFunc    func(ctx context.Context, userID domain.UUID, avatar uuid.UUID) (*domain.User, error)
	DeleteUserFunc   func(ctx context.Context, userUUID domain.UUID) error
}

func (f *FakeUserService) FindUserByID(ctx context.Context, id domain.UUID) (*domain.User, error) {
	if f.FindUserByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindUserByIDFunc(ctx, id)
}
func (f *FakeUserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if f.FindByEmailFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindByEmailFunc(ctx, email)
}
func (f *FakeUserService) CreateUser(ctx context.Context, email, name, password string) (*domain.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateUserFunc(ctx, email, name, password)
}
func (f *FakeUserService) SetAvatar(ctx context.Context, userID domain.UUID, avatar uuid.UUID) (*domain.User, error) {
	if f.SetAvatarFunc == nil {
		return nil, errors.New("not used")
	}
	return f.SetAvatarFunc(ctx, userID, avatar)
}
func (f *FakeUserService) DeleteUser(ctx context.Context, userUUID domain.UUID) error {
	if f.DeleteUserFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteUserFunc(ctx, userUUID)
}

type fakeAuthService struct {
	LoginFunc func(ctx context.Context, u *domain.User, password, ip string) (string, error)
}

func (f *fakeAuthService) Authenticate(ctx context.Context, token string) (*ports.Principal, error) {
	return nil, session.ErrInvalidSession
}

func (f *fakeAuthService) Login(ctx context.Context, u *domain.User, password, ip string) (string, error) {
	if f.LoginFunc == nil {
		return "", errors.New("not used")
	}
	return f.LoginFunc(ctx, u, password, ip)
}

type FakeMediaService struct {
	UploadFunc func(ctx context.Context, uploader uuid.UUID, in ports.Upload) (*media.Media, time.Duration, error)
	GetFunc    func(ctx context.Context, id media.ID, viewer *uuid.UUID) (*media.Media, io.ReadCloser, error)
}

func (f *FakeMediaService) Upload(ctx context.Context, uploader uuid.UUID, in ports.Upload) (*media.Media, time.Duration, error) {
	if f.UploadFunc == nil {
		return nil, 0, errors.New("not used")
	}
	return f.UploadFunc(ctx, uploader, in)
}
func (f *FakeMediaService) Get(ctx context.Context, id media.ID, viewer *uuid.UUID) (*media.Media, io.ReadCloser, error) {
	if f.GetFunc == nil {
		return nil, nil, errors.New("not used")
	}
	return f.GetFunc(ctx, id, viewer)
}
func (f *FakeMediaService) IsExpired(media.ID) bool { return false }
func (f *FakeMediaService) ClaimOne(context.Context, media.ID, media.Format, uuid.UUID) (*media.Media, error) {
	return nil, errors.New("not used")
}
func (f *FakeMediaService) ClaimMany(context.Context, []media.ClaimTarget, uuid.UUID) error {
	return errors.New("not used")
}
func (f *FakeMediaService) SetVisibility(context.Context, media.Visibility, ...media.ID) error {
	return errors.New("not used")
}
func (f *FakeMediaService) DeleteCascade(context.Context, media.Owner) error {
	return errors.New("not used")
}

type FakePostService struct {
	CreatePostFunc   func(ctx context.Context, author uuid.UUID, in post.NewPost) (*post.Post, error)
	FindPostByIDFunc func(ctx context.Context, id post.ID) (*post.Post, error)
	DeletePostFunc   func(ctx context.Context, id post.ID, author uuid.UUID) error

	FetchPostsByAuthorFunc func(ctx context.Context, author uuid.UUID, viewer *uuid.UUID, q post.ListQuery) (post.Posts, error)
	UpdateVisibilityFunc   func(ctx context.Context, id post.ID, author uuid.UUID, v media.Visibility) (*post.Post, error)
}

func (f *FakePostService) CreatePost(ctx context.Context, author uuid.UUID, in post.NewPost) (*post.Post, error) {
	if f.CreatePostFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreatePostFunc(ctx, author, in)
}
func (f *FakePostService) FindPostByID(ctx context.Context, id post.ID) (*post.Post, error) {
	if f.FindPostByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindPostByIDFunc(ctx, id)
}
func (f *FakePostService) DeletePost(ctx context.Context, id post.ID, author uuid.UUID) error {
	if f.DeletePostFunc == nil {
		return errors.New("not used")
	}
	return f.DeletePostFunc(ctx, id, author)
}

func (f *FakePostService) FetchPostsByAuthor(ctx context.Context, author uuid.UUID, viewer *uuid.UUID, q post.ListQuery) (post.Posts, error) {
	if f.FetchPostsByAuthorFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchPostsByAuthorFunc(ctx, author, viewer, q)
}
func (f *FakePostService) UpdateVisibility(ctx context.Context, id post.ID, author uuid.UUID, v media.Visibility) (*post.Post, error) {
	if f.UpdateVisibilityFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UpdateVisibilityFunc(ctx, id, author, v)
}

// tokenAuth accepts any well-signed token, as if every session were open.
type tokenAuth struct {
	jwt *jwtSvc.Service
}

func (a *tokenAuth) Authenticate(ctx context.Context, token string) (*ports.Principal, error) {
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return nil, session.ErrInvalidSession
	}
	return &ports.Principal{
		UserID:    uuid.MustParse(claims.UserID),
		SessionID: uuid.MustParse(claims.SessionID),
	}, nil
}

func newEngine(t *testing.T) (*gin.Engine, *tokenAuth) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	return gin.New(), &tokenAuth{jwt: jwtSvc.New(testSecret)}
}

// bearer returns headers authenticating as userID.
func bearer(t *testing.T, a *tokenAuth, userID uuid.UUID) map[string]string {
	t.Helper()

	tok, err := a.jwt.GenerateJWT(userID.String(), uuid.NewString(), time.Hour)
	require.NoError(t, err)

	return map[string]string{"Authorization": "Bearer " + tok}
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch v := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func errorOf(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var resp map[string]any
	_ = json.Unmarshal(rr.Body.Bytes(), &resp)
	s, _ := resp["error"].(string)
	return s
}
