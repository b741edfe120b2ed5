package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"socialmedia-api/config"
	"socialmedia-api/internal/domain/media"
	"socialmedia-api/internal/domain/post"
	"socialmedia-api/internal/domain/session"
	"socialmedia-api/internal/domain/user"
	"socialmedia-api/internal/infrastructure/inspect"
	"socialmedia-api/internal/infrastructure/metrics"
	"socialmedia-api/internal/infrastructure/mq"
)

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)
	mp3Bytes = append([]byte("ID3\x03\x00\x00\x00\x00\x00\x00"), make([]byte, 64)...)
)

// memMediaRepo applies every statement under one lock, which gives the same
// per-statement atomicity the database does.
type memMediaRepo struct {
	mu    sync.Mutex
	items map[media.ID]*media.Media

	referenced map[media.ID]bool
	deleteErr  map[media.ID]error
	claimErr      error
	unclaimErr    error
	visibilityErr error

	claimCalls int
	listCalls  int
	unclaimed  [][]media.ID
}

func newMemMediaRepo() *memMediaRepo {
	return &memMediaRepo{
		items:      map[media.ID]*media.Media{},
		referenced: map[media.ID]bool{},
		deleteErr:  map[media.ID]error{},
	}
}

func (r *memMediaRepo) put(m media.Media) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m.Status == "" {
		m.Status = media.StatusWaiting
	}
	if m.Visibility == "" {
		m.Visibility = media.VisibilityPrivate
	}
	r.items[m.ID] = &m
}

func (r *memMediaRepo) get(id media.ID) (media.Media, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return media.Media{}, false
	}
	return *m, true
}

func (r *memMediaRepo) matches(f media.ClaimFilter) (*media.Media, bool) {
	m, ok := r.items[f.ID]
	if !ok || m.Format != f.Format || m.Status != f.Status || m.UploadedBy != f.Owner {
		return nil, false
	}
	return m, true
}

func (r *memMediaRepo) CreateMedia(ctx context.Context, req *media.Media) (*media.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := *req
	m.Status = media.StatusWaiting
	m.Visibility = media.VisibilityPrivate
	r.items[m.ID] = &m
	out := m
	return &out, nil
}

func (r *memMediaRepo) FetchMediaByID(ctx context.Context, id media.ID) (*media.Media, error) {
	m, ok := r.get(id)
	if !ok {
		return nil, media.ErrMediaNotFound
	}
	return &m, nil
}

func (r *memMediaRepo) FetchMediaByUploader(ctx context.Context, uploader uuid.UUID) (media.MediaList, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out media.MediaList
	for _, m := range r.items {
		if m.UploadedBy == uploader {
			c := *m
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memMediaRepo) Claim(ctx context.Context, f media.ClaimFilter) (*media.Media, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claimCalls++
	if r.claimErr != nil {
		return nil, r.claimErr
	}
	m, ok := r.matches(f)
	if !ok {
		return nil, media.ErrMediaNotFound
	}
	m.Status = media.StatusAssigned
	out := *m
	return &out, nil
}

func (r *memMediaRepo) ClaimMany(ctx context.Context, fs []media.ClaimFilter) ([]media.ID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.claimCalls++
	if r.claimErr != nil {
		return nil, r.claimErr
	}
	var ids []media.ID
	for _, f := range fs {
		if m, ok := r.matches(f); ok {
			m.Status = media.StatusAssigned
			ids = append(ids, m.ID)
		}
	}
	return ids, nil
}

func (r *memMediaRepo) Unclaim(ctx context.Context, ids ...media.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unclaimed = append(r.unclaimed, ids)
	if r.unclaimErr != nil {
		return r.unclaimErr
	}
	for _, id := range ids {
		if m, ok := r.items[id]; ok {
			m.Status = media.StatusWaiting
		}
	}
	return nil
}

func (r *memMediaRepo) SetVisibility(ctx context.Context, v media.Visibility, ids ...media.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.visibilityErr != nil {
		return r.visibilityErr
	}
	for _, id := range ids {
		if m, ok := r.items[id]; ok {
			m.Visibility = v
		}
	}
	return nil
}

func (r *memMediaRepo) DeleteMedia(ctx context.Context, id media.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.deleteErr[id]; err != nil {
		return err
	}
	delete(r.items, id)
	return nil
}

func (r *memMediaRepo) DeleteMediaByUploader(ctx context.Context, uploader uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, m := range r.items {
		if m.UploadedBy == uploader {
			delete(r.items, id)
			n++
		}
	}
	return n, nil
}

func (r *memMediaRepo) selectRange(status media.Status, after, before media.ID, limit int, keep func(media.ID) bool) []media.ID {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	var ids []media.ID
	for id, m := range r.items {
		if m.Status == status && bytes.Compare(id[:], after[:]) > 0 && bytes.Compare(id[:], before[:]) < 0 && keep(id) {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids
}

func (r *memMediaRepo) FetchExpiredWaiting(ctx context.Context, after, before media.ID, limit int) ([]media.ID, error) {
	return r.selectRange(media.StatusWaiting, after, before, limit, func(media.ID) bool { return true }), nil
}

func (r *memMediaRepo) DeleteWaiting(ctx context.Context, id media.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.deleteErr[id]; err != nil {
		return false, err
	}
	m, ok := r.items[id]
	if !ok || m.Status != media.StatusWaiting {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *memMediaRepo) FetchUnreferencedAssigned(ctx context.Context, after, before media.ID, limit int) ([]media.ID, error) {
	return r.selectRange(media.StatusAssigned, after, before, limit, func(id media.ID) bool { return !r.referenced[id] }), nil
}

func (r *memMediaRepo) DeleteUnreferenced(ctx context.Context, id media.ID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok || m.Status != media.StatusAssigned || r.referenced[id] {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type memBlobs struct {
	mu        sync.Mutex
	data      map[media.ID][]byte
	putErr    error
	deleteErr map[media.ID]error
	deletes   int
}

func newMemBlobs() *memBlobs {
	return &memBlobs{data: map[media.ID][]byte{}, deleteErr: map[media.ID]error{}}
}

func (b *memBlobs) has(id media.ID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.data[id]
	return ok
}

func (b *memBlobs) Put(ctx context.Context, id media.ID, r io.Reader, size int64, contentType string) error {
	if b.putErr != nil {
		return b.putErr
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[id] = body
	return nil
}

func (b *memBlobs) Open(ctx context.Context, id media.ID) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	body, ok := b.data[id]
	if !ok {
		return nil, media.ErrMediaNotFound
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (b *memBlobs) Delete(ctx context.Context, id media.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes++
	if err := b.deleteErr[id]; err != nil {
		return err
	}
	delete(b.data, id)
	return nil
}

func (b *memBlobs) Key(id media.ID) string { return media.BlobKey(id) }

type fakeMQ struct {
	in chan mq.Event
}

func newFakeMQ(size int) *fakeMQ { return &fakeMQ{in: make(chan mq.Event, size)} }

func (f *fakeMQ) Connect(ctx context.Context, dsn string) error { return nil }
func (f *fakeMQ) Init() error                                    { return nil }
func (f *fakeMQ) PublisherWorker(ctx context.Context)            {}
func (f *fakeMQ) GetInputChan() chan mq.Event                    { return f.in }
func (f *fakeMQ) GetConn() *amqp091.Connection                   { return nil }

func (f *fakeMQ) actions() []string {
	var out []string
	for {
		select {
		case e := <-f.in:
			out = append(out, e.Action)
		default:
			return out
		}
	}
}

type FakePostRepository struct {
	CreatePostFunc         func(ctx context.Context, req *post.Post) (*post.Post, error)
	FetchPostByIDFunc      func(ctx context.Context, id post.ID) (*post.Post, error)
	FetchPostsByAuthorFunc func(ctx context.Context, author uuid.UUID) (post.Posts, error)
	ListPostsByAuthorFunc  func(ctx context.Context, author uuid.UUID, q post.ListQuery) (post.Posts, error)
	UpdateVisibilityFunc   func(ctx context.Context, id post.ID, author uuid.UUID, v media.Visibility) (*post.Post, error)
	DeletePostFunc         func(ctx context.Context, id post.ID, author uuid.UUID) (*post.Post, error)
}

func (f *FakePostRepository) CreatePost(ctx context.Context, req *post.Post) (*post.Post, error) {
	if f.CreatePostFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreatePostFunc(ctx, req)
}
func (f *FakePostRepository) FetchPostByID(ctx context.Context, id post.ID) (*post.Post, error) {
	if f.FetchPostByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchPostByIDFunc(ctx, id)
}
func (f *FakePostRepository) FetchPostsByAuthor(ctx context.Context, author uuid.UUID) (post.Posts, error) {
	if f.FetchPostsByAuthorFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchPostsByAuthorFunc(ctx, author)
}
func (f *FakePostRepository) ListPostsByAuthor(ctx context.Context, author uuid.UUID, q post.ListQuery) (post.Posts, error) {
	if f.ListPostsByAuthorFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListPostsByAuthorFunc(ctx, author, q)
}
func (f *FakePostRepository) UpdateVisibility(ctx context.Context, id post.ID, author uuid.UUID, v media.Visibility) (*post.Post, error) {
	if f.UpdateVisibilityFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UpdateVisibilityFunc(ctx, id, author, v)
}
func (f *FakePostRepository) DeletePost(ctx context.Context, id post.ID, author uuid.UUID) (*post.Post, error) {
	if f.DeletePostFunc == nil {
		return nil, errors.New("not used")
	}
	return f.DeletePostFunc(ctx, id, author)
}

type FakeUserRepository struct {
	FetchUserByIDFunc    func(ctx context.Context, id user.UUID) (*user.User, error)
	FetchUserByEmailFunc func(ctx context.Context, email string) (*user.User, error)
	CreateUserFunc       func(ctx context.Context, req user.User) (*user.User, error)
	SetAvatarFunc        func(ctx context.Context, id user.UUID, avatar uuid.UUID) (*uuid.UUID, error)
	DeleteUserFunc       func(ctx context.Context, id user.UUID) (*user.User, error)
}

func (f *FakeUserRepository) FetchUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	if f.FetchUserByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchUserByIDFunc(ctx, id)
}
func (f *FakeUserRepository) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if f.FetchUserByEmailFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FetchUserByEmailFunc(ctx, email)
}
func (f *FakeUserRepository) CreateUser(ctx context.Context, req user.User) (*user.User, error) {
	if f.CreateUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateUserFunc(ctx, req)
}
func (f *FakeUserRepository) SetAvatar(ctx context.Context, id user.UUID, avatar uuid.UUID) (*uuid.UUID, error) {
	if f.SetAvatarFunc == nil {
		return nil, errors.New("not used")
	}
	return f.SetAvatarFunc(ctx, id, avatar)
}
func (f *FakeUserRepository) DeleteUser(ctx context.Context, id user.UUID) (*user.User, error) {
	if f.DeleteUserFunc == nil {
		return nil, errors.New("not used")
	}
	return f.DeleteUserFunc(ctx, id)
}

type FakeSessionRepository struct {
	CreateSessionFunc      func(ctx context.Context, req session.Session) (*session.Session, error)
	SessionExistsFunc      func(ctx context.Context, id, userID uuid.UUID) (bool, error)
	DeleteUserSessionsFunc func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (f *FakeSessionRepository) CreateSession(ctx context.Context, req session.Session) (*session.Session, error) {
	if f.CreateSessionFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateSessionFunc(ctx, req)
}
func (f *FakeSessionRepository) SessionExists(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	if f.SessionExistsFunc == nil {
		return false, errors.New("not used")
	}
	return f.SessionExistsFunc(ctx, id, userID)
}
func (f *FakeSessionRepository) DeleteUserSessions(ctx context.Context, userID uuid.UUID) (int64, error) {
	if f.DeleteUserSessionsFunc == nil {
		return 0, errors.New("not used")
	}
	return f.DeleteUserSessionsFunc(ctx, userID)
}

type mediaFixture struct {
	svc     *MediaService
	repo    *memMediaRepo
	blobs   *memBlobs
	mq      *fakeMQ
	counter *prometheus.CounterVec
	clock   time.Time
}

func newMediaFixture(t *testing.T) *mediaFixture {
	t.Helper()

	f := &mediaFixture{
		repo:    newMemMediaRepo(),
		blobs:   newMemBlobs(),
		mq:      newFakeMQ(256),
		counter: metrics.NewUnregisteredCounter(),
		clock:   time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	f.svc = &MediaService{
		mediaRepository: f.repo,
		blobs:           f.blobs,
		inspector:       inspect.New(),
		mq:              f.mq,
		mCounter:        f.counter,
		logger:          zap.NewNop(),
		ttl:             time.Minute,
		maxSize:         1 << 20,
		now:             func() time.Time { return f.clock },
	}

	return f
}

func mediaConfig() config.Media {
	return config.Media{
		TTL:         time.Minute,
		OrphanGrace: time.Hour,
		SweepEvery:  time.Minute,
		SweepBatch:  100,
		MaxSize:     1 << 20,
	}
}

// seed stores a waiting media created `age` before the fixture clock.
func (f *mediaFixture) seed(t *testing.T, owner uuid.UUID, format media.Format, age time.Duration) media.ID {
	t.Helper()

	id, err := media.NewID(f.clock.Add(-age))
	require.NoError(t, err)
	f.repo.put(media.Media{ID: id, UploadedBy: owner, Format: format})
	f.blobs.data[id] = []byte("blob")

	return id
}
