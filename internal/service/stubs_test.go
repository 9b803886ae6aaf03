package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"agora/internal/clients"
	"agora/internal/models"
	"agora/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn     func(context.Context, *models.Post) error
	getByIDFn    func(context.Context, string) (*models.Post, error)
	listByUserFn func(context.Context, string) ([]models.Post, error)
	editFn       func(context.Context, string, models.PostPatch) (*models.Post, error)
	likeFn       func(context.Context, string) (*models.Post, error)
	dislikeFn    func(context.Context, string) (*models.Post, error)
	deleteFn     func(context.Context, string) error
	topFn        func(context.Context, repository.RankMetric, int) ([]models.Post, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id string) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *postRepoStub) Edit(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	return s.editFn(ctx, id, patch)
}
func (s *postRepoStub) IncrementLikes(ctx context.Context, id string) (*models.Post, error) {
	return s.likeFn(ctx, id)
}
func (s *postRepoStub) IncrementDislikes(ctx context.Context, id string) (*models.Post, error) {
	return s.dislikeFn(ctx, id)
}
func (s *postRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) Top(ctx context.Context, metric repository.RankMetric, limit int) ([]models.Post, error) {
	return s.topFn(ctx, metric, limit)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:     func(_ context.Context, p *models.Post) error { p.ID = "p-new"; return nil },
		getByIDFn:    func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listByUserFn: func(_ context.Context, _ string) ([]models.Post, error) { return []models.Post{}, nil },
		editFn:       func(_ context.Context, id string, _ models.PostPatch) (*models.Post, error) { return &models.Post{ID: id}, nil },
		likeFn:       func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id, Likes: 1}, nil },
		dislikeFn:    func(_ context.Context, id string) (*models.Post, error) { return &models.Post{ID: id, Dislikes: 1}, nil },
		deleteFn:     func(_ context.Context, _ string) error { return nil },
		topFn:        func(_ context.Context, _ repository.RankMetric, _ int) ([]models.Post, error) { return nil, nil },
	}
}

// forbidPostWrites makes every mutating store call fail the test.
func forbidPostWrites(t *testing.T, repo *postRepoStub) {
	t.Helper()
	repo.createFn = func(context.Context, *models.Post) error {
		t.Error("unexpected Create")
		return nil
	}
	repo.editFn = func(context.Context, string, models.PostPatch) (*models.Post, error) {
		t.Error("unexpected Edit")
		return nil, nil
	}
	repo.deleteFn = func(context.Context, string) error {
		t.Error("unexpected Delete")
		return nil
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn        func(context.Context, *models.Comment) error
	getByIDFn       func(context.Context, string) (*models.Comment, error)
	listByUserFn    func(context.Context, string) ([]models.Comment, error)
	listByPostFn    func(context.Context, string) ([]models.Comment, error)
	editFn          func(context.Context, string, models.CommentPatch) (*models.Comment, error)
	likeFn          func(context.Context, string) (*models.Comment, error)
	dislikeFn       func(context.Context, string) (*models.Comment, error)
	deleteFn        func(context.Context, string) error
	topFn           func(context.Context, repository.RankMetric, int) ([]models.Comment, error)
	topCommentersFn func(context.Context, int) ([]models.TopCommenter, error)
}

func (s *commentRepoStub) Create(ctx context.Context, c *models.Comment) error {
	return s.createFn(ctx, c)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByUser(ctx context.Context, userID string) ([]models.Comment, error) {
	return s.listByUserFn(ctx, userID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Edit(ctx context.Context, id string, patch models.CommentPatch) (*models.Comment, error) {
	return s.editFn(ctx, id, patch)
}
func (s *commentRepoStub) IncrementLikes(ctx context.Context, id string) (*models.Comment, error) {
	return s.likeFn(ctx, id)
}
func (s *commentRepoStub) IncrementDislikes(ctx context.Context, id string) (*models.Comment, error) {
	return s.dislikeFn(ctx, id)
}
func (s *commentRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) Top(ctx context.Context, metric repository.RankMetric, limit int) ([]models.Comment, error) {
	return s.topFn(ctx, metric, limit)
}
func (s *commentRepoStub) TopCommenters(ctx context.Context, limit int) ([]models.TopCommenter, error) {
	return s.topCommentersFn(ctx, limit)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:        func(_ context.Context, c *models.Comment) error { c.ID = "c-new"; return nil },
		getByIDFn:       func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByUserFn:    func(_ context.Context, _ string) ([]models.Comment, error) { return []models.Comment{}, nil },
		listByPostFn:    func(_ context.Context, _ string) ([]models.Comment, error) { return []models.Comment{}, nil },
		editFn:          func(_ context.Context, id string, _ models.CommentPatch) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		likeFn:          func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		dislikeFn:       func(_ context.Context, id string) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		deleteFn:        func(_ context.Context, _ string) error { return nil },
		topFn:           func(_ context.Context, _ repository.RankMetric, _ int) ([]models.Comment, error) { return nil, nil },
		topCommentersFn: func(_ context.Context, _ int) ([]models.TopCommenter, error) { return nil, nil },
	}
}

func forbidCommentWrites(t *testing.T, repo *commentRepoStub) {
	t.Helper()
	repo.createFn = func(context.Context, *models.Comment) error {
		t.Error("unexpected Create")
		return nil
	}
	repo.editFn = func(context.Context, string, models.CommentPatch) (*models.Comment, error) {
		t.Error("unexpected Edit")
		return nil, nil
	}
	repo.deleteFn = func(context.Context, string) error {
		t.Error("unexpected Delete")
		return nil
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn          func(context.Context, *models.User) error
	getByIDFn         func(context.Context, string) (*models.User, error)
	getByUsernameFn   func(context.Context, string) (*models.User, error)
	updateFn          func(context.Context, string, models.UserPatch) (*models.User, error)
	adjustFollowersFn func(context.Context, string, int) (*models.User, error)
	adjustCounterFn   func(context.Context, string, models.UserCounter, int) (*models.User, error)
	deleteFn          func(context.Context, string) error
	topByPostsFn      func(context.Context, int) ([]models.User, error)
	topByFollowersFn  func(context.Context, int) ([]models.User, error)
}

func (s *userRepoStub) Create(ctx context.Context, u *models.User) error {
	return s.createFn(ctx, u)
}
func (s *userRepoStub) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	return s.updateFn(ctx, id, patch)
}
func (s *userRepoStub) AdjustFollowers(ctx context.Context, id string, delta int) (*models.User, error) {
	return s.adjustFollowersFn(ctx, id, delta)
}
func (s *userRepoStub) AdjustCounter(ctx context.Context, id string, counter models.UserCounter, delta int) (*models.User, error) {
	return s.adjustCounterFn(ctx, id, counter, delta)
}
func (s *userRepoStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) TopByPosts(ctx context.Context, limit int) ([]models.User, error) {
	return s.topByPostsFn(ctx, limit)
}
func (s *userRepoStub) TopByFollowers(ctx context.Context, limit int) ([]models.User, error) {
	return s.topByFollowersFn(ctx, limit)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:          func(_ context.Context, u *models.User) error { u.ID = "u-new"; return nil },
		getByIDFn:         func(_ context.Context, id string) (*models.User, error) { return &models.User{ID: id}, nil },
		getByUsernameFn:   func(_ context.Context, name string) (*models.User, error) { return nil, models.NewNotFoundError("User", name) },
		updateFn:          func(_ context.Context, id string, _ models.UserPatch) (*models.User, error) { return &models.User{ID: id}, nil },
		adjustFollowersFn: func(_ context.Context, id string, _ int) (*models.User, error) { return &models.User{ID: id}, nil },
		adjustCounterFn:   func(_ context.Context, id string, _ models.UserCounter, _ int) (*models.User, error) { return &models.User{ID: id}, nil },
		deleteFn:          func(_ context.Context, _ string) error { return nil },
		topByPostsFn:      func(_ context.Context, _ int) ([]models.User, error) { return nil, nil },
		topByFollowersFn:  func(_ context.Context, _ int) ([]models.User, error) { return nil, nil },
	}
}

type counterCall struct {
	UserID  string
	Counter models.UserCounter
	Delta   int
}

// userGatewayStub answers lookups from a fixed table and records counter calls.
type userGatewayStub struct {
	mu         sync.Mutex
	users      map[string]models.User
	down       error
	lookups    []string
	counters   []counterCall
	counterErr error
}

func newUserGateway(ids ...string) *userGatewayStub {
	g := &userGatewayStub{users: map[string]models.User{}}
	for _, id := range ids {
		g.users[id] = models.User{ID: id, Username: "user-" + id, Active: true}
	}
	return g
}

func (g *userGatewayStub) Lookup(_ context.Context, userID string) clients.UserLookup {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups = append(g.lookups, userID)
	if g.down != nil {
		return clients.UserLookup{Status: clients.LookupUnavailable, Err: g.down}
	}
	u, ok := g.users[userID]
	if !ok {
		return clients.UserLookup{Status: clients.LookupNotFound}
	}
	return clients.UserLookup{Status: clients.LookupFound, User: &u}
}

func (g *userGatewayStub) AdjustCounter(_ context.Context, userID string, counter models.UserCounter, delta int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counters = append(g.counters, counterCall{UserID: userID, Counter: counter, Delta: delta})
	return g.counterErr
}

type postDirStub struct {
	posts map[string]bool
	down  error
}

func (s postDirStub) Lookup(_ context.Context, postID string) clients.PostLookup {
	if s.down != nil {
		return clients.PostLookup{Status: clients.LookupUnavailable, Err: s.down}
	}
	if !s.posts[postID] {
		return clients.PostLookup{Status: clients.LookupNotFound}
	}
	return clients.PostLookup{Status: clients.LookupFound, Post: &models.Post{ID: postID}}
}

type deleteCall struct {
	UserID    string
	CommentID string
}

// commentDirStub is a stub for CommentDirectory.
type commentDirStub struct {
	listFn   func(context.Context, string) ([]models.Comment, error)
	deleteFn func(context.Context, string, string) error
	deletes  []deleteCall
}

func (s *commentDirStub) ListByPost(ctx context.Context, postID string) ([]models.Comment, error) {
	return s.listFn(ctx, postID)
}

func (s *commentDirStub) Delete(ctx context.Context, userID, commentID string) error {
	s.deletes = append(s.deletes, deleteCall{UserID: userID, CommentID: commentID})
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, userID, commentID)
}

type verifierStub struct {
	result clients.Verification
	got    []byte
}

func (s *verifierStub) Verify(_ context.Context, credentials []byte) clients.Verification {
	s.got = credentials
	return s.result
}

type probeStub struct {
	name   string
	result clients.Probe
	calls  int
}

func (p *probeStub) Name() string { return p.name }

func (p *probeStub) Check(context.Context) clients.Probe {
	p.calls++
	res := p.result
	res.Name = p.name
	if res.Elapsed == 0 {
		res.Elapsed = 3 * time.Millisecond
	}
	return res
}

var errDown = errors.New("connection refused")

// assertCode asserts that err is an AppError with the given code.
func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
