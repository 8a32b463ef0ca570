package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) CreateWithDetails(ctx context.Context, user *domain.User, skills []string, company *domain.CompanyProfile) error {
	return m.Called(ctx, user, skills, company).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) ListExcept(ctx context.Context, id int64) ([]domain.UserWithSkills, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserWithSkills), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) UpdateProfileImage(ctx context.Context, id int64, url string) error {
	return m.Called(ctx, id, url).Error(0)
}

type MockSkillRepo struct {
	mock.Mock
}

func (m *MockSkillRepo) List(ctx context.Context) ([]domain.Skill, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Skill), args.Error(1)
}
func (m *MockSkillRepo) ForUser(ctx context.Context, userID int64) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockSkillRepo) AddToUser(ctx context.Context, userID int64, name string) error {
	return m.Called(ctx, userID, name).Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Generation(ctx context.Context) (int64, bool) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Bool(1)
}
func (m *MockCache) Get(ctx context.Context, gen, userID int64) ([]domain.Suggestion, bool) {
	args := m.Called(ctx, gen, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.Suggestion), args.Bool(1)
}
func (m *MockCache) Set(ctx context.Context, gen, userID int64, suggestions []domain.Suggestion) {
	m.Called(ctx, gen, userID, suggestions)
}
func (m *MockCache) Invalidate(ctx context.Context) {
	m.Called(ctx)
}

// memSuggestionCache is a generation-keyed cache matching the Redis one.
type memSuggestionCache struct {
	mu      sync.Mutex
	gen     int64
	entries map[string][]domain.Suggestion
}

func newMemSuggestionCache() *memSuggestionCache {
	return &memSuggestionCache{entries: map[string][]domain.Suggestion{}}
}

func memCacheKey(gen, userID int64) string { return fmt.Sprintf("%d:%d", gen, userID) }

func (c *memSuggestionCache) Generation(context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, true
}
func (c *memSuggestionCache) Get(_ context.Context, gen, userID int64) ([]domain.Suggestion, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.entries[memCacheKey(gen, userID)]
	return s, ok
}
func (c *memSuggestionCache) Set(_ context.Context, gen, userID int64, suggestions []domain.Suggestion) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memCacheKey(gen, userID)] = suggestions
}
func (c *memSuggestionCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
}

// memMatchRepo keeps match requests in memory with the same pending-pair
// uniqueness and transition rules as the Postgres repository.
type memMatchRepo struct {
	mu     sync.Mutex
	nextID int64
	items  map[int64]*domain.MatchRequest
	names  map[int64]string
	failOn string
}

func newMemMatchRepo(names map[int64]string) *memMatchRepo {
	return &memMatchRepo{items: map[int64]*domain.MatchRequest{}, names: names}
}

var errBoom = errors.New("connection reset")

func (r *memMatchRepo) Insert(_ context.Context, m *domain.MatchRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOn == "Insert" {
		return errBoom
	}
	for _, existing := range r.items {
		if existing.RequesterID == m.RequesterID && existing.ReceiverID == m.ReceiverID && existing.Status == domain.MatchStatusPending {
			return domain.ErrDuplicatePendingMatch
		}
	}
	r.nextID++
	now := time.Now()
	m.ID = r.nextID
	m.Status = domain.MatchStatusPending
	m.CreatedAt, m.UpdatedAt = now, now
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *memMatchRepo) FindPending(_ context.Context, requesterID, receiverID int64) (*domain.MatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.items {
		if m.RequesterID == requesterID && m.ReceiverID == receiverID && m.Status == domain.MatchStatusPending {
			cp := *m
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memMatchRepo) GetByID(_ context.Context, id int64) (*domain.MatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memMatchRepo) ListByReceiver(_ context.Context, receiverID int64, status domain.MatchStatus) ([]domain.MatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.MatchRequest{}
	for id := int64(1); id <= r.nextID; id++ {
		if m, ok := r.items[id]; ok && m.ReceiverID == receiverID && m.Status == status {
			cp := *m
			cp.CounterpartName = r.names[m.RequesterID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *memMatchRepo) ListByRequester(_ context.Context, requesterID int64) ([]domain.MatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.MatchRequest{}
	for id := int64(1); id <= r.nextID; id++ {
		if m, ok := r.items[id]; ok && m.RequesterID == requesterID {
			cp := *m
			cp.CounterpartName = r.names[m.ReceiverID]
			out = append(out, cp)
		}
	}
	return out, nil
}

func (r *memMatchRepo) UpdateStatus(_ context.Context, id int64, status domain.MatchStatus) (*domain.MatchRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if m.Status != domain.MatchStatusPending {
		return nil, domain.ErrMatchNotPending
	}
	m.Status = status
	m.UpdatedAt = m.UpdatedAt.Add(time.Second)
	cp := *m
	return &cp, nil
}

func assertAppError(t *testing.T, err error, kind apperror.Kind, code int) {
	t.Helper()
	require.Error(t, err)
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %T", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, code, appErr.Code)
}

func strPtr(s string) *string { return &s }
