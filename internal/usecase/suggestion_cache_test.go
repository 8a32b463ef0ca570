package usecase_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/internal/usecase"
	"lion-connect-backend/pkg/auth"
	"lion-connect-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memDirectory serves both users and their skills so that writes made through
// one usecase are visible to another.
type memDirectory struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	skills map[int64][]string
}

func newMemDirectory() *memDirectory {
	return &memDirectory{users: map[int64]*domain.User{}, skills: map[int64][]string{}}
}

func (d *memDirectory) add(name string, skills ...string) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	d.users[d.nextID] = &domain.User{ID: d.nextID, Name: name, UserType: domain.UserTypeStudent}
	d.skills[d.nextID] = skills
	return d.nextID
}

func (d *memDirectory) CreateWithDetails(_ context.Context, user *domain.User, skills []string, _ *domain.CompanyProfile) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	user.ID = d.nextID
	cp := *user
	d.users[user.ID] = &cp
	d.skills[user.ID] = append([]string(nil), skills...)
	return nil
}

func (d *memDirectory) GetByID(_ context.Context, id int64) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (d *memDirectory) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (d *memDirectory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := d.GetByEmail(ctx, email)
	return err == nil, nil
}

func (d *memDirectory) ListExcept(_ context.Context, id int64) ([]domain.UserWithSkills, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := []domain.UserWithSkills{}
	for uid, u := range d.users {
		if uid == id {
			continue
		}
		out = append(out, domain.UserWithSkills{
			UserSummary: domain.UserSummary{ID: uid, Name: u.Name, Introduction: u.Introduction},
			Skills:      append([]string(nil), d.skills[uid]...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (d *memDirectory) Update(_ context.Context, user *domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[user.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *user
	d.users[user.ID] = &cp
	return nil
}

func (d *memDirectory) UpdateProfileImage(context.Context, int64, string) error { return nil }

func (d *memDirectory) List(context.Context) ([]domain.Skill, error) { return nil, nil }

func (d *memDirectory) ForUser(_ context.Context, userID int64) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.skills[userID]...), nil
}

func (d *memDirectory) AddToUser(_ context.Context, userID int64, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, s := range d.skills[userID] {
		if s == name {
			return nil
		}
	}
	d.skills[userID] = append(d.skills[userID], name)
	return nil
}

func suggestedIDs(t *testing.T, uc domain.MatchUsecase, userID int64) []int64 {
	t.Helper()
	got, err := uc.Suggestions(context.Background(), userID)
	require.NoError(t, err)
	ids := make([]int64, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.User.ID)
	}
	return ids
}

func TestCachedSuggestionsFollowOtherUsersChanges(t *testing.T) {
	ctx := context.Background()
	dir := newMemDirectory()
	alice := dir.add("Alice", "Python", "SQL")
	bob := dir.add("Bob", "Go")

	cache := newMemSuggestionCache()
	matchUC := usecase.NewMatchUsecase(dir, dir, newMemMatchRepo(nil), cache)
	profileUC := usecase.NewProfileUsecase(dir, new(MockProfileRepo), dir, new(MockStorage), cache, validation.New(), 0)
	authUC := usecase.NewAuthUsecase(dir, auth.NewHMACService(testSecret, time.Hour), new(MockTracker), cache, validation.New())

	// Cached while nobody overlaps
	assert.Empty(t, suggestedIDs(t, matchUC, alice))
	assert.Empty(t, suggestedIDs(t, matchUC, alice))

	t.Run("another user adds a shared skill", func(t *testing.T) {
		require.NoError(t, profileUC.AddSkill(ctx, bob, "Python"))
		assert.Equal(t, []int64{bob}, suggestedIDs(t, matchUC, alice))
	})

	t.Run("a new student with a shared skill signs up", func(t *testing.T) {
		carol, err := authUC.Signup(ctx, &domain.SignupRequest{
			Email:    "carol@example.com",
			Password: "secret#123",
			Name:     "Carol",
			UserType: domain.UserTypeStudent,
			Skills:   []string{"SQL"},
			Course:   "CS",
		})
		require.NoError(t, err)
		assert.Equal(t, []int64{bob, carol.ID}, suggestedIDs(t, matchUC, alice))
	})

	t.Run("another user renames themselves", func(t *testing.T) {
		_, err := profileUC.UpdateProfile(ctx, bob, &domain.UpdateProfileRequest{Name: strPtr("Robert")})
		require.NoError(t, err)

		got, err := matchUC.Suggestions(ctx, alice)
		require.NoError(t, err)
		require.NotEmpty(t, got)
		assert.Equal(t, "Robert", got[0].User.Name)
	})
}
