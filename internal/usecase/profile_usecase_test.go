package usecase_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/internal/usecase"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) ListWorkExperiences(ctx context.Context, userID int64) ([]domain.WorkExperience, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.WorkExperience), args.Error(1)
}
func (m *MockProfileRepo) ListProjects(ctx context.Context, userID int64) ([]domain.Project, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Project), args.Error(1)
}
func (m *MockProfileRepo) ListEducation(ctx context.Context, userID int64) ([]domain.Education, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Education), args.Error(1)
}
func (m *MockProfileRepo) AddWorkExperience(ctx context.Context, exp *domain.WorkExperience) error {
	return m.Called(ctx, exp).Error(0)
}
func (m *MockProfileRepo) AddProject(ctx context.Context, project *domain.Project) error {
	return m.Called(ctx, project).Error(0)
}
func (m *MockProfileRepo) AddEducation(ctx context.Context, edu *domain.Education) error {
	return m.Called(ctx, edu).Error(0)
}
func (m *MockProfileRepo) ReplaceResume(ctx context.Context, userID int64, resume *domain.Resume) error {
	return m.Called(ctx, userID, resume).Error(0)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

type profileFixture struct {
	users    *MockUserRepo
	profiles *MockProfileRepo
	skills   *MockSkillRepo
	files    *MockStorage
	cache    *MockCache
	uc       domain.ProfileUsecase
}

func newProfileFixture() *profileFixture {
	f := &profileFixture{
		users:    new(MockUserRepo),
		profiles: new(MockProfileRepo),
		skills:   new(MockSkillRepo),
		files:    new(MockStorage),
		cache:    new(MockCache),
	}
	f.uc = usecase.NewProfileUsecase(f.users, f.profiles, f.skills, f.files, f.cache, validation.New(), 16<<20)
	return f
}

func (f *profileFixture) expectSections(userID int64) {
	f.skills.On("ForUser", mock.Anything, userID).Return([]string{"Go"}, nil)
	f.profiles.On("ListWorkExperiences", mock.Anything, userID).Return([]domain.WorkExperience{}, nil)
	f.profiles.On("ListProjects", mock.Anything, userID).Return([]domain.Project{}, nil)
	f.profiles.On("ListEducation", mock.Anything, userID).Return([]domain.Education{}, nil)
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Jane"}, nil)
	f.expectSections(1)

	profile, err := f.uc.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Jane", profile.User.Name)
	assert.Equal(t, []string{"Go"}, profile.Skills)
	assert.NotNil(t, profile.WorkExperiences)
}

func TestGetPublicProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("private profile is hidden from others", func(t *testing.T) {
		f := newProfileFixture()
		f.users.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2, IsProfilePublic: false}, nil)

		_, err := f.uc.GetPublicProfile(ctx, 1, 2)
		assertAppError(t, err, apperror.KindNotFound, http.StatusNotFound)
	})

	t.Run("owner sees private profile", func(t *testing.T) {
		f := newProfileFixture()
		f.users.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2, Phone: strPtr("010-1234-5678")}, nil)
		f.expectSections(2)

		profile, err := f.uc.GetPublicProfile(ctx, 2, 2)
		require.NoError(t, err)
		assert.NotNil(t, profile.User.Phone)
	})

	t.Run("phone hidden from other viewers", func(t *testing.T) {
		f := newProfileFixture()
		f.users.On("GetByID", ctx, int64(2)).Return(&domain.User{ID: 2, IsProfilePublic: true, Phone: strPtr("010-1234-5678")}, nil)
		f.expectSections(2)

		profile, err := f.uc.GetPublicProfile(ctx, 1, 2)
		require.NoError(t, err)
		assert.Nil(t, profile.User.Phone)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("applies only provided fields", func(t *testing.T) {
		f := newProfileFixture()
		f.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Jane", Email: "jane@example.com", IsProfilePublic: true}, nil)
		f.users.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
		f.cache.On("Invalidate", ctx).Return()

		public := false
		user, err := f.uc.UpdateProfile(ctx, 1, &domain.UpdateProfileRequest{
			Introduction:    strPtr("Backend developer"),
			IsProfilePublic: &public,
		})
		require.NoError(t, err)
		assert.Equal(t, "Jane", user.Name)
		assert.Equal(t, "Backend developer", *user.Introduction)
		assert.False(t, user.IsProfilePublic)
		f.cache.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		f := newProfileFixture()
		f.users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1, Name: "Jane"}, nil)
		f.users.On("Update", ctx, mock.Anything).Return(domain.ErrEmailTaken)

		_, err := f.uc.UpdateProfile(ctx, 1, &domain.UpdateProfileRequest{Email: strPtr("bob@example.com")})
		assertAppError(t, err, apperror.KindConflict, http.StatusConflict)
	})

	t.Run("invalid phone", func(t *testing.T) {
		f := newProfileFixture()
		_, err := f.uc.UpdateProfile(ctx, 1, &domain.UpdateProfileRequest{Phone: strPtr("call me")})
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})
}

func TestAddSections(t *testing.T) {
	ctx := context.Background()

	t.Run("work experience is owned by caller", func(t *testing.T) {
		f := newProfileFixture()
		f.profiles.On("AddWorkExperience", ctx, mock.MatchedBy(func(e *domain.WorkExperience) bool {
			return e.UserID == 1
		})).Return(nil)

		err := f.uc.AddWorkExperience(ctx, 1, &domain.WorkExperience{
			UserID: 99, Company: "Acme", Position: "Intern", StartDate: "2024-03-01",
		})
		require.NoError(t, err)
		f.profiles.AssertExpectations(t)
	})

	t.Run("bad date", func(t *testing.T) {
		f := newProfileFixture()
		err := f.uc.AddProject(ctx, 1, &domain.Project{Title: "x", Description: "y", StartDate: "03/01/2024"})
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})

	t.Run("education", func(t *testing.T) {
		f := newProfileFixture()
		f.profiles.On("AddEducation", ctx, mock.Anything).Return(nil)
		err := f.uc.AddEducation(ctx, 1, &domain.Education{
			School: "Uni", Major: "CS", Degree: "BSc", StartDate: "2020-03-01", EndDate: "2024-02-28",
		})
		require.NoError(t, err)
	})
}

func TestAddSkillInvalidatesSuggestions(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture()
	f.skills.On("AddToUser", ctx, int64(1), "Rust").Return(nil)
	f.cache.On("Invalidate", ctx).Return()

	require.NoError(t, f.uc.AddSkill(ctx, 1, "  Rust "))
	f.cache.AssertExpectations(t)

	err := f.uc.AddSkill(ctx, 1, "   ")
	assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
}

func TestSaveResume(t *testing.T) {
	ctx := context.Background()

	t.Run("replaces everything in one call", func(t *testing.T) {
		f := newProfileFixture()
		f.profiles.On("ReplaceResume", ctx, int64(1), mock.MatchedBy(func(r *domain.Resume) bool {
			return r.Email == "jane@example.com" && len(r.Skills) == 2
		})).Return(nil)
		f.cache.On("Invalidate", ctx).Return()

		err := f.uc.SaveResume(ctx, 1, &domain.Resume{
			Name:   "Jane",
			Email:  "Jane@Example.com",
			Skills: []string{"Go", "SQL", "Go"},
			Projects: []domain.Project{
				{Title: "Lion", Description: "Matching", StartDate: "2024-01-01", TechStack: []string{"Go"}},
			},
		})
		require.NoError(t, err)
		f.profiles.AssertExpectations(t)
		f.cache.AssertExpectations(t)
	})

	t.Run("invalid nested entry", func(t *testing.T) {
		f := newProfileFixture()
		err := f.uc.SaveResume(ctx, 1, &domain.Resume{
			Name:           "Jane",
			Email:          "jane@example.com",
			WorkExperience: []domain.WorkExperience{{Company: "Acme"}},
		})
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})

	t.Run("email conflict", func(t *testing.T) {
		f := newProfileFixture()
		f.profiles.On("ReplaceResume", ctx, int64(1), mock.Anything).Return(domain.ErrEmailTaken)
		err := f.uc.SaveResume(ctx, 1, &domain.Resume{Name: "Jane", Email: "bob@example.com"})
		assertAppError(t, err, apperror.KindConflict, http.StatusConflict)
	})
}

func TestUploadProfileImage(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 32, 32))))
	pngData := buf.Bytes()

	t.Run("stores a jpeg and links it", func(t *testing.T) {
		f := newProfileFixture()
		f.files.On("Save", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "profile/1/") && strings.HasSuffix(key, ".jpg")
		}), "image/jpeg", mock.Anything).Return("/uploads/profile/1/a.jpg", nil)
		f.users.On("UpdateProfileImage", ctx, int64(1), "/uploads/profile/1/a.jpg").Return(nil)

		url, err := f.uc.UploadProfileImage(ctx, 1, "me.png", pngData)
		require.NoError(t, err)
		assert.Equal(t, "/uploads/profile/1/a.jpg", url)
	})

	t.Run("rejects disallowed type", func(t *testing.T) {
		f := newProfileFixture()
		_, err := f.uc.UploadProfileImage(ctx, 1, "me.pdf", []byte("%PDF-1.7"))
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
		f.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized files", func(t *testing.T) {
		f := newProfileFixture()
		uc := usecase.NewProfileUsecase(f.users, f.profiles, f.skills, f.files, nil, validation.New(), 10)
		_, err := uc.UploadProfileImage(ctx, 1, "me.png", pngData)
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})

	t.Run("rejects huge dimensions in a small file", func(t *testing.T) {
		// Same file with its IHDR claiming 12000x12000
		bomb := append([]byte(nil), pngData...)
		binary.BigEndian.PutUint32(bomb[16:], 12000)
		binary.BigEndian.PutUint32(bomb[20:], 12000)
		binary.BigEndian.PutUint32(bomb[29:], crc32.ChecksumIEEE(bomb[12:29]))

		f := newProfileFixture()
		_, err := f.uc.UploadProfileImage(ctx, 1, "me.png", bomb)
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
		assert.Contains(t, err.Error(), "dimensions")
		f.files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
