package usecase_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/internal/usecase"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/auth"
	"lion-connect-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-that-is-at-least-32-bytes-long"

type MockTracker struct {
	mock.Mock
}

func (m *MockTracker) IsBlocked(ctx context.Context, email, ip, userAgent, requestID string) (bool, error) {
	args := m.Called(ctx, email, ip, userAgent, requestID)
	return args.Bool(0), args.Error(1)
}
func (m *MockTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	args := m.Called(ctx, email, ip, userAgent, requestID)
	return args.Bool(0), args.Int(1), args.Error(2)
}
func (m *MockTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

func validStudentSignup() *domain.SignupRequest {
	return &domain.SignupRequest{
		Email:    "  Jane@Example.com ",
		Password: "secret#123",
		Name:     "Jane Doe",
		UserType: domain.UserTypeStudent,
		Skills:   []string{"Go", " SQL ", "Go"},
		Course:   "Backend",
	}
}

func TestSignup(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewHMACService(testSecret, time.Hour)

	t.Run("student signup normalizes and hashes", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
		users.On("CreateWithDetails", ctx, mock.AnythingOfType("*domain.User"), []string{"Go", "SQL"}, (*domain.CompanyProfile)(nil)).
			Return(nil).
			Run(func(args mock.Arguments) {
				u := args.Get(1).(*domain.User)
				u.ID = 10
			})

		uc := usecase.NewAuthUsecase(users, tokens, new(MockTracker), nil, validation.New())
		user, err := uc.Signup(ctx, validStudentSignup())
		require.NoError(t, err)
		assert.Equal(t, int64(10), user.ID)
		assert.Equal(t, "jane@example.com", user.Email)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret#123")))
		users.AssertExpectations(t)
	})

	t.Run("weak password", func(t *testing.T) {
		req := validStudentSignup()
		req.Password = "password"
		uc := usecase.NewAuthUsecase(new(MockUserRepo), tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, req)
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		req := validStudentSignup()
		req.Password = "Secur3#" + strings.Repeat("p", 77) // 84 bytes
		users := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(users, tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, req)
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
		users.AssertNotCalled(t, "CreateWithDetails", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("student without skills", func(t *testing.T) {
		req := validStudentSignup()
		req.Skills = []string{" "}
		uc := usecase.NewAuthUsecase(new(MockUserRepo), tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, req)
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})

	t.Run("company requires all company fields", func(t *testing.T) {
		req := validStudentSignup()
		req.UserType = domain.UserTypeCompany
		req.CompanyName = "Acme"
		uc := usecase.NewAuthUsecase(new(MockUserRepo), tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, req)
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})

	t.Run("company signup passes profile", func(t *testing.T) {
		req := validStudentSignup()
		req.UserType = domain.UserTypeCompany
		req.CompanyName = "Acme"
		req.CompanyDescription = "Anvils"
		req.Industry = "Manufacturing"
		req.CompanySize = "50-100"
		req.CompanyWebsite = "https://acme.example.com"

		users := new(MockUserRepo)
		users.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
		users.On("CreateWithDetails", ctx, mock.AnythingOfType("*domain.User"), []string(nil), mock.MatchedBy(func(p *domain.CompanyProfile) bool {
			return p != nil && p.CompanyName == "Acme" && p.CompanyWebsite == "https://acme.example.com"
		})).Return(nil)

		uc := usecase.NewAuthUsecase(users, tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, req)
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("unknown user type", func(t *testing.T) {
		req := validStudentSignup()
		req.UserType = "admin"
		uc := usecase.NewAuthUsecase(new(MockUserRepo), tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, req)
		assertAppError(t, err, apperror.KindBadRequest, http.StatusBadRequest)
	})

	t.Run("duplicate email", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("ExistsByEmail", ctx, "jane@example.com").Return(true, nil)
		uc := usecase.NewAuthUsecase(users, tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, validStudentSignup())
		assertAppError(t, err, apperror.KindConflict, http.StatusConflict)
	})

	t.Run("duplicate email race", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("ExistsByEmail", ctx, "jane@example.com").Return(false, nil)
		users.On("CreateWithDetails", ctx, mock.Anything, mock.Anything, mock.Anything).Return(domain.ErrEmailTaken)
		uc := usecase.NewAuthUsecase(users, tokens, new(MockTracker), nil, validation.New())
		_, err := uc.Signup(ctx, validStudentSignup())
		assertAppError(t, err, apperror.KindConflict, http.StatusConflict)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewHMACService(testSecret, time.Hour)
	meta := domain.LoginMeta{IP: "10.0.0.1", UserAgent: "test", RequestID: "req-1"}

	hash, err := bcrypt.GenerateFromPassword([]byte("secret#123"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: 7, Email: "jane@example.com", PasswordHash: string(hash), UserType: domain.UserTypeStudent}

	t.Run("success issues a token for the user id", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil)
		tracker := new(MockTracker)
		tracker.On("IsBlocked", ctx, "jane@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(false, nil)
		tracker.On("ClearAttempts", ctx, "jane@example.com", meta.IP).Return(nil)

		uc := usecase.NewAuthUsecase(users, tokens, tracker, nil, validation.New())
		result, err := uc.Login(ctx, &domain.LoginRequest{Email: "JANE@example.com", Password: "secret#123"}, meta)
		require.NoError(t, err)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.InDelta(t, 3600, result.ExpiresIn, 5)

		identity, err := tokens.Parse(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, int64(7), identity.UserID)
		tracker.AssertExpectations(t)
	})

	t.Run("wrong password records attempt", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil)
		tracker := new(MockTracker)
		tracker.On("IsBlocked", ctx, "jane@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(false, nil)
		tracker.On("RecordFailedAttempt", ctx, "jane@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(false, 1, nil)

		uc := usecase.NewAuthUsecase(users, tokens, tracker, nil, validation.New())
		_, err := uc.Login(ctx, &domain.LoginRequest{Email: "jane@example.com", Password: "nope"}, meta)
		assertAppError(t, err, apperror.KindUnauthorized, http.StatusUnauthorized)
		tracker.AssertExpectations(t)
	})

	t.Run("unknown email is indistinguishable", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "ghost@example.com").Return(nil, domain.ErrNotFound)
		tracker := new(MockTracker)
		tracker.On("IsBlocked", ctx, "ghost@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(false, nil)
		tracker.On("RecordFailedAttempt", ctx, "ghost@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(false, 1, nil)

		uc := usecase.NewAuthUsecase(users, tokens, tracker, nil, validation.New())
		_, err := uc.Login(ctx, &domain.LoginRequest{Email: "ghost@example.com", Password: "secret#123"}, meta)
		assertAppError(t, err, apperror.KindUnauthorized, http.StatusUnauthorized)
	})

	t.Run("attempt that triggers a block returns 429", func(t *testing.T) {
		users := new(MockUserRepo)
		users.On("GetByEmail", ctx, "jane@example.com").Return(stored, nil)
		tracker := new(MockTracker)
		tracker.On("IsBlocked", ctx, "jane@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(false, nil)
		tracker.On("RecordFailedAttempt", ctx, "jane@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(true, 5, nil)

		uc := usecase.NewAuthUsecase(users, tokens, tracker, nil, validation.New())
		_, err := uc.Login(ctx, &domain.LoginRequest{Email: "jane@example.com", Password: "nope"}, meta)
		assertAppError(t, err, apperror.KindTooManyRequests, http.StatusTooManyRequests)
	})

	t.Run("blocked client is rejected before checking credentials", func(t *testing.T) {
		users := new(MockUserRepo)
		tracker := new(MockTracker)
		tracker.On("IsBlocked", ctx, "jane@example.com", meta.IP, meta.UserAgent, meta.RequestID).Return(true, nil)

		uc := usecase.NewAuthUsecase(users, tokens, tracker, nil, validation.New())
		_, err := uc.Login(ctx, &domain.LoginRequest{Email: "jane@example.com", Password: "secret#123"}, meta)
		assertAppError(t, err, apperror.KindTooManyRequests, http.StatusTooManyRequests)
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}

func TestGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepo)
	users.On("GetByID", ctx, int64(1)).Return(&domain.User{ID: 1}, nil)
	users.On("GetByID", ctx, int64(2)).Return(nil, domain.ErrNotFound)

	uc := usecase.NewAuthUsecase(users, auth.NewHMACService(testSecret, time.Hour), new(MockTracker), nil, validation.New())

	u, err := uc.GetCurrentUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = uc.GetCurrentUser(ctx, 2)
	assertAppError(t, err, apperror.KindNotFound, http.StatusNotFound)
}
