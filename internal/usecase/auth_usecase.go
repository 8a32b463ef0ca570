package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/auth"
	"lion-connect-backend/pkg/logger"
	"lion-connect-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid email or password"

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   auth.TokenService
	tracker  domain.LoginAttemptTracker
	cache    domain.SuggestionCache
	validate *validator.Validate
	now      func() time.Time
}

// NewAuthUsecase creates the signup and login usecase. cache may be nil; a new
// student with skills invalidates it.
func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens auth.TokenService,
	tracker domain.LoginAttemptTracker,
	cache domain.SuggestionCache,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		tracker:  tracker,
		cache:    cache,
		validate: validate,
		now:      time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// cleanSkills trims names and drops blanks and duplicates, keeping order.
func cleanSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func (u *authUsecase) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	// 1. Validate payload
	req.Email = normalizeEmail(req.Email)
	if err := u.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}
	if !req.UserType.Valid() {
		return nil, apperror.BadRequest("User type must be 'student' or 'company'")
	}

	user := &domain.User{
		Email:    req.Email,
		Name:     strings.TrimSpace(req.Name),
		UserType: req.UserType,
	}

	// 2. Per-type required fields
	var skills []string
	var company *domain.CompanyProfile
	switch req.UserType {
	case domain.UserTypeStudent:
		skills = cleanSkills(req.Skills)
		if len(skills) == 0 {
			return nil, apperror.BadRequest("Students must list at least one skill")
		}
		course := strings.TrimSpace(req.Course)
		if course == "" {
			return nil, apperror.BadRequest("Course is required for students")
		}
		user.Course = &course
	case domain.UserTypeCompany:
		company = &domain.CompanyProfile{
			CompanyName:        strings.TrimSpace(req.CompanyName),
			CompanyDescription: strings.TrimSpace(req.CompanyDescription),
			Industry:           strings.TrimSpace(req.Industry),
			CompanySize:        strings.TrimSpace(req.CompanySize),
			CompanyWebsite:     strings.TrimSpace(req.CompanyWebsite),
		}
		if err := u.validate.Struct(company); err != nil {
			return nil, apperror.BadRequest(validation.Message(err))
		}
	}

	// 3. Uniqueness
	exists, err := u.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.Conflict("Email already registered")
	}

	// 4. Hash and persist
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user.PasswordHash = string(hash)

	if err := u.userRepo.CreateWithDetails(ctx, user, skills, company); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, apperror.Conflict("Email already registered")
		}
		return nil, apperror.Internal(err)
	}

	if len(skills) > 0 && u.cache != nil {
		u.cache.Invalidate(ctx)
	}

	logger.Log.Info("user registered", zap.Int64("user_id", user.ID), zap.String("user_type", string(user.UserType)))
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, req *domain.LoginRequest, meta domain.LoginMeta) (*domain.AuthResult, error) {
	email := normalizeEmail(req.Email)

	// 1. Brute-force block
	blocked, err := u.tracker.IsBlocked(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
	if err != nil {
		logger.Log.Warn("login block check failed", zap.Error(err), zap.String("request_id", meta.RequestID))
	}
	if blocked {
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later")
	}

	// 2. Credentials
	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, u.failedAttempt(ctx, email, meta)
	}

	// 3. Reset counters
	if err := u.tracker.ClearAttempts(ctx, email, meta.IP); err != nil {
		logger.Log.Warn("failed to clear login attempts", zap.Error(err), zap.String("request_id", meta.RequestID))
	}

	// 4. Issue token
	token, expiresAt, err := u.tokens.Issue(user.ID, user.Email, string(user.UserType))
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.AuthResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(expiresAt.Sub(u.now()).Seconds()),
		User:        user,
	}, nil
}

func (u *authUsecase) failedAttempt(ctx context.Context, email string, meta domain.LoginMeta) error {
	blocked, _, err := u.tracker.RecordFailedAttempt(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
	if err != nil {
		logger.Log.Warn("failed to record login attempt", zap.Error(err), zap.String("request_id", meta.RequestID))
	}
	if blocked {
		return apperror.TooManyRequests("Too many failed login attempts. Please try again later")
	}
	return apperror.Unauthorized(invalidCredentials)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
