package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/security"
	"lion-connect-backend/pkg/storage"
	"lion-connect-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type profileUsecase struct {
	userRepo       domain.UserRepository
	profileRepo    domain.ProfileRepository
	skillRepo      domain.SkillRepository
	files          domain.FileStorage
	cache          domain.SuggestionCache
	validate       *validator.Validate
	maxUploadBytes int64
}

// NewProfileUsecase creates the profile and résumé usecase. cache may be nil.
func NewProfileUsecase(
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	skillRepo domain.SkillRepository,
	files domain.FileStorage,
	cache domain.SuggestionCache,
	validate *validator.Validate,
	maxUploadBytes int64,
) domain.ProfileUsecase {
	return &profileUsecase{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		skillRepo:      skillRepo,
		files:          files,
		cache:          cache,
		validate:       validate,
		maxUploadBytes: maxUploadBytes,
	}
}

func (uc *profileUsecase) getUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (uc *profileUsecase) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	user, err := uc.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.assemble(ctx, user)
}

func (uc *profileUsecase) assemble(ctx context.Context, user *domain.User) (*domain.Profile, error) {
	profile := &domain.Profile{User: user}
	var err error

	if profile.Skills, err = uc.skillRepo.ForUser(ctx, user.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	if profile.WorkExperiences, err = uc.profileRepo.ListWorkExperiences(ctx, user.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	if profile.Projects, err = uc.profileRepo.ListProjects(ctx, user.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	if profile.Education, err = uc.profileRepo.ListEducation(ctx, user.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

// GetPublicProfile hides private profiles from everyone but their owner.
// Contact phone is never shown to other users.
func (uc *profileUsecase) GetPublicProfile(ctx context.Context, viewerID, targetID int64) (*domain.Profile, error) {
	user, err := uc.getUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if viewerID != targetID {
		if !user.IsProfilePublic {
			return nil, apperror.NotFound("User not found")
		}
		user.Phone = nil
	}
	return uc.assemble(ctx, user)
}

func (uc *profileUsecase) UpdateProfile(ctx context.Context, userID int64, req *domain.UpdateProfileRequest) (*domain.User, error) {
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	user, err := uc.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Introduction != nil {
		user.Introduction = req.Introduction
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.SelfIntroduction != nil {
		user.SelfIntroduction = req.SelfIntroduction
	}
	if req.Portfolio != nil {
		user.Portfolio = req.Portfolio
	}
	if req.Blog != nil {
		user.Blog = req.Blog
	}
	if req.Github != nil {
		user.Github = req.Github
	}
	if req.Course != nil {
		user.Course = req.Course
	}
	if req.IsProfilePublic != nil {
		user.IsProfilePublic = *req.IsProfilePublic
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return nil, apperror.Conflict("Email already registered")
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	if req.Name != nil || req.Introduction != nil {
		uc.invalidate(ctx)
	}
	return user, nil
}

func (uc *profileUsecase) AddWorkExperience(ctx context.Context, userID int64, exp *domain.WorkExperience) error {
	if err := uc.validate.Struct(exp); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	exp.UserID = userID
	if err := uc.profileRepo.AddWorkExperience(ctx, exp); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *profileUsecase) AddProject(ctx context.Context, userID int64, project *domain.Project) error {
	if err := uc.validate.Struct(project); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	project.UserID = userID
	if err := uc.profileRepo.AddProject(ctx, project); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

func (uc *profileUsecase) AddEducation(ctx context.Context, userID int64, edu *domain.Education) error {
	if err := uc.validate.Struct(edu); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	edu.UserID = userID
	if err := uc.profileRepo.AddEducation(ctx, edu); err != nil {
		return apperror.Internal(err)
	}
	return nil
}

// AddSkill is idempotent for a skill the user already has.
func (uc *profileUsecase) AddSkill(ctx context.Context, userID int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.BadRequest("Skill name is required")
	}
	if len([]rune(name)) > 50 {
		return apperror.BadRequest("Skill name must be at most 50 characters")
	}

	if err := uc.skillRepo.AddToUser(ctx, userID, name); err != nil {
		return apperror.Internal(err)
	}
	uc.invalidate(ctx)
	return nil
}

func (uc *profileUsecase) SaveResume(ctx context.Context, userID int64, resume *domain.Resume) error {
	if err := uc.validate.Struct(resume); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}

	resume.Name = strings.TrimSpace(resume.Name)
	resume.Email = normalizeEmail(resume.Email)
	if resume.Skills != nil {
		resume.Skills = cleanSkills(resume.Skills)
	}

	if err := uc.profileRepo.ReplaceResume(ctx, userID, resume); err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			return apperror.Conflict("Email already registered")
		case errors.Is(err, domain.ErrNotFound):
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}

	// Name and introduction are part of the suggestion summary as well
	uc.invalidate(ctx)
	return nil
}

func (uc *profileUsecase) UploadProfileImage(ctx context.Context, userID int64, filename string, data []byte) (string, error) {
	// 1. Size
	if uc.maxUploadBytes > 0 && int64(len(data)) > uc.maxUploadBytes {
		return "", apperror.BadRequest(fmt.Sprintf("File must be at most %d MB", uc.maxUploadBytes>>20))
	}

	// 2. Type
	result := security.ValidateImage(filename, data)
	if !result.Valid {
		return "", apperror.BadRequest("Invalid image: " + result.Error)
	}

	// 3. Resize and re-encode
	compressed, err := storage.CompressImage(data, storage.MaxImageDimension, storage.JPEGQuality)
	if err != nil {
		if errors.Is(err, storage.ErrImageTooLarge) {
			return "", apperror.BadRequest("Image dimensions are too large")
		}
		return "", apperror.BadRequest("Image could not be decoded")
	}

	// 4. Store and link
	key := fmt.Sprintf("profile/%d/%s.jpg", userID, uuid.NewString())
	url, err := uc.files.Save(ctx, key, "image/jpeg", compressed)
	if err != nil {
		return "", apperror.Internal(err)
	}

	if err := uc.userRepo.UpdateProfileImage(ctx, userID, url); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperror.NotFound("User not found")
		}
		return "", apperror.Internal(err)
	}
	return url, nil
}

// invalidate drops every cached suggestion list. A user's skills and summary
// appear in other users' lists, so no single entry can be targeted.
func (uc *profileUsecase) invalidate(ctx context.Context) {
	if uc.cache != nil {
		uc.cache.Invalidate(ctx)
	}
}
