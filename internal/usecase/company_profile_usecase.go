package usecase

import (
	"context"
	"errors"
	"strings"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type companyProfileUsecase struct {
	userRepo    domain.UserRepository
	profileRepo domain.CompanyProfileRepository
	validate    *validator.Validate
}

// NewCompanyProfileUsecase creates a new company profile usecase
func NewCompanyProfileUsecase(
	userRepo domain.UserRepository,
	profileRepo domain.CompanyProfileRepository,
	validate *validator.Validate,
) domain.CompanyProfileUsecase {
	return &companyProfileUsecase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		validate:    validate,
	}
}

// requireCompany loads the user and rejects anyone who is not a company account
func (uc *companyProfileUsecase) requireCompany(ctx context.Context, userID int64) error {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("User not found")
		}
		return apperror.Internal(err)
	}
	if user.UserType != domain.UserTypeCompany {
		return apperror.Forbidden("Only company accounts have a company profile")
	}
	return nil
}

// GetProfile returns an empty profile for companies that have not filled one in yet
func (uc *companyProfileUsecase) GetProfile(ctx context.Context, userID int64) (*domain.CompanyProfile, error) {
	if err := uc.requireCompany(ctx, userID); err != nil {
		return nil, err
	}

	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.CompanyProfile{UserID: userID}, nil
		}
		return nil, apperror.Internal(err)
	}
	return profile, nil
}

func (uc *companyProfileUsecase) UpdateProfile(ctx context.Context, userID int64, profile *domain.CompanyProfile) error {
	if err := uc.requireCompany(ctx, userID); err != nil {
		return err
	}

	profile.CompanyName = strings.TrimSpace(profile.CompanyName)
	profile.CompanyDescription = strings.TrimSpace(profile.CompanyDescription)
	profile.Industry = strings.TrimSpace(profile.Industry)
	profile.CompanySize = strings.TrimSpace(profile.CompanySize)
	profile.CompanyWebsite = strings.TrimSpace(profile.CompanyWebsite)

	if err := uc.validate.Struct(profile); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}

	// Owner always comes from the token
	profile.UserID = userID

	if err := uc.profileRepo.Upsert(ctx, profile); err != nil {
		return apperror.Internal(err)
	}
	return nil
}
