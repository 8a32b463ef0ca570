package domain

import (
	"context"
	"time"
)

// CompanyProfile holds the company details of a user with user_type=company.
type CompanyProfile struct {
	UserID             int64     `json:"user_id"`
	CompanyName        string    `json:"company_name" validate:"required,max=100"`
	CompanyDescription string    `json:"company_description" validate:"required"`
	Industry           string    `json:"industry" validate:"required,max=50"`
	CompanySize        string    `json:"company_size" validate:"required,max=50"`
	CompanyWebsite     string    `json:"company_website" validate:"required,url,max=200"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CompanyProfileRepository defines storage operations
type CompanyProfileRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*CompanyProfile, error)
	Upsert(ctx context.Context, profile *CompanyProfile) error
}

// CompanyProfileUsecase defines business logic operations
type CompanyProfileUsecase interface {
	GetProfile(ctx context.Context, userID int64) (*CompanyProfile, error)
	UpdateProfile(ctx context.Context, userID int64, profile *CompanyProfile) error
}
