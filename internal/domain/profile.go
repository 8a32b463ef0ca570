package domain

import "context"

// Dates are calendar dates formatted as YYYY-MM-DD.
type WorkExperience struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"-"`
	Company     string `json:"company" validate:"required,max=100"`
	Position    string `json:"position" validate:"required,max=100"`
	StartDate   string `json:"start_date" validate:"required,iso_date"`
	EndDate     string `json:"end_date" validate:"omitempty,iso_date"`
	Description string `json:"description"`
}

type Project struct {
	ID          int64    `json:"id"`
	UserID      int64    `json:"-"`
	Title       string   `json:"title" validate:"required,max=100"`
	Description string   `json:"description" validate:"required"`
	StartDate   string   `json:"start_date" validate:"required,iso_date"`
	EndDate     string   `json:"end_date" validate:"omitempty,iso_date"`
	TechStack   []string `json:"tech_stack" validate:"omitempty,dive,required,max=50"`
}

type Education struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"-"`
	School    string `json:"school" validate:"required,max=100"`
	Major     string `json:"major" validate:"required,max=100"`
	Degree    string `json:"degree" validate:"required,max=50"`
	StartDate string `json:"start_date" validate:"required,iso_date"`
	EndDate   string `json:"end_date" validate:"omitempty,iso_date"`
}

type Profile struct {
	User            *User            `json:"user"`
	Skills          []string         `json:"skills"`
	WorkExperiences []WorkExperience `json:"work_experiences"`
	Projects        []Project        `json:"projects"`
	Education       []Education      `json:"education"`
}

// UpdateProfileRequest is a partial update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=1,max=100,valid_name"`
	Email            *string `json:"email" validate:"omitempty,email,max=120"`
	Introduction     *string `json:"introduction" validate:"omitempty,max=200,no_emoji"`
	Phone            *string `json:"phone" validate:"omitempty,valid_phone"`
	SelfIntroduction *string `json:"self_introduction"`
	Portfolio        *string `json:"portfolio" validate:"omitempty,url,max=200"`
	Blog             *string `json:"blog" validate:"omitempty,url,max=200"`
	Github           *string `json:"github" validate:"omitempty,url,max=200"`
	Course           *string `json:"course" validate:"omitempty,max=100"`
	IsProfilePublic  *bool   `json:"is_profile_public"`
}

// Resume replaces the user's résumé sections wholesale.
type Resume struct {
	Name           string           `json:"name" validate:"required,max=100,valid_name"`
	Email          string           `json:"email" validate:"required,email,max=120"`
	Phone          *string          `json:"phone" validate:"omitempty,valid_phone"`
	Introduction   *string          `json:"introduction" validate:"omitempty,max=200"`
	WorkExperience []WorkExperience `json:"work_experience" validate:"dive"`
	Projects       []Project        `json:"projects" validate:"dive"`
	Skills         []string         `json:"skills" validate:"dive,required,max=50"`
	Education      []Education      `json:"education" validate:"dive"`
}

type ProfileRepository interface {
	ListWorkExperiences(ctx context.Context, userID int64) ([]WorkExperience, error)
	ListProjects(ctx context.Context, userID int64) ([]Project, error)
	ListEducation(ctx context.Context, userID int64) ([]Education, error)
	AddWorkExperience(ctx context.Context, exp *WorkExperience) error
	AddProject(ctx context.Context, project *Project) error
	AddEducation(ctx context.Context, edu *Education) error
	// ReplaceResume rewrites contact fields and every résumé section in one transaction.
	// Returns ErrEmailTaken when the new email belongs to another user.
	ReplaceResume(ctx context.Context, userID int64, resume *Resume) error
}

// FileStorage persists uploaded objects and returns their public URL.
type FileStorage interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
}

type ProfileUsecase interface {
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	GetPublicProfile(ctx context.Context, viewerID, targetID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*User, error)
	AddWorkExperience(ctx context.Context, userID int64, exp *WorkExperience) error
	AddProject(ctx context.Context, userID int64, project *Project) error
	AddEducation(ctx context.Context, userID int64, edu *Education) error
	AddSkill(ctx context.Context, userID int64, name string) error
	SaveResume(ctx context.Context, userID int64, resume *Resume) error
	UploadProfileImage(ctx context.Context, userID int64, filename string, data []byte) (string, error)
}
