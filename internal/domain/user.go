package domain

import (
	"context"
	"time"
)

type UserType string

const (
	UserTypeStudent UserType = "student"
	UserTypeCompany UserType = "company"
)

func (t UserType) Valid() bool {
	return t == UserTypeStudent || t == UserTypeCompany
}

type User struct {
	ID               int64     `json:"id"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Name             string    `json:"name"`
	UserType         UserType  `json:"user_type"`
	ProfileImage     *string   `json:"profile_image"`
	IsProfilePublic  bool      `json:"is_profile_public"`
	Introduction     *string   `json:"introduction"`
	Phone            *string   `json:"phone"`
	SelfIntroduction *string   `json:"self_introduction"`
	Portfolio        *string   `json:"portfolio"`
	Blog             *string   `json:"blog"`
	Github           *string   `json:"github"`
	Course           *string   `json:"course"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UserSummary is the public projection of a user embedded in other resources.
type UserSummary struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Introduction *string `json:"introduction,omitempty"`
}

// UserWithSkills pairs a user with the names of their skills.
type UserWithSkills struct {
	UserSummary
	Skills []string
}

type SignupRequest struct {
	Email    string   `json:"email" validate:"required,email,max=120"`
	Password string   `json:"password" validate:"required,strong_password"`
	Name     string   `json:"name" validate:"required,max=100,valid_name"`
	UserType UserType `json:"user_type" validate:"required"`

	// Student only
	Skills []string `json:"skills" validate:"omitempty,dive,required,max=50"`
	Course string   `json:"course" validate:"max=100"`

	// Company only
	CompanyName        string `json:"company_name" validate:"max=100"`
	CompanyDescription string `json:"company_description"`
	Industry           string `json:"industry" validate:"max=50"`
	CompanySize        string `json:"company_size" validate:"max=50"`
	CompanyWebsite     string `json:"company_website" validate:"omitempty,url,max=200"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginMeta carries request attributes used for brute-force tracking.
type LoginMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

type UserRepository interface {
	// CreateWithDetails inserts the user together with its skills (students)
	// or company profile (companies) atomically. Returns ErrEmailTaken on a duplicate email.
	CreateWithDetails(ctx context.Context, user *User, skills []string, company *CompanyProfile) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ListExcept returns every user other than id, each with their skill names.
	ListExcept(ctx context.Context, id int64) ([]UserWithSkills, error)
	Update(ctx context.Context, user *User) error
	UpdateProfileImage(ctx context.Context, id int64, url string) error
}

// LoginAttemptTracker counts failed logins and blocks abusive clients.
type LoginAttemptTracker interface {
	IsBlocked(ctx context.Context, email, ip, userAgent, requestID string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

type AuthUsecase interface {
	Signup(ctx context.Context, req *SignupRequest) (*User, error)
	Login(ctx context.Context, req *LoginRequest, meta LoginMeta) (*AuthResult, error)
	GetCurrentUser(ctx context.Context, id int64) (*User, error)
}
