package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lion-connect-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const usersEmailKey = "users_email_key"

const userColumns = `id, email, password_hash, name, user_type, profile_image, is_profile_public,
	introduction, phone, self_introduction, portfolio, blog, github, course, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.UserType, &u.ProfileImage, &u.IsProfilePublic,
		&u.Introduction, &u.Phone, &u.SelfIntroduction, &u.Portfolio, &u.Blog, &u.Github, &u.Course,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) CreateWithDetails(ctx context.Context, user *domain.User, skills []string, company *domain.CompanyProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	query := `
		INSERT INTO users (email, password_hash, name, user_type, is_profile_public, course, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		user.Email, user.PasswordHash, user.Name, user.UserType, true, user.Course, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, usersEmailKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.IsProfilePublic = true

	if err := linkSkills(ctx, tx, user.ID, skills); err != nil {
		return fmt.Errorf("link skills: %w", err)
	}

	if company != nil {
		company.UserID = user.ID
		if err := upsertCompanyProfile(ctx, tx, company); err != nil {
			return fmt.Errorf("insert company profile: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *userRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(ctx, query, email))
}

func (r *userRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

// ListExcept loads every other user with their skill names in a single query
func (r *userRepo) ListExcept(ctx context.Context, id int64) ([]domain.UserWithSkills, error) {
	query := `
		SELECT u.id, u.name, u.introduction,
		       COALESCE(array_agg(s.name ORDER BY s.name) FILTER (WHERE s.name IS NOT NULL), '{}') AS skills
		FROM users u
		LEFT JOIN user_skills us ON us.user_id = u.id
		LEFT JOIN skills s ON s.id = us.skill_id
		WHERE u.id <> $1
		GROUP BY u.id
		ORDER BY u.id`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]domain.UserWithSkills, 0)
	for rows.Next() {
		var u domain.UserWithSkills
		var skills []string
		if err := rows.Scan(&u.ID, &u.Name, &u.Introduction, pq.Array(&skills)); err != nil {
			return nil, err
		}
		u.Skills = skills
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			email = $2, name = $3, introduction = $4, phone = $5, self_introduction = $6,
			portfolio = $7, blog = $8, github = $9, course = $10, is_profile_public = $11,
			updated_at = $12
		WHERE id = $1`

	user.UpdatedAt = time.Now()
	result, err := r.db.Exec(ctx, query,
		user.ID, user.Email, user.Name, user.Introduction, user.Phone, user.SelfIntroduction,
		user.Portfolio, user.Blog, user.Github, user.Course, user.IsProfilePublic,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, usersEmailKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepo) UpdateProfileImage(ctx context.Context, id int64, url string) error {
	result, err := r.db.Exec(ctx, `UPDATE users SET profile_image = $2, updated_at = now() WHERE id = $1`, id, url)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
