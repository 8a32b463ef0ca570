package postgres

import (
	"context"
	"errors"

	"lion-connect-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type companyProfileRepo struct {
	db *pgxpool.Pool
}

// NewCompanyProfileRepository creates a new company profile repository
func NewCompanyProfileRepository(db *pgxpool.Pool) domain.CompanyProfileRepository {
	return &companyProfileRepo{db: db}
}

// GetByUserID retrieves a company profile by the owner's user ID
func (r *companyProfileRepo) GetByUserID(ctx context.Context, userID int64) (*domain.CompanyProfile, error) {
	query := `
		SELECT user_id, company_name, company_description, industry, company_size, website,
		       created_at, updated_at
		FROM company_profiles
		WHERE user_id = $1`

	var p domain.CompanyProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID, &p.CompanyName, &p.CompanyDescription, &p.Industry, &p.CompanySize, &p.CompanyWebsite,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Upsert creates or updates a company profile
func (r *companyProfileRepo) Upsert(ctx context.Context, profile *domain.CompanyProfile) error {
	return upsertCompanyProfile(ctx, r.db, profile)
}

func upsertCompanyProfile(ctx context.Context, q querier, p *domain.CompanyProfile) error {
	query := `
		INSERT INTO company_profiles (
			user_id, company_name, company_description, industry, company_size, website,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		ON CONFLICT (user_id) DO UPDATE SET
			company_name = EXCLUDED.company_name,
			company_description = EXCLUDED.company_description,
			industry = EXCLUDED.industry,
			company_size = EXCLUDED.company_size,
			website = EXCLUDED.website,
			updated_at = now()
		RETURNING created_at, updated_at`

	return q.QueryRow(ctx, query,
		p.UserID, p.CompanyName, p.CompanyDescription, p.Industry, p.CompanySize, p.CompanyWebsite,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}
