package postgres

import (
	"context"
	"fmt"

	"lion-connect-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type profileRepo struct {
	db *pgxpool.Pool
}

// NewProfileRepository creates a repository for résumé sections
func NewProfileRepository(db *pgxpool.Pool) domain.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) ListWorkExperiences(ctx context.Context, userID int64) ([]domain.WorkExperience, error) {
	query := `
		SELECT id, user_id, company, position,
		       COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
		       COALESCE(to_char(end_date, 'YYYY-MM-DD'), ''),
		       description
		FROM work_experiences
		WHERE user_id = $1
		ORDER BY start_date DESC NULLS LAST, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.WorkExperience, 0)
	for rows.Next() {
		var e domain.WorkExperience
		if err := rows.Scan(&e.ID, &e.UserID, &e.Company, &e.Position, &e.StartDate, &e.EndDate, &e.Description); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *profileRepo) ListProjects(ctx context.Context, userID int64) ([]domain.Project, error) {
	query := `
		SELECT id, user_id, title, description,
		       COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
		       COALESCE(to_char(end_date, 'YYYY-MM-DD'), ''),
		       tech_stack
		FROM projects
		WHERE user_id = $1
		ORDER BY start_date DESC NULLS LAST, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Project, 0)
	for rows.Next() {
		var p domain.Project
		var stack []string
		if err := rows.Scan(&p.ID, &p.UserID, &p.Title, &p.Description, &p.StartDate, &p.EndDate, pq.Array(&stack)); err != nil {
			return nil, err
		}
		p.TechStack = stack
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *profileRepo) ListEducation(ctx context.Context, userID int64) ([]domain.Education, error) {
	query := `
		SELECT id, user_id, school, major, degree,
		       COALESCE(to_char(start_date, 'YYYY-MM-DD'), ''),
		       COALESCE(to_char(end_date, 'YYYY-MM-DD'), '')
		FROM educations
		WHERE user_id = $1
		ORDER BY start_date DESC NULLS LAST, id`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Education, 0)
	for rows.Next() {
		var e domain.Education
		if err := rows.Scan(&e.ID, &e.UserID, &e.School, &e.Major, &e.Degree, &e.StartDate, &e.EndDate); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *profileRepo) AddWorkExperience(ctx context.Context, exp *domain.WorkExperience) error {
	return insertWorkExperience(ctx, r.db, exp)
}

func (r *profileRepo) AddProject(ctx context.Context, project *domain.Project) error {
	return insertProject(ctx, r.db, project)
}

func (r *profileRepo) AddEducation(ctx context.Context, edu *domain.Education) error {
	return insertEducation(ctx, r.db, edu)
}

// ReplaceResume updates the contact fields and rewrites every section atomically.
// Skills are only relinked when the résumé carries a skills list.
func (r *profileRepo) ReplaceResume(ctx context.Context, userID int64, resume *domain.Resume) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// 1. Contact fields
	result, err := tx.Exec(ctx, `
		UPDATE users SET
			name = $2, email = $3,
			phone = COALESCE($4, phone),
			introduction = COALESCE($5, introduction),
			updated_at = now()
		WHERE id = $1`,
		userID, resume.Name, resume.Email, resume.Phone, resume.Introduction,
	)
	if err != nil {
		if isUniqueViolation(err, usersEmailKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	// 2. Clear sections
	for _, table := range []string{"work_experiences", "projects", "educations"} {
		if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	// 3. Reinsert sections
	for i := range resume.WorkExperience {
		resume.WorkExperience[i].UserID = userID
		if err := insertWorkExperience(ctx, tx, &resume.WorkExperience[i]); err != nil {
			return fmt.Errorf("insert work experience: %w", err)
		}
	}
	for i := range resume.Projects {
		resume.Projects[i].UserID = userID
		if err := insertProject(ctx, tx, &resume.Projects[i]); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
	}
	for i := range resume.Education {
		resume.Education[i].UserID = userID
		if err := insertEducation(ctx, tx, &resume.Education[i]); err != nil {
			return fmt.Errorf("insert education: %w", err)
		}
	}

	// 4. Skills
	if resume.Skills != nil {
		if err := replaceSkills(ctx, tx, userID, resume.Skills); err != nil {
			return fmt.Errorf("replace skills: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func insertWorkExperience(ctx context.Context, q querier, e *domain.WorkExperience) error {
	query := `
		INSERT INTO work_experiences (user_id, company, position, start_date, end_date, description)
		VALUES ($1, $2, $3, NULLIF($4, '')::date, NULLIF($5, '')::date, $6)
		RETURNING id`
	return q.QueryRow(ctx, query, e.UserID, e.Company, e.Position, e.StartDate, e.EndDate, e.Description).Scan(&e.ID)
}

func insertProject(ctx context.Context, q querier, p *domain.Project) error {
	if p.TechStack == nil {
		p.TechStack = []string{}
	}
	query := `
		INSERT INTO projects (user_id, title, description, start_date, end_date, tech_stack)
		VALUES ($1, $2, $3, NULLIF($4, '')::date, NULLIF($5, '')::date, $6)
		RETURNING id`
	return q.QueryRow(ctx, query, p.UserID, p.Title, p.Description, p.StartDate, p.EndDate, pq.Array(p.TechStack)).Scan(&p.ID)
}

func insertEducation(ctx context.Context, q querier, e *domain.Education) error {
	query := `
		INSERT INTO educations (user_id, school, major, degree, start_date, end_date)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::date, NULLIF($6, '')::date)
		RETURNING id`
	return q.QueryRow(ctx, query, e.UserID, e.School, e.Major, e.Degree, e.StartDate, e.EndDate).Scan(&e.ID)
}
