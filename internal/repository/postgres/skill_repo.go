package postgres

import (
	"context"

	"lion-connect-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type skillRepo struct {
	db *pgxpool.Pool
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(db *pgxpool.Pool) domain.SkillRepository {
	return &skillRepo{db: db}
}

func (r *skillRepo) List(ctx context.Context) ([]domain.Skill, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM skills ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]domain.Skill, 0)
	for rows.Next() {
		var s domain.Skill
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, err
		}
		skills = append(skills, s)
	}
	return skills, rows.Err()
}

// ForUser returns the skill names linked to the user, sorted by name
func (r *skillRepo) ForUser(ctx context.Context, userID int64) ([]string, error) {
	return skillsForUser(ctx, r.db, userID)
}

func (r *skillRepo) AddToUser(ctx context.Context, userID int64, name string) error {
	return linkSkills(ctx, r.db, userID, []string{name})
}

func skillsForUser(ctx context.Context, q querier, userID int64) ([]string, error) {
	query := `
		SELECT s.name
		FROM user_skills us
		JOIN skills s ON s.id = us.skill_id
		WHERE us.user_id = $1
		ORDER BY s.name`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// linkSkills upserts every name into the dictionary and links it to the user.
// Existing links are kept.
func linkSkills(ctx context.Context, q querier, userID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	if _, err := q.Exec(ctx, `
		INSERT INTO skills (name)
		SELECT DISTINCT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING`, pq.Array(names)); err != nil {
		return err
	}

	_, err := q.Exec(ctx, `
		INSERT INTO user_skills (user_id, skill_id)
		SELECT $1, id FROM skills WHERE name = ANY($2::text[])
		ON CONFLICT DO NOTHING`, userID, pq.Array(names))
	return err
}

// replaceSkills drops the user's current links and relinks names.
func replaceSkills(ctx context.Context, q querier, userID int64, names []string) error {
	if _, err := q.Exec(ctx, `DELETE FROM user_skills WHERE user_id = $1`, userID); err != nil {
		return err
	}
	return linkSkills(ctx, q, userID, names)
}

// SeedSkills adds names to the dictionary and reports how many were new.
func SeedSkills(ctx context.Context, db *pgxpool.Pool, names []string) (int64, error) {
	tag, err := db.Exec(ctx, `
		INSERT INTO skills (name)
		SELECT DISTINCT unnest($1::text[])
		ON CONFLICT (name) DO NOTHING`, pq.Array(names))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
