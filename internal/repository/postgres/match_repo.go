package postgres

import (
	"context"
	"errors"
	"fmt"

	"lion-connect-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pendingMatchIndex = "ux_match_requests_pending"

type matchRepo struct {
	db txQuerier
}

// NewMatchRepository creates a new match request repository
func NewMatchRepository(db *pgxpool.Pool) domain.MatchRepository {
	return &matchRepo{db: db}
}

// Insert relies on the partial unique index over pending pairs, so two
// concurrent inserts for the same pair cannot both succeed.
func (r *matchRepo) Insert(ctx context.Context, m *domain.MatchRequest) error {
	query := `
		INSERT INTO match_requests (requester_id, receiver_id, status, created_at, updated_at)
		VALUES ($1, $2, 'pending', now(), now())
		RETURNING id, status, created_at, updated_at`

	err := r.db.QueryRow(ctx, query, m.RequesterID, m.ReceiverID).
		Scan(&m.ID, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, pendingMatchIndex) {
			return domain.ErrDuplicatePendingMatch
		}
		return fmt.Errorf("insert match request: %w", err)
	}
	return nil
}

// FindPending returns ErrNotFound when the ordered pair has no pending request
func (r *matchRepo) FindPending(ctx context.Context, requesterID, receiverID int64) (*domain.MatchRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM match_requests
		WHERE requester_id = $1 AND receiver_id = $2 AND status = 'pending'`
	return scanMatch(r.db.QueryRow(ctx, query, requesterID, receiverID))
}

func (r *matchRepo) GetByID(ctx context.Context, id int64) (*domain.MatchRequest, error) {
	query := `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM match_requests
		WHERE id = $1`
	return scanMatch(r.db.QueryRow(ctx, query, id))
}

// ListByReceiver joins the requester's name as the counterpart
func (r *matchRepo) ListByReceiver(ctx context.Context, receiverID int64, status domain.MatchStatus) ([]domain.MatchRequest, error) {
	query := `
		SELECT m.id, m.requester_id, m.receiver_id, m.status, m.created_at, m.updated_at, u.name
		FROM match_requests m
		JOIN users u ON u.id = m.requester_id
		WHERE m.receiver_id = $1 AND m.status = $2
		ORDER BY m.created_at DESC, m.id DESC`
	return r.list(ctx, query, receiverID, string(status))
}

// ListByRequester joins the receiver's name as the counterpart
func (r *matchRepo) ListByRequester(ctx context.Context, requesterID int64) ([]domain.MatchRequest, error) {
	query := `
		SELECT m.id, m.requester_id, m.receiver_id, m.status, m.created_at, m.updated_at, u.name
		FROM match_requests m
		JOIN users u ON u.id = m.receiver_id
		WHERE m.requester_id = $1
		ORDER BY m.created_at DESC, m.id DESC`
	return r.list(ctx, query, requesterID)
}

func (r *matchRepo) list(ctx context.Context, query string, args ...any) ([]domain.MatchRequest, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.MatchRequest, 0)
	for rows.Next() {
		var m domain.MatchRequest
		if err := rows.Scan(&m.ID, &m.RequesterID, &m.ReceiverID, &m.Status, &m.CreatedAt, &m.UpdatedAt, &m.CounterpartName); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// UpdateStatus locks the row, checks it is still pending and moves it to
// status inside one transaction.
func (r *matchRepo) UpdateStatus(ctx context.Context, id int64, status domain.MatchStatus) (*domain.MatchRequest, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	current, err := scanMatch(tx.QueryRow(ctx, `
		SELECT id, requester_id, receiver_id, status, created_at, updated_at
		FROM match_requests
		WHERE id = $1
		FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}
	if current.Status != domain.MatchStatusPending {
		return nil, domain.ErrMatchNotPending
	}

	updated, err := scanMatch(tx.QueryRow(ctx, `
		UPDATE match_requests
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = 'pending'
		RETURNING id, requester_id, receiver_id, status, created_at, updated_at`, id, string(status)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrMatchNotPending
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

func scanMatch(row pgx.Row) (*domain.MatchRequest, error) {
	var m domain.MatchRequest
	var status string
	if err := row.Scan(&m.ID, &m.RequesterID, &m.ReceiverID, &status, &m.CreatedAt, &m.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	m.Status = domain.MatchStatus(status)
	return &m, nil
}
