package postgres

import (
	"context"
	"errors"
	"fmt"

	"lion-connect-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postRepo struct {
	db *pgxpool.Pool
}

// NewPostRepository creates a new board post repository
func NewPostRepository(db *pgxpool.Pool) domain.PostRepository {
	return &postRepo{db: db}
}

const postSelect = `
	SELECT p.id, p.user_id, p.title, p.content, p.likes, p.created_at, p.updated_at, u.name
	FROM posts p
	JOIN users u ON u.id = p.user_id`

func scanPost(row pgx.Row) (*domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Content, &p.Likes, &p.CreatedAt, &p.UpdatedAt, &p.Author.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Author.ID = p.UserID
	return &p, nil
}

func (r *postRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (user_id, title, content, likes, created_at, updated_at)
		VALUES ($1, $2, $3, 0, now(), now())
		RETURNING id, likes, created_at, updated_at`
	return r.db.QueryRow(ctx, query, post.UserID, post.Title, post.Content).
		Scan(&post.ID, &post.Likes, &post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepo) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	return scanPost(r.db.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
}

// Fetch returns one page of posts, newest first, and the total post count
func (r *postRepo) Fetch(ctx context.Context, limit, offset int) ([]domain.Post, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	rows, err := r.db.Query(ctx, postSelect+` ORDER BY p.created_at DESC, p.id DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0, limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

func (r *postRepo) Update(ctx context.Context, post *domain.Post) error {
	query := `
		UPDATE posts SET title = $2, content = $3, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`
	err := r.db.QueryRow(ctx, query, post.ID, post.Title, post.Content).Scan(&post.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// Delete removes the post; comments go with it through ON DELETE CASCADE
func (r *postRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postRepo) IncrementLikes(ctx context.Context, id int64) (int, error) {
	var likes int
	err := r.db.QueryRow(ctx, `UPDATE posts SET likes = likes + 1 WHERE id = $1 RETURNING likes`, id).Scan(&likes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return likes, nil
}

func (r *postRepo) CreateComment(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, now())
		RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, comment.PostID, comment.UserID, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt)
}

func (r *postRepo) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC, c.id ASC`

	rows, err := r.db.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]domain.Comment, 0)
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt, &c.Author.Name); err != nil {
			return nil, err
		}
		c.Author.ID = c.UserID
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
