package domain

import (
	"context"
	"time"
)

type Post struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"-"`
	Title     string      `json:"title"`
	Content   string      `json:"content"`
	Likes     int         `json:"likes"`
	Author    UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

type Comment struct {
	ID        int64       `json:"id"`
	PostID    int64       `json:"-"`
	UserID    int64       `json:"-"`
	Content   string      `json:"content"`
	Author    UserSummary `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
}

type PostDetail struct {
	Post     *Post     `json:"post"`
	Comments []Comment `json:"comments"`
}

// PostPage mirrors the board's pagination envelope.
type PostPage struct {
	Posts       []Post `json:"posts"`
	Total       int64  `json:"total"`
	Pages       int    `json:"pages"`
	CurrentPage int    `json:"current_page"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type UpdatePostRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content *string `json:"content" validate:"omitempty,min=1"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

type PostRepository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id int64) (*Post, error)
	Fetch(ctx context.Context, limit, offset int) ([]Post, int64, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int64) error
	IncrementLikes(ctx context.Context, id int64) (int, error)
	CreateComment(ctx context.Context, comment *Comment) error
	ListComments(ctx context.Context, postID int64) ([]Comment, error)
}

type PostUsecase interface {
	ListPosts(ctx context.Context, page, perPage int) (*PostPage, error)
	GetPost(ctx context.Context, id int64) (*PostDetail, error)
	CreatePost(ctx context.Context, userID int64, req *CreatePostRequest) (*Post, error)
	UpdatePost(ctx context.Context, userID, postID int64, req *UpdatePostRequest) error
	DeletePost(ctx context.Context, userID, postID int64) error
	AddComment(ctx context.Context, userID, postID int64, req *CreateCommentRequest) (*Comment, error)
	LikePost(ctx context.Context, postID int64) (int, error)
}
