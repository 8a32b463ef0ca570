package usecase

import (
	"context"
	"errors"
	"strings"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Pagination bounds for the board listing
const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
	// MaxPage keeps (page-1)*perPage a valid OFFSET
	MaxPage = 1_000_000
)

type postUsecase struct {
	postRepo domain.PostRepository
	validate *validator.Validate
}

func NewPostUsecase(postRepo domain.PostRepository, validate *validator.Validate) domain.PostUsecase {
	return &postUsecase{postRepo: postRepo, validate: validate}
}

// NormalizePage clamps page and perPage to the supported range.
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return page, perPage
}

func (uc *postUsecase) ListPosts(ctx context.Context, page, perPage int) (*domain.PostPage, error) {
	page, perPage = NormalizePage(page, perPage)

	posts, total, err := uc.postRepo.Fetch(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.PostPage{
		Posts:       posts,
		Total:       total,
		Pages:       int((total + int64(perPage) - 1) / int64(perPage)),
		CurrentPage: page,
	}, nil
}

func (uc *postUsecase) getPost(ctx context.Context, id int64) (*domain.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Post not found")
		}
		return nil, apperror.Internal(err)
	}
	return post, nil
}

func (uc *postUsecase) GetPost(ctx context.Context, id int64) (*domain.PostDetail, error) {
	post, err := uc.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := uc.postRepo.ListComments(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.PostDetail{Post: post, Comments: comments}, nil
}

func (uc *postUsecase) CreatePost(ctx context.Context, userID int64, req *domain.CreatePostRequest) (*domain.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Content = strings.TrimSpace(req.Content)
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	post := &domain.Post{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, apperror.Internal(err)
	}
	post.Author.ID = userID
	return post, nil
}

// ownPost loads the post and checks userID wrote it
func (uc *postUsecase) ownPost(ctx context.Context, userID, postID int64) (*domain.Post, error) {
	post, err := uc.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, apperror.Forbidden("You can only modify your own posts")
	}
	return post, nil
}

func (uc *postUsecase) UpdatePost(ctx context.Context, userID, postID int64, req *domain.UpdatePostRequest) error {
	if err := uc.validate.Struct(req); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}

	post, err := uc.ownPost(ctx, userID, postID)
	if err != nil {
		return err
	}

	if req.Title != nil {
		post.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		post.Content = strings.TrimSpace(*req.Content)
	}
	if post.Title == "" || post.Content == "" {
		return apperror.BadRequest("Title and content must not be empty")
	}

	if err := uc.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Post not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (uc *postUsecase) DeletePost(ctx context.Context, userID, postID int64) error {
	if _, err := uc.ownPost(ctx, userID, postID); err != nil {
		return err
	}

	if err := uc.postRepo.Delete(ctx, postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperror.NotFound("Post not found")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (uc *postUsecase) AddComment(ctx context.Context, userID, postID int64, req *domain.CreateCommentRequest) (*domain.Comment, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := uc.validate.Struct(req); err != nil {
		return nil, apperror.BadRequest(validation.Message(err))
	}

	if _, err := uc.getPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: req.Content,
	}
	if err := uc.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, apperror.Internal(err)
	}
	comment.Author.ID = userID
	return comment, nil
}

func (uc *postUsecase) LikePost(ctx context.Context, postID int64) (int, error) {
	likes, err := uc.postRepo.IncrementLikes(ctx, postID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, apperror.NotFound("Post not found")
		}
		return 0, apperror.Internal(err)
	}
	return likes, nil
}
