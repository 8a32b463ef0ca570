package v1

import (
	"net/http"
	"strconv"

	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUC domain.PostUsecase
}

func NewPostHandler(public, protected *gin.RouterGroup, postUC domain.PostUsecase) {
	handler := &PostHandler{postUC: postUC}

	public.GET("/posts", handler.List)
	public.GET("/posts/:id", handler.Get)

	posts := protected.Group("/posts")
	{
		posts.POST("", handler.Create)
		posts.PUT("/:id", handler.Update)
		posts.DELETE("/:id", handler.Delete)
		posts.POST("/:id/comments", handler.AddComment)
		posts.POST("/:id/like", handler.Like)
	}
}

type PostCreatedResponse struct {
	PostID int64 `json:"post_id"`
}

type CommentCreatedResponse struct {
	CommentID int64 `json:"comment_id"`
}

type LikesResponse struct {
	Likes int `json:"likes"`
}

// List godoc
// @Summary      List posts
// @Description  Newest first.
// @Tags         posts
// @Produce      json
// @Param        page      query     int  false  "Page (default 1)"
// @Param        per_page  query     int  false  "Page size (default 10, max 100)"
// @Success      200       {object}  response.Response{data=domain.PostPage}
// @Router       /posts [get]
func (h *PostHandler) List(c *gin.Context) {
	// Malformed values fall back to defaults
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.postUC.ListPosts(c.Request.Context(), page, perPage)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if result.Posts == nil {
		result.Posts = []domain.Post{}
	}

	response.Success(c, http.StatusOK, "Posts retrieved", result)
}

// Get godoc
// @Summary      Get a post with its comments
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response{data=domain.PostDetail}
// @Failure      404  {object}  response.Response
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.postUC.GetPost(c.Request.Context(), postID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if detail.Comments == nil {
		detail.Comments = []domain.Comment{}
	}

	response.Success(c, http.StatusOK, "Post retrieved", detail)
}

// Create godoc
// @Summary      Create a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        request  body      domain.CreatePostRequest  true  "Post"
// @Success      201      {object}  response.Response{data=PostCreatedResponse}
// @Failure      400      {object}  response.Response
// @Router       /posts [post]
// @Security     BearerAuth
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req domain.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postUC.CreatePost(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Post created", PostCreatedResponse{PostID: post.ID})
}

// Update godoc
// @Summary      Update own post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Post ID"
// @Param        request  body      domain.UpdatePostRequest  true  "Fields to change"
// @Success      200      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /posts/{id} [put]
// @Security     BearerAuth
func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req domain.UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.postUC.UpdatePost(c.Request.Context(), userID, postID, &req); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Post updated", nil)
}

// Delete godoc
// @Summary      Delete own post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /posts/{id} [delete]
// @Security     BearerAuth
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.postUC.DeletePost(c.Request.Context(), userID, postID); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Post deleted", nil)
}

// AddComment godoc
// @Summary      Comment on a post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Param        id       path      int                          true  "Post ID"
// @Param        request  body      domain.CreateCommentRequest  true  "Comment"
// @Success      201      {object}  response.Response{data=CommentCreatedResponse}
// @Failure      404      {object}  response.Response
// @Router       /posts/{id}/comments [post]
// @Security     BearerAuth
func (h *PostHandler) AddComment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req domain.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.postUC.AddComment(c.Request.Context(), userID, postID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Comment created", CommentCreatedResponse{CommentID: comment.ID})
}

// Like godoc
// @Summary      Like a post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  response.Response{data=LikesResponse}
// @Failure      404  {object}  response.Response
// @Router       /posts/{id}/like [post]
// @Security     BearerAuth
func (h *PostHandler) Like(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}
	postID, ok := pathID(c, "id")
	if !ok {
		return
	}

	likes, err := h.postUC.LikePost(c.Request.Context(), postID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Post liked", LikesResponse{Likes: likes})
}
