package v1

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"lion-connect-backend/internal/delivery/http/middleware"
	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/logger"
	"lion-connect-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// multipartSlack covers form boundaries and headers around the file part.
const multipartSlack = 1 << 20

type UserHandler struct {
	profileUC      domain.ProfileUsecase
	uploadLimiter  *security.UploadLimiter
	secLog         *security.Logger
	maxUploadBytes int64
}

// NewUserHandler registers profile and résumé routes. uploadLimiter and
// secLog may be nil.
func NewUserHandler(
	protected *gin.RouterGroup,
	profileUC domain.ProfileUsecase,
	uploadLimiter *security.UploadLimiter,
	secLog *security.Logger,
	maxUploadBytes int64,
) {
	handler := &UserHandler{
		profileUC:      profileUC,
		uploadLimiter:  uploadLimiter,
		secLog:         secLog,
		maxUploadBytes: maxUploadBytes,
	}

	user := protected.Group("/user")
	{
		user.GET("/profile", handler.GetProfile)
		user.PUT("/profile", handler.UpdateProfile)
		user.POST("/work-experience", handler.AddWorkExperience)
		user.POST("/project", handler.AddProject)
		user.POST("/education", handler.AddEducation)
		user.POST("/skill", handler.AddSkill)
		user.POST("/resume", handler.SaveResume)
		user.POST("/profile-image", handler.UploadProfileImage)
	}

	protected.GET("/users/:id", handler.GetPublicProfile)
}

type AddSkillRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

type ProfileImageResponse struct {
	ProfileImage string `json:"profile_image"`
}

// GetProfile godoc
// @Summary      Own profile
// @Tags         user
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      401  {object}  response.Response
// @Router       /user/profile [get]
// @Security     BearerAuth
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// GetPublicProfile godoc
// @Summary      Another user's profile
// @Description  Private profiles are only visible to their owner.
// @Tags         user
// @Produce      json
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      404  {object}  response.Response
// @Router       /users/{id} [get]
// @Security     BearerAuth
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	viewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.profileUC.GetPublicProfile(c.Request.Context(), viewerID, targetID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved", profile)
}

// UpdateProfile godoc
// @Summary      Update own profile
// @Description  Only the fields present in the body are changed.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request  body      domain.UpdateProfileRequest  true  "Fields to change"
// @Success      200      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /user/profile [put]
// @Security     BearerAuth
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req domain.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.profileUC.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile updated", user)
}

// AddWorkExperience godoc
// @Summary      Add a work experience
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request  body      domain.WorkExperience  true  "Work experience"
// @Success      201      {object}  response.Response{data=CreatedResponse}
// @Failure      400      {object}  response.Response
// @Router       /user/work-experience [post]
// @Security     BearerAuth
func (h *UserHandler) AddWorkExperience(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var exp domain.WorkExperience
	if !bindJSON(c, &exp) {
		return
	}

	if err := h.profileUC.AddWorkExperience(c.Request.Context(), userID, &exp); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Work experience added", CreatedResponse{ID: exp.ID})
}

// AddProject godoc
// @Summary      Add a project
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request  body      domain.Project  true  "Project"
// @Success      201      {object}  response.Response{data=CreatedResponse}
// @Failure      400      {object}  response.Response
// @Router       /user/project [post]
// @Security     BearerAuth
func (h *UserHandler) AddProject(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var project domain.Project
	if !bindJSON(c, &project) {
		return
	}

	if err := h.profileUC.AddProject(c.Request.Context(), userID, &project); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Project added", CreatedResponse{ID: project.ID})
}

// AddEducation godoc
// @Summary      Add an education entry
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request  body      domain.Education  true  "Education"
// @Success      201      {object}  response.Response{data=CreatedResponse}
// @Failure      400      {object}  response.Response
// @Router       /user/education [post]
// @Security     BearerAuth
func (h *UserHandler) AddEducation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var edu domain.Education
	if !bindJSON(c, &edu) {
		return
	}

	if err := h.profileUC.AddEducation(c.Request.Context(), userID, &edu); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Education added", CreatedResponse{ID: edu.ID})
}

// AddSkill godoc
// @Summary      Add a skill
// @Description  Adding a skill the user already has is a no-op.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request  body      AddSkillRequest  true  "Skill"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Router       /user/skill [post]
// @Security     BearerAuth
func (h *UserHandler) AddSkill(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddSkillRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.profileUC.AddSkill(c.Request.Context(), userID, req.Name); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Skill added", nil)
}

// SaveResume godoc
// @Summary      Replace the résumé
// @Description  Contact fields and every section are replaced in one transaction.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request  body      domain.Resume  true  "Résumé"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /user/resume [post]
// @Security     BearerAuth
func (h *UserHandler) SaveResume(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var resume domain.Resume
	if !bindJSON(c, &resume) {
		return
	}

	if err := h.profileUC.SaveResume(c.Request.Context(), userID, &resume); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Resume saved", nil)
}

// UploadProfileImage godoc
// @Summary      Upload a profile image
// @Description  png, jpg, jpeg or gif. Images are resized and stored as JPEG.
// @Tags         user
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Image"
// @Success      200   {object}  response.Response{data=ProfileImageResponse}
// @Failure      400   {object}  response.Response
// @Failure      429   {object}  response.Response
// @Router       /user/profile-image [post]
// @Security     BearerAuth
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	// 1. Identity
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// 2. Upload quota
	if h.uploadLimiter != nil {
		allowed, retryAfter, err := h.uploadLimiter.AllowUpload(ctx, c.ClientIP(), userID)
		if err != nil {
			logger.Log.Warn("upload limiter unavailable", zap.Error(err))
		}
		if !allowed {
			h.logRejected(c, userID, "rate_limited")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			_ = c.Error(apperror.TooManyRequests("Upload limit exceeded. Please try again later."))
			return
		}
	}

	// 3. Read file; the body is capped before multipart parsing spools it
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartSlack)
	}
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logRejected(c, userID, "too_large")
			_ = c.Error(apperror.BadRequest("File is too large"))
			return
		}
		_ = c.Error(apperror.BadRequest("No file uploaded"))
		return
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		h.logRejected(c, userID, "too_large")
		_ = c.Error(apperror.BadRequest("File is too large"))
		return
	}

	src, err := file.Open()
	if err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		_ = c.Error(apperror.Internal(err))
		return
	}

	// 4. Validate, compress, store
	url, err := h.profileUC.UploadProfileImage(ctx, userID, file.Filename, data)
	if err != nil {
		if apperror.KindOf(err) == apperror.KindBadRequest {
			h.logRejected(c, userID, err.Error())
		}
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Profile image updated", ProfileImageResponse{ProfileImage: url})
}

func (h *UserHandler) logRejected(c *gin.Context, userID int64, reason string) {
	if h.secLog == nil {
		return
	}
	h.secLog.LogUploadRejected(c.Request.Context(), strconv.FormatInt(userID, 10), c.ClientIP(), c.GetString(middleware.RequestIDKey), reason)
}
