package v1

import (
	"net/http"

	"lion-connect-backend/internal/delivery/http/middleware"
	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers /auth routes. loginLimit guards the credential
// endpoints and may be nil.
func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, loginLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth")
	if loginLimit != nil {
		publicAuth.Use(loginLimit)
	}
	{
		publicAuth.POST("/signup", handler.Signup)
		publicAuth.POST("/login", handler.Login)
	}

	protected.GET("/auth/me", handler.Me)
}

// Signup godoc
// @Summary      Register a user
// @Description  Students must list skills and a course; companies must fill every company field.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.SignupRequest  true  "Signup details"
// @Success      201      {object}  response.Response{data=domain.User}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req domain.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authUC.Signup(c.Request.Context(), &req)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "User registered successfully", user)
}

// Login godoc
// @Summary      Log in
// @Description  Returns a bearer token. Repeated failures block the account for a while.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=domain.AuthResult}
// @Failure      401      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	meta := domain.LoginMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(middleware.RequestIDKey),
	}

	result, err := h.authUC.Login(c.Request.Context(), &req, meta)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Login successful", result)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Failure      401  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.authUC.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "User retrieved", user)
}
