package v1

import (
	"net/http"

	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type CompanyProfileHandler struct {
	profileUC domain.CompanyProfileUsecase
}

// NewCompanyProfileHandler registers company profile routes
func NewCompanyProfileHandler(protected *gin.RouterGroup, profileUC domain.CompanyProfileUsecase) {
	handler := &CompanyProfileHandler{profileUC: profileUC}

	company := protected.Group("/company")
	{
		company.GET("/profile", handler.GetProfile)
		company.PUT("/profile", handler.UpdateProfile)
	}
}

// CompanyProfileRequest matches the frontend input for company profile updates
type CompanyProfileRequest struct {
	CompanyName        string `json:"company_name" binding:"required"`
	CompanyDescription string `json:"company_description" binding:"required"`
	Industry           string `json:"industry" binding:"required"`
	CompanySize        string `json:"company_size" binding:"required"`
	CompanyWebsite     string `json:"company_website" binding:"required"`
}

// GetProfile godoc
// @Summary Get own company profile
// @Tags Company Profile
// @Produce json
// @Success 200 {object} response.Response{data=domain.CompanyProfile}
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /company/profile [get]
// @Security BearerAuth
func (h *CompanyProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileUC.GetProfile(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Company profile retrieved", profile)
}

// UpdateProfile godoc
// @Summary Create or update company profile
// @Tags Company Profile
// @Accept json
// @Produce json
// @Param request body CompanyProfileRequest true "Profile data"
// @Success 200 {object} response.Response{data=domain.CompanyProfile}
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /company/profile [put]
// @Security BearerAuth
func (h *CompanyProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CompanyProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile := &domain.CompanyProfile{
		CompanyName:        req.CompanyName,
		CompanyDescription: req.CompanyDescription,
		Industry:           req.Industry,
		CompanySize:        req.CompanySize,
		CompanyWebsite:     req.CompanyWebsite,
	}

	if err := h.profileUC.UpdateProfile(c.Request.Context(), userID, profile); err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Company profile updated", profile)
}
