package v1

import (
	"net/http"

	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type SkillHandler struct {
	skillUC domain.SkillUsecase
}

func NewSkillHandler(public *gin.RouterGroup, skillUC domain.SkillUsecase) {
	handler := &SkillHandler{skillUC: skillUC}
	public.GET("/skills", handler.List)
}

type SkillsResponse struct {
	Skills []string `json:"skills"`
}

// List godoc
// @Summary      Skill dictionary
// @Description  Every known skill name, for autocomplete.
// @Tags         skills
// @Produce      json
// @Success      200  {object}  response.Response{data=SkillsResponse}
// @Router       /skills [get]
func (h *SkillHandler) List(c *gin.Context) {
	skills, err := h.skillUC.ListSkills(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}

	response.Success(c, http.StatusOK, "Skills retrieved", SkillsResponse{Skills: names})
}
