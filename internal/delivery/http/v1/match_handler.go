package v1

import (
	"net/http"

	"lion-connect-backend/internal/delivery/http/response"
	"lion-connect-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUC domain.MatchUsecase
}

func NewMatchHandler(protected *gin.RouterGroup, matchUC domain.MatchUsecase) {
	handler := &MatchHandler{matchUC: matchUC}

	match := protected.Group("/match")
	{
		match.GET("/suggestions", handler.Suggestions)
		match.POST("/request", handler.CreateRequest)
		match.GET("/requests", handler.ListRequests)
		match.POST("/:match_id/respond", handler.Respond)
	}
}

type CreateMatchRequest struct {
	ReceiverID int64 `json:"receiver_id" binding:"required,gt=0"`
}

type RespondMatchRequest struct {
	Response domain.MatchDecision `json:"response" binding:"required"`
}

type SuggestionsResponse struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

type CreateMatchResponse struct {
	MatchID int64 `json:"match_id"`
}

type RespondMatchResponse struct {
	MatchID int64              `json:"match_id"`
	Status  domain.MatchStatus `json:"status"`
}

// Suggestions godoc
// @Summary      Match suggestions
// @Description  Users sharing at least one skill with the caller, most shared skills first.
// @Tags         match
// @Produce      json
// @Success      200  {object}  response.Response{data=SuggestionsResponse}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /match/suggestions [get]
// @Security     BearerAuth
func (h *MatchHandler) Suggestions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	suggestions, err := h.matchUC.Suggestions(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if suggestions == nil {
		suggestions = []domain.Suggestion{}
	}

	response.Success(c, http.StatusOK, "Suggestions retrieved", SuggestionsResponse{Suggestions: suggestions})
}

// CreateRequest godoc
// @Summary      Send a match request
// @Tags         match
// @Accept       json
// @Produce      json
// @Param        request  body      CreateMatchRequest  true  "Receiver"
// @Success      201      {object}  response.Response{data=CreateMatchResponse}
// @Failure      400      {object}  response.Response "duplicate pending request or self request"
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /match/request [post]
// @Security     BearerAuth
func (h *MatchHandler) CreateRequest(c *gin.Context) {
	// 1. Identity
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	// 2. Payload
	var req CreateMatchRequest
	if !bindJSON(c, &req) {
		return
	}

	// 3. Create
	match, err := h.matchUC.CreateRequest(c.Request.Context(), userID, req.ReceiverID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusCreated, "Match request sent", CreateMatchResponse{MatchID: match.ID})
}

// ListRequests godoc
// @Summary      Match requests
// @Description  Pending requests received by the caller and every request the caller sent.
// @Tags         match
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.MatchRequestList}
// @Failure      401  {object}  response.Response
// @Router       /match/requests [get]
// @Security     BearerAuth
func (h *MatchHandler) ListRequests(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	list, err := h.matchUC.ListRequests(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Match requests retrieved", list)
}

// Respond godoc
// @Summary      Accept or reject a match request
// @Tags         match
// @Accept       json
// @Produce      json
// @Param        match_id  path      int                  true  "Match request ID"
// @Param        request   body      RespondMatchRequest  true  "accept or reject"
// @Success      200       {object}  response.Response{data=RespondMatchResponse}
// @Failure      400       {object}  response.Response "invalid decision or already processed"
// @Failure      401       {object}  response.Response
// @Failure      403       {object}  response.Response
// @Failure      404       {object}  response.Response
// @Router       /match/{match_id}/respond [post]
// @Security     BearerAuth
func (h *MatchHandler) Respond(c *gin.Context) {
	// 1. Identity and target
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	matchID, ok := pathID(c, "match_id")
	if !ok {
		return
	}

	// 2. Payload
	var req RespondMatchRequest
	if !bindJSON(c, &req) {
		return
	}

	// 3. Transition
	match, err := h.matchUC.Respond(c.Request.Context(), matchID, userID, req.Response)
	if err != nil {
		_ = c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Match request "+string(match.Status), RespondMatchResponse{
		MatchID: match.ID,
		Status:  match.Status,
	})
}
