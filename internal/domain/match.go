package domain

import (
	"context"
	"time"
)

type MatchStatus string

// Match request status constants
const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusAccepted MatchStatus = "accepted"
	MatchStatusRejected MatchStatus = "rejected"
)

// MatchDecision is the receiver's answer to a pending request.
type MatchDecision string

const (
	MatchDecisionAccept MatchDecision = "accept"
	MatchDecisionReject MatchDecision = "reject"
)

// Status maps a decision to the terminal status it produces.
func (d MatchDecision) Status() (MatchStatus, bool) {
	switch d {
	case MatchDecisionAccept:
		return MatchStatusAccepted, true
	case MatchDecisionReject:
		return MatchStatusRejected, true
	}
	return "", false
}

// MatchRequest is a directed proposal from requester to receiver.
// Status moves pending → accepted | rejected exactly once.
type MatchRequest struct {
	ID          int64       `json:"id"`
	RequesterID int64       `json:"requester_id"`
	ReceiverID  int64       `json:"receiver_id"`
	Status      MatchStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Joined counterpart name for list responses
	CounterpartName string `json:"-"`
}

// Suggestion is a candidate user sharing at least one skill with the requester.
type Suggestion struct {
	User           UserSummary `json:"user"`
	MatchingSkills []string    `json:"matching_skills"`
}

type ReceivedMatchRequest struct {
	ID        int64       `json:"id"`
	Requester UserSummary `json:"requester"`
	Status    MatchStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type SentMatchRequest struct {
	ID        int64       `json:"id"`
	Receiver  UserSummary `json:"receiver"`
	Status    MatchStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}

type MatchRequestList struct {
	Received []ReceivedMatchRequest `json:"received_requests"`
	Sent     []SentMatchRequest     `json:"sent_requests"`
}

type MatchRepository interface {
	// Insert stores a pending request. Returns ErrDuplicatePendingMatch when the
	// ordered pair already has a pending request.
	Insert(ctx context.Context, m *MatchRequest) error
	FindPending(ctx context.Context, requesterID, receiverID int64) (*MatchRequest, error)
	GetByID(ctx context.Context, id int64) (*MatchRequest, error)
	ListByReceiver(ctx context.Context, receiverID int64, status MatchStatus) ([]MatchRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]MatchRequest, error)
	// UpdateStatus moves a pending request to status. Returns ErrMatchNotPending
	// when the request has already left pending, ErrNotFound when it does not exist.
	UpdateStatus(ctx context.Context, id int64, status MatchStatus) (*MatchRequest, error)
}

// SuggestionCache stores computed suggestions for a short time. Entries are
// tagged with a generation read before the lists were computed; Invalidate
// starts a new generation, so no list computed before a skill or profile change
// is served after it. Implementations must treat misses and backend failures
// the same way.
type SuggestionCache interface {
	// Generation reports the current generation; ok is false when the backend
	// cannot answer, in which case callers skip the cache.
	Generation(ctx context.Context) (gen int64, ok bool)
	Get(ctx context.Context, gen, userID int64) ([]Suggestion, bool)
	Set(ctx context.Context, gen, userID int64, suggestions []Suggestion)
	// Invalidate drops every cached list.
	Invalidate(ctx context.Context)
}

type MatchUsecase interface {
	Suggestions(ctx context.Context, userID int64) ([]Suggestion, error)
	CreateRequest(ctx context.Context, requesterID, receiverID int64) (*MatchRequest, error)
	ListRequests(ctx context.Context, userID int64) (*MatchRequestList, error)
	Respond(ctx context.Context, matchID, responderID int64, decision MatchDecision) (*MatchRequest, error)
}
