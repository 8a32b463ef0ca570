package usecase

import (
	"context"
	"errors"
	"net/http"

	"lion-connect-backend/internal/domain"
	"lion-connect-backend/internal/domain/matching"
	"lion-connect-backend/pkg/apperror"
	"lion-connect-backend/pkg/monitoring"
)

// Match conflicts are rendered as 400 for existing clients; the kind stays conflict.
var (
	errDuplicatePending = apperror.Conflict("A pending match request already exists").WithStatus(http.StatusBadRequest)
	errAlreadyProcessed = apperror.Conflict("Match request already processed").WithStatus(http.StatusBadRequest)
)

type matchUsecase struct {
	userRepo  domain.UserRepository
	skillRepo domain.SkillRepository
	matchRepo domain.MatchRepository
	cache     domain.SuggestionCache
}

// NewMatchUsecase wires the match subsystem. cache may be nil.
func NewMatchUsecase(
	userRepo domain.UserRepository,
	skillRepo domain.SkillRepository,
	matchRepo domain.MatchRepository,
	cache domain.SuggestionCache,
) domain.MatchUsecase {
	return &matchUsecase{
		userRepo:  userRepo,
		skillRepo: skillRepo,
		matchRepo: matchRepo,
		cache:     cache,
	}
}

func (uc *matchUsecase) Suggestions(ctx context.Context, userID int64) ([]domain.Suggestion, error) {
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}

	// The generation is read before any skills, so a change committed while
	// this list is computed leaves it under a dead generation.
	var gen int64
	cached := false
	if uc.cache != nil {
		gen, cached = uc.cache.Generation(ctx)
	}
	if cached {
		if hit, ok := uc.cache.Get(ctx, gen, userID); ok {
			monitoring.SuggestionCache.WithLabelValues("hit").Inc()
			return hit, nil
		}
		monitoring.SuggestionCache.WithLabelValues("miss").Inc()
	}

	skills, err := uc.skillRepo.ForUser(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	candidates, err := uc.userRepo.ListExcept(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	suggestions := matching.Suggest(userID, skills, candidates)

	if cached {
		uc.cache.Set(ctx, gen, userID, suggestions)
	}
	return suggestions, nil
}

func (uc *matchUsecase) CreateRequest(ctx context.Context, requesterID, receiverID int64) (*domain.MatchRequest, error) {
	if requesterID == receiverID {
		return nil, apperror.BadRequest("Cannot send a match request to yourself")
	}

	if _, err := uc.userRepo.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Receiver not found")
		}
		return nil, apperror.Internal(err)
	}

	// Fast path; the unique index below is what actually guarantees a single pending request.
	existing, err := uc.matchRepo.FindPending(ctx, requesterID, receiverID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if existing != nil {
		monitoring.MatchRequests.WithLabelValues(monitoring.MatchDuplicate).Inc()
		return nil, errDuplicatePending
	}

	m := &domain.MatchRequest{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      domain.MatchStatusPending,
	}
	if err := uc.matchRepo.Insert(ctx, m); err != nil {
		if errors.Is(err, domain.ErrDuplicatePendingMatch) {
			monitoring.MatchRequests.WithLabelValues(monitoring.MatchDuplicate).Inc()
			return nil, errDuplicatePending
		}
		return nil, apperror.Internal(err)
	}

	monitoring.MatchRequests.WithLabelValues(monitoring.MatchCreated).Inc()
	return m, nil
}

func (uc *matchUsecase) ListRequests(ctx context.Context, userID int64) (*domain.MatchRequestList, error) {
	received, err := uc.matchRepo.ListByReceiver(ctx, userID, domain.MatchStatusPending)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	sent, err := uc.matchRepo.ListByRequester(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	list := &domain.MatchRequestList{
		Received: make([]domain.ReceivedMatchRequest, 0, len(received)),
		Sent:     make([]domain.SentMatchRequest, 0, len(sent)),
	}
	for _, m := range received {
		list.Received = append(list.Received, domain.ReceivedMatchRequest{
			ID:        m.ID,
			Requester: domain.UserSummary{ID: m.RequesterID, Name: m.CounterpartName},
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
		})
	}
	for _, m := range sent {
		list.Sent = append(list.Sent, domain.SentMatchRequest{
			ID:        m.ID,
			Receiver:  domain.UserSummary{ID: m.ReceiverID, Name: m.CounterpartName},
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
		})
	}
	return list, nil
}

// Respond checks existence, then the responder, then the current status.
func (uc *matchUsecase) Respond(ctx context.Context, matchID, responderID int64, decision domain.MatchDecision) (*domain.MatchRequest, error) {
	status, ok := decision.Status()
	if !ok {
		return nil, apperror.BadRequest("Response must be 'accept' or 'reject'")
	}

	m, err := uc.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Match request not found")
		}
		return nil, apperror.Internal(err)
	}

	if m.ReceiverID != responderID {
		return nil, apperror.Forbidden("You do not have permission to respond to this request")
	}

	if m.Status != domain.MatchStatusPending {
		monitoring.MatchRequests.WithLabelValues(monitoring.MatchStale).Inc()
		return nil, errAlreadyProcessed
	}

	updated, err := uc.matchRepo.UpdateStatus(ctx, matchID, status)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMatchNotPending):
			monitoring.MatchRequests.WithLabelValues(monitoring.MatchStale).Inc()
			return nil, errAlreadyProcessed
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Match request not found")
		}
		return nil, apperror.Internal(err)
	}

	if status == domain.MatchStatusAccepted {
		monitoring.MatchRequests.WithLabelValues(monitoring.MatchAccepted).Inc()
	} else {
		monitoring.MatchRequests.WithLabelValues(monitoring.MatchRejected).Inc()
	}
	return updated, nil
}
