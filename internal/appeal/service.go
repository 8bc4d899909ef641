// Package appeal implements the moderation appeal workflow: users contest a
// moderation action, moderators claim and review the appeal, and an upheld
// appeal reverses the action.
package appeal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deliberate/backend/internal/config"
	"deliberate/backend/internal/events"
	"deliberate/backend/internal/models"
	"deliberate/backend/internal/storage"

	"go.uber.org/zap"
)

// DefaultPublishTimeout bounds a single event publication.
const DefaultPublishTimeout = 3 * time.Second

// Service handles the business logic for appeals.
type Service struct {
	Storage    storage.Storage
	Moderators storage.ModeratorDirectory
	Publisher  events.Publisher
	Logger     *zap.Logger

	Now            func() time.Time
	PublishTimeout time.Duration

	DefaultPageSize int
	MaxPageSize     int
}

// NewService creates a new appeal service.
func NewService(s storage.Storage, moderators storage.ModeratorDirectory, publisher events.Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Storage:         s,
		Moderators:      moderators,
		Publisher:       publisher,
		Logger:          logger.Named("appeal"),
		Now:             time.Now,
		PublishTimeout:  DefaultPublishTimeout,
		DefaultPageSize: config.DefaultPageSize,
		MaxPageSize:     config.MaxPageSize,
	}
}

func (s *Service) now() time.Time {
	return s.Now().UTC().Truncate(time.Microsecond)
}

// CreateAppeal files a new PENDING appeal against a moderation action and
// marks the action APPEALED.
func (s *Service) CreateAppeal(ctx context.Context, actionID, appellantID, reason string) (*AppealResponse, error) {
	if err := (createAppealInput{ActionID: actionID, AppellantID: appellantID, Reason: reason}).Validate(); err != nil {
		return nil, validationError(err)
	}

	action, err := s.Storage.GetModerationAction(ctx, actionID)
	if err != nil {
		return nil, fromStorage(fmt.Sprintf("moderation action %s", actionID), err)
	}
	if action.Status == models.ActionStatusReversed {
		return nil, newError(ErrConflict, nil, "moderation action %s has already been reversed", actionID)
	}

	latest, err := s.Storage.GetLatestAppealForAction(ctx, actionID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, operationalError("load latest appeal", err)
	case latest.Status.IsOpen():
		return nil, newError(ErrConflict, nil, "moderation action %s already has an open appeal %s", actionID, latest.ID)
	}

	appeal := &models.Appeal{
		ModerationActionID: actionID,
		AppellantID:        appellantID,
		Reason:             reason,
		CreatedAt:          s.now(),
	}
	if err := s.Storage.CreateAppeal(ctx, appeal); err != nil {
		return nil, fromStorage(fmt.Sprintf("create appeal for moderation action %s", actionID), err)
	}

	appealTransitions.WithLabelValues(string(models.AppealStatusPending)).Inc()
	s.Logger.Info("appeal created",
		zap.String("appeal_id", appeal.ID),
		zap.String("moderation_action_id", actionID),
		zap.String("appellant_id", appellantID))
	return ToAppealResponse(appeal), nil
}

// GetPendingAppeals lists PENDING appeals in creation order, optionally only
// those whose reviewer is assignedModeratorID.
func (s *Service) GetPendingAppeals(ctx context.Context, pageSize int, cursor, assignedModeratorID string) (*AppealPageResponse, error) {
	filter := storage.AppealFilter{
		Statuses: []models.AppealStatus{models.AppealStatusPending},
		Cursor:   cursor,
	}
	if assignedModeratorID != "" {
		filter.ReviewerID = &assignedModeratorID
	}
	return s.listAppeals(ctx, pageSize, filter)
}

// GetAppealsByAppellant lists every appeal filed by appellantID, oldest first.
func (s *Service) GetAppealsByAppellant(ctx context.Context, appellantID string, pageSize int, cursor string) (*AppealPageResponse, error) {
	if appellantID == "" {
		return nil, newError(ErrValidation, nil, "appellantId: cannot be blank")
	}
	return s.listAppeals(ctx, pageSize, storage.AppealFilter{
		AppellantID: &appellantID,
		Cursor:      cursor,
	})
}

func (s *Service) listAppeals(ctx context.Context, pageSize int, filter storage.AppealFilter) (*AppealPageResponse, error) {
	if err := (pageInput{PageSize: pageSize, max: s.MaxPageSize}).Validate(); err != nil {
		return nil, validationError(err)
	}
	if pageSize == 0 {
		pageSize = s.DefaultPageSize
	}
	filter.Limit = pageSize

	page, err := s.Storage.ListAppeals(ctx, filter)
	if err != nil {
		return nil, fromStorage("list appeals", err)
	}

	res := &AppealPageResponse{
		Items:      make([]*AppealResponse, 0, len(page.Items)),
		TotalCount: page.Total,
	}
	for _, a := range page.Items {
		res.Items = append(res.Items, ToAppealResponseWithAction(a))
	}
	if len(page.Items) == pageSize {
		last := page.Items[len(page.Items)-1].ID
		res.NextCursor = &last
	}
	return res, nil
}

// AssignAppealToModerator claims a PENDING appeal for a moderator. When two
// moderators race, the loser gets ErrConflict.
func (s *Service) AssignAppealToModerator(ctx context.Context, appealID, moderatorID string) (*AppealResponse, error) {
	if appealID == "" || moderatorID == "" {
		return nil, newError(ErrValidation, nil, "appealId and moderatorId are required")
	}

	appeal, err := s.Storage.GetAppealByID(ctx, appealID)
	if err != nil {
		return nil, fromStorage(fmt.Sprintf("appeal %s", appealID), err)
	}
	if appeal.Status != models.AppealStatusPending {
		return nil, newError(ErrConflict, nil, "appeal %s is %s, only PENDING appeals can be assigned", appealID, appeal.Status)
	}

	ok, err := s.Moderators.ModeratorExists(ctx, moderatorID)
	if err != nil {
		return nil, operationalError("look up moderator", err)
	}
	if !ok {
		return nil, newError(ErrNotFound, nil, "moderator %s", moderatorID)
	}

	updated, err := s.Storage.AssignAppeal(ctx, appealID, moderatorID)
	if err != nil {
		return nil, fromStorage(fmt.Sprintf("assign appeal %s", appealID), err)
	}

	appealTransitions.WithLabelValues(string(models.AppealStatusUnderReview)).Inc()
	s.Logger.Info("appeal assigned", zap.String("appeal_id", appealID), zap.String("moderator_id", moderatorID))
	return ToAppealResponse(updated), nil
}

// UnassignAppeal releases an UNDER_REVIEW appeal back to the PENDING queue.
func (s *Service) UnassignAppeal(ctx context.Context, appealID string) (*AppealResponse, error) {
	appeal, err := s.Storage.GetAppealByID(ctx, appealID)
	if err != nil {
		return nil, fromStorage(fmt.Sprintf("appeal %s", appealID), err)
	}
	if appeal.Status != models.AppealStatusUnderReview {
		return nil, newError(ErrConflict, nil, "appeal %s is %s, only UNDER_REVIEW appeals can be unassigned", appealID, appeal.Status)
	}

	updated, err := s.Storage.UnassignAppeal(ctx, appealID)
	if err != nil {
		return nil, fromStorage(fmt.Sprintf("unassign appeal %s", appealID), err)
	}

	appealTransitions.WithLabelValues(string(models.AppealStatusPending)).Inc()
	s.Logger.Info("appeal unassigned", zap.String("appeal_id", appealID))
	return ToAppealResponse(updated), nil
}

// ReviewAppeal resolves an open appeal. The reviewer must be a known
// moderator. Upholding reverses the moderation
// action and asks for the appellant's trust to be re-evaluated; a failed
// publication is logged and never fails the review.
func (s *Service) ReviewAppeal(ctx context.Context, appealID, reviewerID string, decision models.ReviewDecision, decisionReasoning string) (*AppealResponse, error) {
	in := reviewInput{AppealID: appealID, ReviewerID: reviewerID, Decision: decision, DecisionReasoning: decisionReasoning}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	appeal, err := s.Storage.GetAppealByID(ctx, appealID)
	if err != nil {
		return nil, fromStorage(fmt.Sprintf("appeal %s", appealID), err)
	}
	if !appeal.Status.IsOpen() {
		return nil, newError(ErrConflict, nil, "appeal %s has already been resolved as %s", appealID, appeal.Status)
	}

	ok, err := s.Moderators.ModeratorExists(ctx, reviewerID)
	if err != nil {
		return nil, operationalError("look up moderator", err)
	}
	if !ok {
		return nil, newError(ErrNotFound, nil, "moderator %s", reviewerID)
	}

	res := storage.AppealResolution{
		Status:            decision.Status(),
		ReviewerID:        reviewerID,
		DecisionReasoning: decisionReasoning,
		ResolvedAt:        s.now(),
	}
	if decision == models.DecisionUpheld {
		res.ReversalNote = fmt.Sprintf("%s Appeal %s upheld by moderator %s: %s",
			config.UpheldReasoningMarker, appealID, reviewerID, decisionReasoning)
	}

	updated, err := s.Storage.ResolveAppeal(ctx, appealID, res)
	if err != nil {
		return nil, fromStorage(fmt.Sprintf("resolve appeal %s", appealID), err)
	}

	appealTransitions.WithLabelValues(string(updated.Status)).Inc()
	s.Logger.Info("appeal reviewed",
		zap.String("appeal_id", appealID),
		zap.String("reviewer_id", reviewerID),
		zap.String("decision", string(decision)))

	if decision == models.DecisionUpheld {
		s.publishTrustReevaluation(ctx, updated)
	}
	return ToAppealResponse(updated), nil
}

// publishTrustReevaluation runs after the resolution is committed. Errors and
// panics from the publisher stop here.
func (s *Service) publishTrustReevaluation(ctx context.Context, a *models.Appeal) {
	if s.Publisher == nil {
		return
	}
	log := s.Logger.With(
		zap.String("appeal_id", a.ID),
		zap.String("event_type", models.EventTypeTrustReevaluation))

	defer func() {
		if r := recover(); r != nil {
			eventPublishFailures.WithLabelValues(models.EventTypeTrustReevaluation).Inc()
			log.Error("event publisher panicked", zap.Any("panic", r))
		}
	}()

	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.PublishTimeout)
	defer cancel()

	err := s.Publisher.Publish(pctx, models.EventTypeTrustReevaluation, models.TrustReevaluation{
		UserID:             a.AppellantID,
		Reason:             models.TrustReasonAppealUpheld,
		AppealID:           a.ID,
		ModerationActionID: a.ModerationActionID,
	})
	if err != nil {
		eventPublishFailures.WithLabelValues(models.EventTypeTrustReevaluation).Inc()
		log.Error("failed to publish event", zap.Error(err))
	}
}

// GetAppealByID returns the appeal with its moderation action, or nil if it
// does not exist.
func (s *Service) GetAppealByID(ctx context.Context, appealID string) (*AppealResponse, error) {
	if appealID == "" {
		return nil, nil
	}
	appeal, err := s.Storage.GetAppealByID(ctx, appealID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, operationalError("get appeal", err)
	}
	return ToAppealResponseWithAction(appeal), nil
}
