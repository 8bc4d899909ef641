package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"deliberate/backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReasoningSeparator joins the original reasoning of a moderation action and
// the note appended when an appeal against it is upheld.
const ReasoningSeparator = "\n\n"

// AppealResolution is the terminal write applied by ResolveAppeal.
type AppealResolution struct {
	Status            models.AppealStatus
	ReviewerID        string
	DecisionReasoning string
	ResolvedAt        time.Time
	// ReversalNote is appended to the action's reasoning when Status is UPHELD.
	ReversalNote string
}

// GetAppealByID returns the appeal with its moderation action, or ErrNotFound.
func (s *Service) GetAppealByID(ctx context.Context, id string) (*models.Appeal, error) {
	var appeal models.Appeal
	err := s.DB.WithContext(ctx).
		Preload("ModerationAction.Approver").
		Where("id = ?", id).
		First(&appeal).Error
	if err != nil {
		return nil, convertError(err)
	}
	return &appeal, nil
}

// GetLatestAppealForAction returns the most recently created appeal against
// the action, or ErrNotFound if it was never appealed.
func (s *Service) GetLatestAppealForAction(ctx context.Context, actionID string) (*models.Appeal, error) {
	var appeal models.Appeal
	err := s.DB.WithContext(ctx).
		Where("moderation_action_id = ?", actionID).
		Order("created_at DESC, id DESC").
		First(&appeal).Error
	if err != nil {
		return nil, convertError(err)
	}
	return &appeal, nil
}

// CreateAppeal inserts a PENDING appeal and flips its moderation action to
// APPEALED in one transaction. It returns ErrNotFound if the action does not
// exist and ErrConflict if the action is REVERSED or already has an open appeal.
func (s *Service) CreateAppeal(ctx context.Context, appeal *models.Appeal) error {
	appeal.Status = models.AppealStatusPending
	appeal.ReviewerID = nil
	appeal.DecisionReasoning = nil
	appeal.ResolvedAt = nil
	if appeal.CreatedAt.IsZero() {
		appeal.CreatedAt = s.now()
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Locks the action row, so concurrent creators for the same action queue here.
		res := tx.Model(&models.ModerationAction{}).
			Where("id = ? AND status <> ?", appeal.ModerationActionID, models.ActionStatusReversed).
			Update("status", models.ActionStatusAppealed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.ModerationAction{}).Where("id = ?", appeal.ModerationActionID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return fmt.Errorf("%w: moderation action %s is reversed", ErrConflict, appeal.ModerationActionID)
		}

		var open int64
		if err := tx.Model(&models.Appeal{}).
			Where("moderation_action_id = ? AND status IN ?", appeal.ModerationActionID, models.OpenAppealStatuses).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("%w: moderation action %s already has an open appeal", ErrConflict, appeal.ModerationActionID)
		}

		// ux_appeals_open_per_action backs the count above.
		if err := tx.Omit(clause.Associations).Create(appeal).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: moderation action %s already has an open appeal", ErrConflict, appeal.ModerationActionID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Logger.Debug("appeal created",
		zap.String("appeal_id", appeal.ID),
		zap.String("moderation_action_id", appeal.ModerationActionID))
	return nil
}

// AssignAppeal claims a PENDING appeal for moderatorID. The write is
// conditioned on the appeal still being PENDING.
func (s *Service) AssignAppeal(ctx context.Context, id, moderatorID string) (*models.Appeal, error) {
	res := s.DB.WithContext(ctx).Model(&models.Appeal{}).
		Where("id = ? AND status = ?", id, models.AppealStatusPending).
		Updates(map[string]interface{}{
			"status":      models.AppealStatusUnderReview,
			"reviewer_id": moderatorID,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, s.transitionMiss(ctx, s.DB, id)
	}
	return s.GetAppealByID(ctx, id)
}

// UnassignAppeal returns an UNDER_REVIEW appeal to the PENDING queue.
func (s *Service) UnassignAppeal(ctx context.Context, id string) (*models.Appeal, error) {
	res := s.DB.WithContext(ctx).Model(&models.Appeal{}).
		Where("id = ? AND status = ?", id, models.AppealStatusUnderReview).
		Updates(map[string]interface{}{
			"status":      models.AppealStatusPending,
			"reviewer_id": nil,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, s.transitionMiss(ctx, s.DB, id)
	}
	return s.GetAppealByID(ctx, id)
}

// ResolveAppeal moves an open appeal to its terminal status. For UPHELD the
// moderation action is reversed and res.ReversalNote appended to its reasoning
// inside the same transaction.
func (s *Service) ResolveAppeal(ctx context.Context, id string, res AppealResolution) (*models.Appeal, error) {
	if !res.Status.IsTerminal() {
		return nil, fmt.Errorf("resolve appeal %s: %q is not a terminal status", id, res.Status)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appeal models.Appeal
		if err := tx.Select("id", "moderation_action_id").Where("id = ?", id).First(&appeal).Error; err != nil {
			return convertError(err)
		}

		upd := tx.Model(&models.Appeal{}).
			Where("id = ? AND status IN ?", id, models.OpenAppealStatuses).
			Updates(map[string]interface{}{
				"status":             res.Status,
				"reviewer_id":        res.ReviewerID,
				"decision_reasoning": res.DecisionReasoning,
				"resolved_at":        res.ResolvedAt,
			})
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected == 0 {
			return s.transitionMiss(ctx, tx, id)
		}

		if res.Status != models.AppealStatusUpheld {
			return nil
		}
		rev := tx.Model(&models.ModerationAction{}).
			Where("id = ?", appeal.ModerationActionID).
			Updates(map[string]interface{}{
				"status":    models.ActionStatusReversed,
				"reasoning": gorm.Expr("reasoning || ?", ReasoningSeparator+res.ReversalNote),
			})
		if rev.Error != nil {
			return rev.Error
		}
		if rev.RowsAffected == 0 {
			return fmt.Errorf("reverse moderation action %s: %w", appeal.ModerationActionID, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetAppealByID(ctx, id)
}

// transitionMiss explains why a conditional appeal update matched no rows.
func (s *Service) transitionMiss(ctx context.Context, db *gorm.DB, id string) error {
	var appeal models.Appeal
	err := db.WithContext(ctx).Select("id", "status").Where("id = ?", id).First(&appeal).Error
	if err != nil {
		return convertError(err)
	}
	return fmt.Errorf("%w: appeal %s is %s", ErrConflict, id, appeal.Status)
}
