package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActionStatus is the lifecycle state of a ModerationAction.
type ActionStatus string

const (
	ActionStatusActive   ActionStatus = "ACTIVE"
	ActionStatusAppealed ActionStatus = "APPEALED"
	ActionStatusReversed ActionStatus = "REVERSED"
)

// ModerationAction is a moderation decision already taken against a piece of
// content or a user. It is created elsewhere in ACTIVE state; the appeal
// workflow only moves it to APPEALED or REVERSED.
type ModerationAction struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	// TargetType and TargetID describe what was acted upon.
	TargetType string `gorm:"type:varchar(32);not null;index:idx_action_target"`
	TargetID   string `gorm:"type:varchar(64);not null;index:idx_action_target"`

	ActionType string `gorm:"type:varchar(32);not null"`
	Severity   string `gorm:"type:varchar(32);not null"`
	// Reasoning is only ever appended to by the appeal workflow.
	Reasoning string `gorm:"type:text;not null"`

	AIRecommended bool
	AIConfidence  *float64

	Status ActionStatus `gorm:"type:varchar(16);not null;index"`

	ApprovedBy *string    `gorm:"type:varchar(36)"`
	Approver   *Moderator `gorm:"foreignKey:ApprovedBy"`
	ApprovedAt *time.Time
	ExecutedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BeforeCreate generates a UUID for the action if none is set and defaults
// the status to ACTIVE.
func (a *ModerationAction) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.Status == "" {
		a.Status = ActionStatusActive
	}
	return
}
