package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppealStatus is the state of an Appeal.
type AppealStatus string

const (
	AppealStatusPending     AppealStatus = "PENDING"
	AppealStatusUnderReview AppealStatus = "UNDER_REVIEW"
	AppealStatusUpheld      AppealStatus = "UPHELD"
	AppealStatusDenied      AppealStatus = "DENIED"
)

// AppealStatuses lists every status in lifecycle order.
var AppealStatuses = []AppealStatus{
	AppealStatusPending,
	AppealStatusUnderReview,
	AppealStatusUpheld,
	AppealStatusDenied,
}

// OpenAppealStatuses are the non-terminal statuses. At most one appeal per
// moderation action may be in one of them.
var OpenAppealStatuses = []AppealStatus{AppealStatusPending, AppealStatusUnderReview}

// IsOpen reports whether the appeal can still change state.
func (s AppealStatus) IsOpen() bool {
	return s == AppealStatusPending || s == AppealStatusUnderReview
}

// IsTerminal reports whether the appeal has been resolved.
func (s AppealStatus) IsTerminal() bool {
	return s == AppealStatusUpheld || s == AppealStatusDenied
}

// Valid reports whether s is a known status.
func (s AppealStatus) Valid() bool {
	return s.IsOpen() || s.IsTerminal()
}

// ReviewDecision is the outcome a moderator picks when reviewing an appeal.
type ReviewDecision string

const (
	DecisionUpheld ReviewDecision = "upheld"
	DecisionDenied ReviewDecision = "denied"
)

// Status maps the decision onto the terminal appeal status it produces.
// Unknown decisions map to the empty status.
func (d ReviewDecision) Status() AppealStatus {
	switch d {
	case DecisionUpheld:
		return AppealStatusUpheld
	case DecisionDenied:
		return AppealStatusDenied
	default:
		return ""
	}
}

// Appeal is one contestation of a ModerationAction by the user it targeted.
type Appeal struct {
	ID string `gorm:"primaryKey;type:varchar(36)"`

	ModerationActionID string            `gorm:"type:varchar(36);not null;index:idx_appeal_action_created"`
	ModerationAction   *ModerationAction `gorm:"foreignKey:ModerationActionID"`

	AppellantID string       `gorm:"type:varchar(64);not null;index"`
	Reason      string       `gorm:"type:text;not null"`
	Status      AppealStatus `gorm:"type:varchar(16);not null;index:idx_appeal_status_created"`

	// ReviewerID is nil while the appeal is PENDING.
	ReviewerID        *string `gorm:"type:varchar(36);index"`
	DecisionReasoning *string `gorm:"type:text"`

	CreatedAt  time.Time `gorm:"not null;index:idx_appeal_action_created;index:idx_appeal_status_created"`
	ResolvedAt *time.Time
}

// BeforeCreate generates a UUID for the appeal if none is set.
func (a *Appeal) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
