package appeal

import (
	"time"

	"deliberate/backend/internal/models"
)

// TimestampLayout renders every timestamp in responses: RFC 3339, UTC,
// millisecond precision. Fixed width, so lexical order is time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// ApproverResponse identifies the moderator who approved an action.
type ApproverResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ModerationActionResponse is the caller-facing view of a moderation action.
type ModerationActionResponse struct {
	ID            string            `json:"id"`
	TargetType    string            `json:"targetType"`
	TargetID      string            `json:"targetId"`
	ActionType    string            `json:"actionType"`
	Severity      string            `json:"severity"`
	Reasoning     string            `json:"reasoning"`
	AIRecommended bool              `json:"aiRecommended"`
	AIConfidence  *float64          `json:"aiConfidence"`
	Status        string            `json:"status"`
	ApprovedBy    *ApproverResponse `json:"approvedBy"`
	ApprovedAt    *string           `json:"approvedAt"`
	ExecutedAt    *string           `json:"executedAt"`
	CreatedAt     string            `json:"createdAt"`
}

// AppealResponse is the caller-facing view of an appeal.
type AppealResponse struct {
	ID                 string  `json:"id"`
	ModerationActionID string  `json:"moderationActionId"`
	AppellantID        string  `json:"appellantId"`
	Reason             string  `json:"reason"`
	Status             string  `json:"status"`
	ReviewerID         *string `json:"reviewerId"`
	DecisionReasoning  *string `json:"decisionReasoning"`
	CreatedAt          string  `json:"createdAt"`
	ResolvedAt         *string `json:"resolvedAt"`

	// ModerationAction is set by lookups that enrich the appeal.
	ModerationAction *ModerationActionResponse `json:"moderationAction,omitempty"`
}

// AppealPageResponse is one page of appeals.
type AppealPageResponse struct {
	Items      []*AppealResponse `json:"items"`
	TotalCount int64             `json:"totalCount"`
	// NextCursor is nil when the page was not full.
	NextCursor *string `json:"nextCursor"`
}

// ToAppealResponse maps an appeal without its moderation action.
func ToAppealResponse(a *models.Appeal) *AppealResponse {
	if a == nil {
		return nil
	}
	return &AppealResponse{
		ID:                 a.ID,
		ModerationActionID: a.ModerationActionID,
		AppellantID:        a.AppellantID,
		Reason:             a.Reason,
		Status:             string(a.Status),
		ReviewerID:         copyString(a.ReviewerID),
		DecisionReasoning:  copyString(a.DecisionReasoning),
		CreatedAt:          formatTime(a.CreatedAt),
		ResolvedAt:         formatTimePtr(a.ResolvedAt),
	}
}

// ToAppealResponseWithAction maps an appeal and its preloaded moderation action.
func ToAppealResponseWithAction(a *models.Appeal) *AppealResponse {
	r := ToAppealResponse(a)
	if r != nil {
		r.ModerationAction = ToModerationActionResponse(a.ModerationAction)
	}
	return r
}

// ToModerationActionResponse maps a moderation action.
func ToModerationActionResponse(m *models.ModerationAction) *ModerationActionResponse {
	if m == nil {
		return nil
	}
	r := &ModerationActionResponse{
		ID:            m.ID,
		TargetType:    m.TargetType,
		TargetID:      m.TargetID,
		ActionType:    m.ActionType,
		Severity:      m.Severity,
		Reasoning:     m.Reasoning,
		AIRecommended: m.AIRecommended,
		Status:        string(m.Status),
		ApprovedAt:    formatTimePtr(m.ApprovedAt),
		ExecutedAt:    formatTimePtr(m.ExecutedAt),
		CreatedAt:     formatTime(m.CreatedAt),
	}
	if m.AIConfidence != nil {
		c := *m.AIConfidence
		r.AIConfidence = &c
	}
	if m.ApprovedBy != nil {
		r.ApprovedBy = &ApproverResponse{ID: *m.ApprovedBy}
		if m.Approver != nil {
			r.ApprovedBy.DisplayName = m.Approver.DisplayName
		}
	}
	return r
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
