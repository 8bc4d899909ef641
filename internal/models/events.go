package models

// EventTypeTrustReevaluation asks the trust subsystem to re-evaluate a user.
const EventTypeTrustReevaluation = "user.trust.reevaluate"

// TrustReasonAppealUpheld is the reason code sent when an appeal was upheld.
const TrustReasonAppealUpheld = "APPEAL_UPHELD"

// TrustReevaluation is the payload of EventTypeTrustReevaluation.
type TrustReevaluation struct {
	UserID             string `json:"user_id"`
	Reason             string `json:"reason"`
	AppealID           string `json:"appeal_id"`
	ModerationActionID string `json:"moderation_action_id"`
}
