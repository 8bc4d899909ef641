package appeal

import (
	"time"

	"deliberate/backend/internal/config"
	"deliberate/backend/internal/models"

	vd "github.com/go-ozzo/ozzo-validation/v4"
)

// ReasonRuleRequired appeal reason rules
var ReasonRuleRequired = []vd.Rule{
	vd.Required,
	vd.RuneLength(config.AppealReasonMinLength, config.AppealReasonMaxLength),
}

// DecisionReasoningRuleRequired review decision reasoning rules
var DecisionReasoningRuleRequired = []vd.Rule{
	vd.Required,
	vd.RuneLength(config.DecisionReasoningMinLength, config.DecisionReasoningMaxLength),
}

// DecisionRuleRequired review decision rules
var DecisionRuleRequired = []vd.Rule{
	vd.Required,
	vd.In(models.DecisionUpheld, models.DecisionDenied),
}

type createAppealInput struct {
	ActionID    string `json:"moderationActionId"`
	AppellantID string `json:"appellantId"`
	Reason      string `json:"reason"`
}

func (in createAppealInput) Validate() error {
	return vd.ValidateStruct(&in,
		vd.Field(&in.ActionID, vd.Required),
		vd.Field(&in.AppellantID, vd.Required),
		vd.Field(&in.Reason, ReasonRuleRequired...),
	)
}

type reviewInput struct {
	AppealID          string                `json:"appealId"`
	ReviewerID        string                `json:"reviewerId"`
	Decision          models.ReviewDecision `json:"decision"`
	DecisionReasoning string                `json:"decisionReasoning"`
}

func (in reviewInput) Validate() error {
	return vd.ValidateStruct(&in,
		vd.Field(&in.AppealID, vd.Required),
		vd.Field(&in.ReviewerID, vd.Required),
		vd.Field(&in.Decision, DecisionRuleRequired...),
		vd.Field(&in.DecisionReasoning, DecisionReasoningRuleRequired...),
	)
}

type pageInput struct {
	PageSize int `json:"pageSize"`
	max      int
}

func (in pageInput) Validate() error {
	return vd.ValidateStruct(&in,
		vd.Field(&in.PageSize, vd.Min(0), vd.Max(in.max)),
	)
}

type dateRangeInput struct {
	Start *time.Time `json:"startDate"`
	End   *time.Time `json:"endDate"`
}

func (in dateRangeInput) Validate() error {
	if in.Start == nil || in.End == nil {
		return nil
	}
	return vd.ValidateStruct(&in,
		vd.Field(&in.End, vd.By(func(interface{}) error {
			if in.End.Before(*in.Start) {
				return vd.NewError("validation_date_range", "must not be before startDate")
			}
			return nil
		})),
	)
}
