package config

const (
	// Appeal text bounds, in characters.
	AppealReasonMinLength = 20
	AppealReasonMaxLength = 5000

	DecisionReasoningMinLength = 20
	DecisionReasoningMaxLength = 2000

	// Pagination
	DefaultPageSize = 20
	MaxPageSize     = 100

	// UpheldReasoningMarker prefixes the note appended to a moderation
	// action's reasoning when an appeal against it is upheld.
	UpheldReasoningMarker = "[APPEAL UPHELD]"

	// EventsChannel is the default Redis channel domain events go to.
	EventsChannel = "moderation:events"
)
