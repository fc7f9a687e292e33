package models

// ConversationState represents the state of a conversation with a user
type ConversationState int

const (
	// Idle means there is no active intake flow for the user
	Idle ConversationState = iota
	// AwaitingUID is the state when the user is expected to type their UID
	AwaitingUID
	// AwaitingScreenshot is the state when the user is expected to send a deposit screenshot
	AwaitingScreenshot
)

// String returns the state name used in logs
func (s ConversationState) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingUID:
		return "awaiting_uid"
	case AwaitingScreenshot:
		return "awaiting_screenshot"
	default:
		return "unknown"
	}
}

// UserState represents the state of a user's conversation
type UserState struct {
	State ConversationState
	UID   *string // Validated UID, set once the user passes AwaitingUID
}
