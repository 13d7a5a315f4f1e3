package telegram

import "strings"

// Failure is a classified logical failure from the Bot API.
type Failure struct {
	Code    string
	Message string
}

// ClassifyFailure maps the Bot API's free-text description to a stable code
// and a user-facing message. The substring matching is brittle by nature,
// which is exactly why it lives here as a pure function with its own tests
// rather than inside the transport code.
func ClassifyFailure(description string) Failure {
	d := strings.ToLower(description)

	switch {
	case strings.Contains(d, "chat not found"):
		return Failure{
			Code:    "CHAT_NOT_FOUND",
			Message: "Notification channel is misconfigured. Please contact the store.",
		}
	case strings.Contains(d, "bot was blocked"):
		return Failure{
			Code:    "BOT_BLOCKED",
			Message: "Notification bot was blocked by the recipient. Please contact the store.",
		}
	case strings.Contains(d, "invalid token"):
		return Failure{
			Code:    "INVALID_TOKEN",
			Message: "Notification service credentials are invalid. Please contact the store.",
		}
	default:
		return Failure{
			Code:    "TELEGRAM_API_ERROR",
			Message: "Failed to deliver the order notification. Please try again later.",
		}
	}
}
