package service

import "errors"

// ErrNotConfigured means the bot credential or recipient chat id is absent.
// Deliberately vague: callers learn that the server is misconfigured, not
// which secret is missing.
var ErrNotConfigured = errors.New("notification service is not configured")

// NotifyError is a logical failure reported by the Bot API itself
// (ok=false). Code and Message come from the description classifier; Raw
// keeps the original description for diagnostics.
type NotifyError struct {
	Code    string
	Message string
	Raw     string
}

func (e *NotifyError) Error() string {
	return "telegram api failure: " + e.Raw
}
