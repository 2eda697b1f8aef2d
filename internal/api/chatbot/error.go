package chatbot

import "IsraBot/pkg/response"

var (
	ErrInvalidWebhook     = response.NewError(400, "invalid webhook payload")
	ErrSignatureMismatch  = response.NewError(403, "webhook signature mismatch")
	ErrSessionNotFound    = response.NewError(404, "session not found")
	ErrHandoffNotFound    = response.NewError(404, "handoff not found")
	ErrInvalidHandoff     = response.NewError(400, "handoff must end in the future")
	ErrEmptyMessage       = response.NewError(400, "message text is empty")
	ErrSessionStoreFailed = response.NewError(500, "session store unavailable")
)
