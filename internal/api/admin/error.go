package admin

import "IsraBot/pkg/response"

var (
	ErrInvalidCredentials = response.NewError(401, "invalid username or password")
	ErrAdminNotConfigured = response.NewError(503, "admin login is not configured")
	ErrWhatsappDisabled   = response.NewError(503, "whatsapp channel is disabled")
	ErrSendFailed         = response.NewError(502, "failed to deliver message")
	ErrInvalidDuration    = response.NewError(400, "invalid handoff duration")
	ErrRulesReloadFailed  = response.NewError(502, "failed to reload rules")
)
