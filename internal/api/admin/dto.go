package admin

import "time"

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresAt   int64  `json:"expires_at"`
}

type HandoffRequest struct {
	SenderID string `json:"sender_id" validate:"required,max=64"`
	// Duration such as "30m". Empty uses the configured default.
	Duration string `json:"duration,omitempty" validate:"omitempty,max=16"`
}

type HandoffResponse struct {
	SenderID  string    `json:"sender_id"`
	Operator  string    `json:"operator"`
	StartedAt time.Time `json:"started_at"`
	Until     time.Time `json:"until"`
}

type SendMessageRequest struct {
	SenderID string `json:"sender_id" validate:"required,max=64"`
	Text     string `json:"text" validate:"required,max=4096"`
}

type RuleResponse struct {
	Keywords []string `json:"keywords"`
	Response string   `json:"response"`
	Link     string   `json:"link,omitempty"`
}

type RulesReloadResponse struct {
	Rules     int       `json:"rules"`
	UpdatedAt time.Time `json:"updated_at"`
}
