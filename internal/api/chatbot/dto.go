package chatbot

import "time"

type ChatRequest struct {
	SenderID string `json:"sender_id" validate:"required,max=64"`
	Text     string `json:"text" validate:"required,max=2000"`
}

type ChatResponse struct {
	Reply   string `json:"reply"`
	State   string `json:"state"`
	Action  string `json:"action"`
	Handoff bool   `json:"handoff,omitempty"`
}

// TwilioWebhook is the subset of the Twilio messaging webhook form we read.
type TwilioWebhook struct {
	MessageSid  string `form:"MessageSid"`
	AccountSid  string `form:"AccountSid"`
	From        string `form:"From"`
	To          string `form:"To"`
	Body        string `form:"Body"`
	ProfileName string `form:"ProfileName"`
	WaID        string `form:"WaId"`
}

type SessionResponse struct {
	SenderID    string    `json:"sender_id"`
	State       string    `json:"state"`
	City        string    `json:"city,omitempty"`
	District    string    `json:"district,omitempty"`
	ServiceType string    `json:"service_type,omitempty"`
	Detail      string    `json:"detail,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
