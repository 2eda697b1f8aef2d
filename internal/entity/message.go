package entity

import "time"

type ChatRole string

const (
	ChatRoleSystem    ChatRole = "system"
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// MaxHistory bounds the chat messages kept per session.
const MaxHistory = 10

// AppendHistory returns a copy of history with msgs appended, keeping only the
// newest MaxHistory messages.
func AppendHistory(history []ChatMessage, msgs ...ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(history)+len(msgs))
	out = append(out, history...)
	out = append(out, msgs...)
	if len(out) > MaxHistory {
		out = out[len(out)-MaxHistory:]
	}
	return out
}

type Channel string

const (
	ChannelTwilio   Channel = "twilio"
	ChannelHTTP     Channel = "http"
	ChannelWhatsapp Channel = "whatsapp"
	ChannelOperator Channel = "operator"
)

// FeedEvent is published to the admin live feed for every handled message.
type FeedEvent struct {
	SenderID string    `json:"sender_id"`
	Channel  Channel   `json:"channel"`
	Inbound  string    `json:"inbound"`
	Reply    string    `json:"reply"`
	Action   string    `json:"action"`
	State    string    `json:"state"`
	Handoff  bool      `json:"handoff"`
	At       time.Time `json:"at"`
}

type AdminLoginData struct {
	Username string
}
