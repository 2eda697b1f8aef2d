package entity

import "time"

type Session struct {
	SenderID  string        `json:"sender_id"`
	State     SessionState  `json:"state"`
	Filters   Filters       `json:"filters"`
	History   []ChatMessage `json:"history,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Intent is the service type the conversation was opened for.
func (s Session) Intent() ServiceType {
	return s.Filters.ServiceType
}

type SessionState uint8

const (
	SessionStateNew              SessionState = 0
	SessionStateAwaitingCategory SessionState = 1
	SessionStateAwaitingLocation SessionState = 2
	SessionStateComplete         SessionState = 3
)

var SessionStateMap = map[SessionState]string{
	SessionStateNew:              "NEW",
	SessionStateAwaitingCategory: "AWAITING_CATEGORY",
	SessionStateAwaitingLocation: "AWAITING_LOCATION",
	SessionStateComplete:         "COMPLETE",
}

func (s SessionState) String() string {
	return SessionStateMap[s]
}

func (s SessionState) Value() uint8 {
	return uint8(s)
}

// Persistent reports whether a session in this state must be kept in the store.
func (s SessionState) Persistent() bool {
	return s == SessionStateAwaitingCategory || s == SessionStateAwaitingLocation
}

type ServiceType string

const (
	ServiceMehter       ServiceType = "mehter"
	ServicePalyaco      ServiceType = "palyaco"
	ServiceSunnetDugunu ServiceType = "sunnet_dugunu"
	ServiceBando        ServiceType = "bando"
	ServiceKaragoz      ServiceType = "karagoz"
)

var ServiceDisplayName = map[ServiceType]string{
	ServiceMehter:       "Mehter takımı",
	ServicePalyaco:      "Palyaço",
	ServiceSunnetDugunu: "Dini düğün / Sünnet düğünü",
	ServiceBando:        "Bando",
	ServiceKaragoz:      "Karagöz - Hacivat",
}

func (s ServiceType) DisplayName() string {
	if name, ok := ServiceDisplayName[s]; ok {
		return name
	}
	return string(s)
}

// Filters holds the slots collected for a recommendation. Empty strings are unset.
type Filters struct {
	City        string      `json:"city,omitempty"`
	District    string      `json:"district,omitempty"`
	ServiceType ServiceType `json:"service_type,omitempty"`
	Detail      string      `json:"detail,omitempty"`
}

// Merge overwrites the receiver's fields with every field set in other.
func (f Filters) Merge(other Filters) Filters {
	if other.City != "" {
		f.City = other.City
	}
	if other.District != "" {
		f.District = other.District
	}
	if other.ServiceType != "" {
		f.ServiceType = other.ServiceType
	}
	if other.Detail != "" {
		f.Detail = other.Detail
	}
	return f
}

type Handoff struct {
	SenderID  string    `json:"sender_id"`
	Operator  string    `json:"operator"`
	StartedAt time.Time `json:"started_at"`
	Until     time.Time `json:"until"`
}

func (h Handoff) ActiveAt(t time.Time) bool {
	return t.Before(h.Until)
}
