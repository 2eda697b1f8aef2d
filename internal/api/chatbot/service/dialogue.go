package chatbotService

import (
	"IsraBot/internal/entity"
	"IsraBot/pkg/nlp"
)

type Action uint8

const (
	ActionMenu Action = iota
	ActionAskLocation
	ActionAskCategory
	ActionRecommend
	ActionNoPackages
	ActionRuleReply
	ActionLocationInvalid
	ActionHandoff
)

var actionNames = map[Action]string{
	ActionMenu:            "menu",
	ActionAskLocation:     "ask_location",
	ActionAskCategory:     "ask_category",
	ActionRecommend:       "recommend",
	ActionNoPackages:      "no_packages",
	ActionRuleReply:       "rule_reply",
	ActionLocationInvalid: "location_invalid",
	ActionHandoff:         "handoff",
}

func (a Action) String() string {
	return actionNames[a]
}

// Turn is everything read from one normalized inbound message.
type Turn struct {
	Text string
	// Filters are the session filters with this message's slots merged in.
	Filters   entity.Filters
	Intent    bool
	CityFound bool
	Rule      *entity.Rule
}

// Step is the outcome of a transition. Sessions in a non persistent state
// must be removed from the store.
type Step struct {
	Session entity.Session
	Action  Action
	Rule    *entity.Rule
}

// Transition is the slot-filling state machine. It performs no I/O.
func Transition(session entity.Session, turn Turn) Step {
	switch session.State {
	case entity.SessionStateAwaitingLocation:
		return awaitingLocation(session, turn)
	case entity.SessionStateAwaitingCategory:
		return awaitingCategory(session, turn)
	default:
		return noSession(session, turn)
	}
}

func noSession(session entity.Session, turn Turn) Step {
	switch {
	case turn.Intent && turn.CityFound:
		return recommend(session, withDefaultDistrict(turn.Filters))
	case turn.Intent:
		return Step{Session: with(session, entity.SessionStateAwaitingLocation, turn.Filters), Action: ActionAskLocation}
	case turn.Rule != nil:
		return Step{Session: with(session, entity.SessionStateNew, entity.Filters{}), Action: ActionRuleReply, Rule: turn.Rule}
	case turn.CityFound:
		return Step{Session: with(session, entity.SessionStateAwaitingCategory, turn.Filters), Action: ActionAskCategory}
	default:
		return Step{Session: with(session, entity.SessionStateNew, entity.Filters{}), Action: ActionMenu}
	}
}

func awaitingLocation(session entity.Session, turn Turn) Step {
	filters, ok := resolveLocation(turn)
	if !ok {
		return Step{Session: with(session, entity.SessionStateComplete, turn.Filters), Action: ActionLocationInvalid}
	}
	return recommend(session, filters)
}

func awaitingCategory(session entity.Session, turn Turn) Step {
	switch {
	case turn.Intent:
		return recommend(session, withDefaultDistrict(turn.Filters))
	case turn.Rule != nil:
		return Step{Session: with(session, entity.SessionStateAwaitingCategory, turn.Filters), Action: ActionRuleReply, Rule: turn.Rule}
	case turn.CityFound:
		return Step{Session: with(session, entity.SessionStateAwaitingCategory, turn.Filters), Action: ActionAskCategory}
	default:
		return Step{Session: with(session, entity.SessionStateComplete, entity.Filters{}), Action: ActionMenu}
	}
}

func recommend(session entity.Session, filters entity.Filters) Step {
	return Step{Session: with(session, entity.SessionStateComplete, filters), Action: ActionRecommend}
}

// resolveLocation prefers a configured city found in the text and falls back
// to reading the reply as "<city>" or "<city> <district>".
func resolveLocation(turn Turn) (entity.Filters, bool) {
	f := turn.Filters
	city, district, parsed := nlp.ParseLocation(turn.Text)

	if !turn.CityFound {
		if !parsed {
			return f, false
		}
		f.City = city
		f.District = district
		return f, true
	}

	if f.District == "" && parsed {
		known := nlp.Normalize(f.City)
		switch known {
		case city:
			f.District = district
		case district:
			f.District = city
		}
	}
	return withDefaultDistrict(f), true
}

func withDefaultDistrict(f entity.Filters) entity.Filters {
	if f.District == "" {
		f.District = nlp.DefaultDistrict
	}
	return f
}

func with(session entity.Session, state entity.SessionState, filters entity.Filters) entity.Session {
	session.State = state
	session.Filters = filters
	return session
}
