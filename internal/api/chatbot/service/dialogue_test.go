package chatbotService

import (
	"testing"

	"IsraBot/internal/entity"
)

func TestTransitionNoSession(t *testing.T) {
	rule := &entity.Rule{Keywords: []string{"fiyat"}, Response: "Fiyatlar için arayın."}

	tests := []struct {
		name       string
		turn       Turn
		wantAction Action
		wantState  entity.SessionState
		wantFilter entity.Filters
	}{
		{
			name:       "intent without location asks for location",
			turn:       Turn{Text: "mehter", Intent: true, Filters: entity.Filters{ServiceType: entity.ServiceMehter}},
			wantAction: ActionAskLocation,
			wantState:  entity.SessionStateAwaitingLocation,
			wantFilter: entity.Filters{ServiceType: entity.ServiceMehter},
		},
		{
			name: "intent with city recommends at once",
			turn: Turn{
				Text:      "adana kozan mehter 12",
				Intent:    true,
				CityFound: true,
				Filters:   entity.Filters{City: "Adana", District: "kozan", ServiceType: entity.ServiceMehter, Detail: "12"},
			},
			wantAction: ActionRecommend,
			wantState:  entity.SessionStateComplete,
			wantFilter: entity.Filters{City: "Adana", District: "kozan", ServiceType: entity.ServiceMehter, Detail: "12"},
		},
		{
			name:       "intent with city only defaults the district",
			turn:       Turn{Text: "mersin bando", Intent: true, CityFound: true, Filters: entity.Filters{City: "Mersin", ServiceType: entity.ServiceBando}},
			wantAction: ActionRecommend,
			wantState:  entity.SessionStateComplete,
			wantFilter: entity.Filters{City: "Mersin", District: "merkez", ServiceType: entity.ServiceBando},
		},
		{
			name:       "intent wins over rule",
			turn:       Turn{Text: "mehter fiyat", Intent: true, Rule: rule, Filters: entity.Filters{ServiceType: entity.ServiceMehter}},
			wantAction: ActionAskLocation,
			wantState:  entity.SessionStateAwaitingLocation,
			wantFilter: entity.Filters{ServiceType: entity.ServiceMehter},
		},
		{
			name:       "rule reply keeps no session",
			turn:       Turn{Text: "fiyat", Rule: rule},
			wantAction: ActionRuleReply,
			wantState:  entity.SessionStateNew,
		},
		{
			name:       "city without service asks for category",
			turn:       Turn{Text: "adana", CityFound: true, Filters: entity.Filters{City: "Adana"}},
			wantAction: ActionAskCategory,
			wantState:  entity.SessionStateAwaitingCategory,
			wantFilter: entity.Filters{City: "Adana"},
		},
		{
			name:       "unknown input shows menu",
			turn:       Turn{Text: "merhaba nasilsin"},
			wantAction: ActionMenu,
			wantState:  entity.SessionStateNew,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := Transition(entity.Session{SenderID: "s"}, tt.turn)
			if step.Action != tt.wantAction {
				t.Fatalf("action = %s, want %s", step.Action, tt.wantAction)
			}
			if step.Session.State != tt.wantState {
				t.Fatalf("state = %s, want %s", step.Session.State, tt.wantState)
			}
			if step.Session.Filters != tt.wantFilter {
				t.Fatalf("filters = %+v, want %+v", step.Session.Filters, tt.wantFilter)
			}
			if step.Session.SenderID != "s" {
				t.Fatalf("sender id lost: %+v", step.Session)
			}
		})
	}
}

func TestTransitionAwaitingLocation(t *testing.T) {
	session := entity.Session{
		SenderID: "s",
		State:    entity.SessionStateAwaitingLocation,
		Filters:  entity.Filters{ServiceType: entity.ServicePalyaco},
	}

	tests := []struct {
		name       string
		turn       Turn
		wantAction Action
		wantFilter entity.Filters
	}{
		{
			name:       "city and district tokens",
			turn:       Turn{Text: "adana seyhan", CityFound: true, Filters: entity.Filters{City: "Adana", ServiceType: entity.ServicePalyaco}},
			wantAction: ActionRecommend,
			wantFilter: entity.Filters{City: "Adana", District: "seyhan", ServiceType: entity.ServicePalyaco},
		},
		{
			name:       "district before city",
			turn:       Turn{Text: "seyhan adana", CityFound: true, Filters: entity.Filters{City: "Adana", ServiceType: entity.ServicePalyaco}},
			wantAction: ActionRecommend,
			wantFilter: entity.Filters{City: "Adana", District: "seyhan", ServiceType: entity.ServicePalyaco},
		},
		{
			name:       "single city token means merkez",
			turn:       Turn{Text: "adana", CityFound: true, Filters: entity.Filters{City: "Adana", ServiceType: entity.ServicePalyaco}},
			wantAction: ActionRecommend,
			wantFilter: entity.Filters{City: "Adana", District: "merkez", ServiceType: entity.ServicePalyaco},
		},
		{
			name:       "unknown city still parsed by position",
			turn:       Turn{Text: "izmir bornova", Filters: entity.Filters{ServiceType: entity.ServicePalyaco}},
			wantAction: ActionRecommend,
			wantFilter: entity.Filters{City: "izmir", District: "bornova", ServiceType: entity.ServicePalyaco},
		},
		{
			name:       "known district found by extractor is kept",
			turn:       Turn{Text: "adana kozan icin lutfen", CityFound: true, Filters: entity.Filters{City: "Adana", District: "kozan", ServiceType: entity.ServicePalyaco}},
			wantAction: ActionRecommend,
			wantFilter: entity.Filters{City: "Adana", District: "kozan", ServiceType: entity.ServicePalyaco},
		},
		{
			name:       "service keyword is not a district",
			turn:       Turn{Text: "mersin bando", Intent: true, CityFound: true, Filters: entity.Filters{City: "Mersin", ServiceType: entity.ServiceBando}},
			wantAction: ActionRecommend,
			wantFilter: entity.Filters{City: "Mersin", District: "merkez", ServiceType: entity.ServiceBando},
		},
		{
			name:       "unparseable location",
			turn:       Turn{Text: "bilmiyorum henuz karar vermedik", Filters: entity.Filters{ServiceType: entity.ServicePalyaco}},
			wantAction: ActionLocationInvalid,
			wantFilter: entity.Filters{ServiceType: entity.ServicePalyaco},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := Transition(session, tt.turn)
			if step.Action != tt.wantAction {
				t.Fatalf("action = %s, want %s", step.Action, tt.wantAction)
			}
			if step.Session.State != entity.SessionStateComplete {
				t.Fatalf("state = %s, want COMPLETE", step.Session.State)
			}
			if step.Session.Filters != tt.wantFilter {
				t.Fatalf("filters = %+v, want %+v", step.Session.Filters, tt.wantFilter)
			}
		})
	}
}

func TestTransitionAwaitingCategory(t *testing.T) {
	session := entity.Session{
		SenderID: "s",
		State:    entity.SessionStateAwaitingCategory,
		Filters:  entity.Filters{City: "Adana"},
	}
	rule := &entity.Rule{Keywords: []string{"adres"}, Response: "Adresimiz Seyhan."}

	step := Transition(session, Turn{Text: "mehter", Intent: true, Filters: entity.Filters{City: "Adana", ServiceType: entity.ServiceMehter}})
	if step.Action != ActionRecommend || step.Session.Filters.District != "merkez" {
		t.Fatalf("service turn = %+v", step)
	}

	step = Transition(session, Turn{Text: "adres", Rule: rule, Filters: session.Filters})
	if step.Action != ActionRuleReply || step.Session.State != entity.SessionStateAwaitingCategory {
		t.Fatalf("rule turn = %+v", step)
	}

	step = Transition(session, Turn{Text: "mersin", CityFound: true, Filters: entity.Filters{City: "Mersin"}})
	if step.Action != ActionAskCategory || step.Session.Filters.City != "Mersin" {
		t.Fatalf("location turn = %+v", step)
	}

	step = Transition(session, Turn{Text: "tamam"})
	if step.Action != ActionMenu || step.Session.State.Persistent() {
		t.Fatalf("unmatched turn = %+v", step)
	}
}

func TestActionString(t *testing.T) {
	if ActionAskLocation.String() != "ask_location" || ActionNoPackages.String() != "no_packages" {
		t.Fatal("unexpected action names")
	}
}
