package adminHandler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"IsraBot/internal/api/admin"
	chatbotService "IsraBot/internal/api/chatbot/service"
	"IsraBot/internal/entity"
	"IsraBot/internal/middleware"
	jwtPkg "IsraBot/pkg/jwt"
	websocketPkg "IsraBot/pkg/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type fakeAdmin struct {
	sentBy string
	sent   admin.SendMessageRequest
}

func (f *fakeAdmin) Login(_ context.Context, req admin.LoginRequest) (admin.LoginResponse, error) {
	if req.Password != "s3cret" {
		return admin.LoginResponse{}, admin.ErrInvalidCredentials
	}
	return admin.LoginResponse{AccessToken: "tok", ExpiresAt: 1}, nil
}

func (f *fakeAdmin) SendMessage(_ context.Context, operator string, req admin.SendMessageRequest) error {
	f.sentBy, f.sent = operator, req
	return nil
}

type fakeChatbot struct {
	chatbotService.IChatbotService
	sessions []entity.Session
	duration time.Duration
	operator string
	reset    string
}

func (f *fakeChatbot) ListSessions(context.Context) ([]entity.Session, error) {
	return f.sessions, nil
}

func (f *fakeChatbot) ResetSession(_ context.Context, senderID string) error {
	f.reset = senderID
	return nil
}

func (f *fakeChatbot) StartHandoff(_ context.Context, senderID, operator string, d time.Duration) (entity.Handoff, error) {
	f.duration, f.operator = d, operator
	now := time.Now()
	return entity.Handoff{SenderID: senderID, Operator: operator, StartedAt: now, Until: now.Add(time.Hour)}, nil
}

func (f *fakeChatbot) LookupRules(string) []entity.Rule {
	return []entity.Rule{{Keywords: []string{"fiyat"}, Response: "Fiyatlar için arayın"}}
}

type fixture struct {
	app   *fiber.App
	admin *fakeAdmin
	bot   *fakeChatbot
	token string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	t.Setenv(middleware.AccessTokenSecret, "secret")

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &fixture{
		admin: &fakeAdmin{},
		bot: &fakeChatbot{sessions: []entity.Session{{
			SenderID: "905551112233",
			State:    entity.SessionStateAwaitingLocation,
			Filters:  entity.Filters{ServiceType: entity.ServicePalyaco},
		}}},
	}

	hub := websocketPkg.NewHub(log)
	t.Cleanup(hub.Close)

	mw := middleware.New(log)
	f.app = fiber.New()
	f.app.Use(mw.NewRequestIDMiddleware())
	New(log, validator.New(), mw, f.admin, f.bot, hub).Start(f.app)

	token, _, err := jwtPkg.Sign(map[string]interface{}{"username": "ops", "role": middleware.AdminRole}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	f.token = token
	return f
}

func (f *fixture) do(t *testing.T, method, target, body string, auth bool) (*http.Response, string) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if auth {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+f.token)
	}

	resp, err := f.app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, string(raw)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, fiber.MethodPost, "/admin/login", `{"username":"ops","password":"s3cret"}`, false)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(body, `"access_token":"tok"`) {
		t.Fatalf("status = %d body = %s", resp.StatusCode, body)
	}

	resp, _ = f.do(t, fiber.MethodPost, "/admin/login", `{"username":"ops","password":"bad"}`, false)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("bad password status = %d", resp.StatusCode)
	}

	resp, _ = f.do(t, fiber.MethodPost, "/admin/login", `{"username":"ops"}`, false)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("missing password status = %d", resp.StatusCode)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)
	for _, target := range []string{"/admin/sessions", "/admin/handoff", "/admin/rules/lookup?text=fiyat"} {
		resp, _ := f.do(t, fiber.MethodGet, target, "", false)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s status = %d", target, resp.StatusCode)
		}
	}
}

func TestListSessions(t *testing.T) {
	f := newFixture(t)
	resp, body := f.do(t, fiber.MethodGet, "/admin/sessions", "", true)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{"905551112233", "AWAITING_LOCATION", "Palyaço"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body %s missing %q", body, want)
		}
	}

	resp, _ = f.do(t, fiber.MethodDelete, "/admin/sessions/905551112233", "", true)
	if resp.StatusCode != fiber.StatusNoContent || f.bot.reset != "905551112233" {
		t.Fatalf("reset status = %d sender = %q", resp.StatusCode, f.bot.reset)
	}
}

func TestStartHandoff(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		want     int
		duration time.Duration
	}{
		{name: "default duration", body: `{"sender_id":"u1"}`, want: fiber.StatusCreated},
		{name: "explicit duration", body: `{"sender_id":"u1","duration":"45m"}`, want: fiber.StatusCreated, duration: 45 * time.Minute},
		{name: "bad duration", body: `{"sender_id":"u1","duration":"soon"}`, want: fiber.StatusBadRequest},
		{name: "negative duration", body: `{"sender_id":"u1","duration":"-5m"}`, want: fiber.StatusBadRequest},
		{name: "missing sender", body: `{}`, want: fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			resp, body := f.do(t, fiber.MethodPost, "/admin/handoff", tt.body, true)
			if resp.StatusCode != tt.want {
				t.Fatalf("status = %d, want %d, body = %s", resp.StatusCode, tt.want, body)
			}
			if tt.want != fiber.StatusCreated {
				return
			}
			if f.bot.duration != tt.duration || f.bot.operator != "ops" {
				t.Fatalf("StartHandoff got duration %v operator %q", f.bot.duration, f.bot.operator)
			}
		})
	}
}

func TestLookupRulesAndSendMessage(t *testing.T) {
	f := newFixture(t)

	resp, body := f.do(t, fiber.MethodGet, "/admin/rules/lookup?text=fiyat", "", true)
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(body, "Fiyatlar için arayın") {
		t.Fatalf("rules status = %d body = %s", resp.StatusCode, body)
	}

	resp, _ = f.do(t, fiber.MethodPost, "/admin/messages", `{"sender_id":"u1","text":"Merhaba"}`, true)
	if resp.StatusCode != fiber.StatusAccepted {
		t.Fatalf("send status = %d", resp.StatusCode)
	}
	if f.admin.sentBy != "ops" || f.admin.sent.Text != "Merhaba" {
		t.Fatalf("SendMessage got %q %+v", f.admin.sentBy, f.admin.sent)
	}
}

func TestFeedRequiresUpgrade(t *testing.T) {
	f := newFixture(t)
	resp, _ := f.do(t, fiber.MethodGet, "/admin/feed?token="+f.token, "", false)
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
