package chatbotService

import (
	"context"
	"errors"
	"strings"
	"time"

	"IsraBot/internal/api/chatbot"
	"IsraBot/internal/entity"
	contextPkg "IsraBot/pkg/context"
	"IsraBot/pkg/nlp"
	"github.com/sirupsen/logrus"
)

func (s *chatbotService) HandleMessage(ctx context.Context, channel entity.Channel, senderID, rawText string) (Reply, error) {
	requestID := contextPkg.GetRequestID(ctx)
	senderID = strings.TrimSpace(senderID)
	rawText = strings.TrimSpace(rawText)
	if senderID == "" || rawText == "" {
		return Reply{}, chatbot.ErrEmptyMessage
	}

	unlock := s.locks.Lock(senderID)
	defer unlock()

	now := s.now()

	if handoff, active := s.activeHandoff(ctx, senderID, now); active {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"sender_id":  senderID,
			"operator":   handoff.Operator,
		}).Debug("Message routed to operator")

		s.publish(entity.FeedEvent{
			SenderID: senderID,
			Channel:  channel,
			Inbound:  rawText,
			Action:   ActionHandoff.String(),
			Handoff:  true,
			At:       now,
		})
		return Reply{Action: ActionHandoff, Handoff: true}, nil
	}

	session := s.loadSession(ctx, senderID, now)
	text := nlp.Normalize(rawText)
	step := Transition(session, s.readTurn(text, session.Filters))

	var links []string
	if step.Action == ActionRecommend {
		links = s.catalog.Match(step.Session.Filters)
		if len(links) == 0 {
			step.Action = ActionNoPackages
		}
	}

	history := entity.AppendHistory(session.History, entity.ChatMessage{Role: entity.ChatRoleUser, Content: rawText})
	reply := s.composer.Compose(ctx, step, links, history)
	step.Session.History = entity.AppendHistory(history, entity.ChatMessage{Role: entity.ChatRoleAssistant, Content: reply})
	s.saveSession(ctx, session, step, now)

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"sender_id":  senderID,
		"channel":    channel,
		"from_state": session.State.String(),
		"to_state":   step.Session.State.String(),
		"action":     step.Action.String(),
		"filters":    step.Session.Filters,
		"links":      len(links),
	}).Info("Message handled")

	state := step.Session.State
	if !state.Persistent() {
		state = entity.SessionStateNew
	}

	s.publish(entity.FeedEvent{
		SenderID: senderID,
		Channel:  channel,
		Inbound:  rawText,
		Reply:    reply,
		Action:   step.Action.String(),
		State:    state.String(),
		At:       now,
	})

	return Reply{Text: reply, State: state, Action: step.Action}, nil
}

func (s *chatbotService) readTurn(text string, current entity.Filters) Turn {
	_, intent := nlp.DetectService(text)
	_, cityFound := s.extractor.City(text)

	turn := Turn{
		Text:      text,
		Filters:   s.extractor.Extract(text, current),
		Intent:    intent,
		CityFound: cityFound,
	}

	if matches := s.rules.Lookup(text); len(matches) > 0 {
		rule := matches[0]
		turn.Rule = &rule
	}
	return turn
}

// loadSession never fails, a store error starts a fresh conversation.
func (s *chatbotService) loadSession(ctx context.Context, senderID string, now time.Time) entity.Session {
	fresh := entity.Session{SenderID: senderID, State: entity.SessionStateNew, CreatedAt: now}

	session, err := s.repo.Sessions.Get(ctx, senderID)
	if err != nil {
		if !errors.Is(err, chatbot.ErrSessionNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"sender_id":  senderID,
				"error":      err.Error(),
			}).Warn("Failed to load session, starting a new one")
		}
		return fresh
	}
	return session
}

// saveSession stores sessions that wait for a slot, and menu sessions so the
// next generated reply sees the conversation. Everything else is cleared.
func (s *chatbotService) saveSession(ctx context.Context, before entity.Session, step Step, now time.Time) {
	after := step.Session
	fields := logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"sender_id":  after.SenderID,
	}

	if after.State.Persistent() || step.Action == ActionMenu {
		if after.CreatedAt.IsZero() {
			after.CreatedAt = now
		}
		after.UpdatedAt = now
		if err := s.repo.Sessions.Put(ctx, after); err != nil {
			fields["error"] = err.Error()
			s.log.WithFields(fields).Warn("Failed to store session")
		}
		return
	}

	if before.State.Persistent() || len(before.History) > 0 {
		if err := s.repo.Sessions.Delete(ctx, after.SenderID); err != nil {
			fields["error"] = err.Error()
			s.log.WithFields(fields).Warn("Failed to clear session")
		}
	}
}

func (s *chatbotService) activeHandoff(ctx context.Context, senderID string, now time.Time) (entity.Handoff, bool) {
	handoff, active, err := s.repo.Handoffs.Active(ctx, senderID, now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"sender_id":  senderID,
			"error":      err.Error(),
		}).Warn("Failed to read handoff, answering automatically")
		return entity.Handoff{}, false
	}
	return handoff, active
}

func (s *chatbotService) publish(event entity.FeedEvent) {
	if s.feed != nil {
		s.feed.Publish(event)
	}
}

func (s *chatbotService) ListSessions(ctx context.Context) ([]entity.Session, error) {
	return s.repo.Sessions.List(ctx)
}

func (s *chatbotService) ResetSession(ctx context.Context, senderID string) error {
	unlock := s.locks.Lock(senderID)
	defer unlock()

	if _, err := s.repo.Sessions.Get(ctx, senderID); err != nil {
		return err
	}
	return s.repo.Sessions.Delete(ctx, senderID)
}

func (s *chatbotService) ExpireSessions(ctx context.Context) (int, error) {
	removed, err := s.repo.Sessions.Expire(ctx, s.now())
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.log.WithFields(logrus.Fields{
			"removed": removed,
		}).Info("Expired idle sessions")
	}
	return removed, nil
}

// StartHandoff hands the sender to an operator. A zero duration uses the configured TTL.
func (s *chatbotService) StartHandoff(ctx context.Context, senderID, operator string, duration time.Duration) (entity.Handoff, error) {
	if duration <= 0 {
		duration = s.handoffTTL
	}

	unlock := s.locks.Lock(senderID)
	defer unlock()

	now := s.now()
	handoff := entity.Handoff{
		SenderID:  senderID,
		Operator:  operator,
		StartedAt: now,
		Until:     now.Add(duration),
	}

	if err := s.repo.Handoffs.Start(ctx, handoff); err != nil {
		return entity.Handoff{}, err
	}

	if err := s.repo.Sessions.Delete(ctx, senderID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"sender_id":  senderID,
			"error":      err.Error(),
		}).Warn("Failed to clear session on handoff")
	}

	return handoff, nil
}

func (s *chatbotService) StopHandoff(ctx context.Context, senderID string) error {
	unlock := s.locks.Lock(senderID)
	defer unlock()

	return s.repo.Handoffs.Stop(ctx, senderID)
}

func (s *chatbotService) ListHandoffs(ctx context.Context) ([]entity.Handoff, error) {
	return s.repo.Handoffs.List(ctx, s.now())
}

func (s *chatbotService) RecordOperatorMessage(ctx context.Context, senderID, operator, text string) {
	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"sender_id":  senderID,
		"operator":   operator,
	}).Info("Operator message sent")

	s.publish(entity.FeedEvent{
		SenderID: senderID,
		Channel:  entity.ChannelOperator,
		Reply:    text,
		Action:   ActionHandoff.String(),
		Handoff:  true,
		At:       s.now(),
	})
}

func (s *chatbotService) ReloadRules(ctx context.Context) (int, time.Time, error) {
	if err := s.rules.Refresh(ctx); err != nil {
		return 0, time.Time{}, err
	}
	return len(s.rules.Rules()), s.rules.UpdatedAt(), nil
}

func (s *chatbotService) LookupRules(text string) []entity.Rule {
	return s.rules.Lookup(nlp.Normalize(text))
}
