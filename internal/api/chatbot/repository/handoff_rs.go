package chatbotRepository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"IsraBot/internal/api/chatbot"
	"IsraBot/internal/entity"
	contextPkg "IsraBot/pkg/context"
	"IsraBot/pkg/redis"
	"github.com/sirupsen/logrus"
)

type memoryHandoffStore struct {
	mu       sync.Mutex
	handoffs map[string]entity.Handoff
	log      *logrus.Logger
}

func newMemoryHandoffStore(log *logrus.Logger) *memoryHandoffStore {
	return &memoryHandoffStore{
		handoffs: make(map[string]entity.Handoff),
		log:      log,
	}
}

func (s *memoryHandoffStore) Start(ctx context.Context, handoff entity.Handoff) error {
	if !handoff.Until.After(handoff.StartedAt) {
		return chatbot.ErrInvalidHandoff
	}

	s.mu.Lock()
	s.handoffs[handoff.SenderID] = handoff
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"sender_id":  handoff.SenderID,
		"operator":   handoff.Operator,
		"until":      handoff.Until,
	}).Info("Handoff started")
	return nil
}

func (s *memoryHandoffStore) Stop(_ context.Context, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handoffs[senderID]; !ok {
		return chatbot.ErrHandoffNotFound
	}
	delete(s.handoffs, senderID)
	return nil
}

func (s *memoryHandoffStore) Active(_ context.Context, senderID string, now time.Time) (entity.Handoff, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handoff, ok := s.handoffs[senderID]
	if !ok {
		return entity.Handoff{}, false, nil
	}
	if !handoff.ActiveAt(now) {
		delete(s.handoffs, senderID)
		return entity.Handoff{}, false, nil
	}
	return handoff, true, nil
}

func (s *memoryHandoffStore) List(_ context.Context, now time.Time) ([]entity.Handoff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entity.Handoff, 0, len(s.handoffs))
	for id, handoff := range s.handoffs {
		if !handoff.ActiveAt(now) {
			delete(s.handoffs, id)
			continue
		}
		out = append(out, handoff)
	}
	sortHandoffs(out)
	return out, nil
}

type redisHandoffStore struct {
	rdb redis.IRedis
	log *logrus.Logger
}

func (s *redisHandoffStore) Start(ctx context.Context, handoff entity.Handoff) error {
	ttl := handoff.Until.Sub(handoff.StartedAt)
	if ttl <= 0 {
		return chatbot.ErrInvalidHandoff
	}

	if err := s.rdb.SetJSON(ctx, handoffKeyPrefix+handoff.SenderID, handoff, ttl); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"sender_id":  handoff.SenderID,
			"error":      err.Error(),
		}).Error("Failed to store handoff in redis")
		return chatbot.ErrSessionStoreFailed
	}
	return nil
}

func (s *redisHandoffStore) Stop(ctx context.Context, senderID string) error {
	var handoff entity.Handoff
	err := s.rdb.GetJSON(ctx, handoffKeyPrefix+senderID, &handoff)
	if errors.Is(err, redis.ErrNotFound) {
		return chatbot.ErrHandoffNotFound
	}
	if err != nil {
		return chatbot.ErrSessionStoreFailed
	}

	if err := s.rdb.Delete(ctx, handoffKeyPrefix+senderID); err != nil {
		return chatbot.ErrSessionStoreFailed
	}
	return nil
}

func (s *redisHandoffStore) Active(ctx context.Context, senderID string, now time.Time) (entity.Handoff, bool, error) {
	var handoff entity.Handoff
	err := s.rdb.GetJSON(ctx, handoffKeyPrefix+senderID, &handoff)
	if errors.Is(err, redis.ErrNotFound) {
		return entity.Handoff{}, false, nil
	}
	if err != nil {
		return entity.Handoff{}, false, chatbot.ErrSessionStoreFailed
	}
	if !handoff.ActiveAt(now) {
		return entity.Handoff{}, false, nil
	}
	return handoff, true, nil
}

func (s *redisHandoffStore) List(ctx context.Context, now time.Time) ([]entity.Handoff, error) {
	keys, err := s.rdb.Keys(ctx, handoffKeyPrefix+"*")
	if err != nil {
		return nil, chatbot.ErrSessionStoreFailed
	}

	out := make([]entity.Handoff, 0, len(keys))
	for _, key := range keys {
		handoff, ok, err := s.Active(ctx, strings.TrimPrefix(key, handoffKeyPrefix), now)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, handoff)
		}
	}
	sortHandoffs(out)
	return out, nil
}

func sortHandoffs(handoffs []entity.Handoff) {
	sort.Slice(handoffs, func(i, j int) bool {
		return handoffs[i].SenderID < handoffs[j].SenderID
	})
}
