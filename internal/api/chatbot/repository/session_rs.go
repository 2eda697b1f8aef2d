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

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]entity.Session
	ttl      time.Duration
	now      func() time.Time
	log      *logrus.Logger
}

func newMemorySessionStore(log *logrus.Logger, ttl time.Duration, now func() time.Time) *memorySessionStore {
	return &memorySessionStore{
		sessions: make(map[string]entity.Session),
		ttl:      ttl,
		now:      now,
		log:      log,
	}
}

func (s *memorySessionStore) expired(session entity.Session, now time.Time) bool {
	return s.ttl > 0 && now.Sub(session.UpdatedAt) > s.ttl
}

func (s *memorySessionStore) Get(ctx context.Context, senderID string) (entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[senderID]
	if !ok {
		return entity.Session{}, chatbot.ErrSessionNotFound
	}

	if s.expired(session, s.now()) {
		delete(s.sessions, senderID)
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"sender_id":  senderID,
		}).Debug("Session expired on read")
		return entity.Session{}, chatbot.ErrSessionNotFound
	}

	return session, nil
}

func (s *memorySessionStore) Put(_ context.Context, session entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.SenderID] = session
	return nil
}

func (s *memorySessionStore) Delete(_ context.Context, senderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, senderID)
	return nil
}

func (s *memorySessionStore) Expire(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if s.expired(session, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

func (s *memorySessionStore) List(_ context.Context) ([]entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	out := make([]entity.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if !s.expired(session, now) {
			out = append(out, session)
		}
	}
	sortSessions(out)
	return out, nil
}

type redisSessionStore struct {
	rdb redis.IRedis
	ttl time.Duration
	log *logrus.Logger
}

func (s *redisSessionStore) Get(ctx context.Context, senderID string) (entity.Session, error) {
	var session entity.Session
	err := s.rdb.GetJSON(ctx, sessionKeyPrefix+senderID, &session)
	if errors.Is(err, redis.ErrNotFound) {
		return entity.Session{}, chatbot.ErrSessionNotFound
	}
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"sender_id":  senderID,
			"error":      err.Error(),
		}).Error("Failed to read session from redis")
		return entity.Session{}, chatbot.ErrSessionStoreFailed
	}
	return session, nil
}

func (s *redisSessionStore) Put(ctx context.Context, session entity.Session) error {
	if err := s.rdb.SetJSON(ctx, sessionKeyPrefix+session.SenderID, session, s.ttl); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"sender_id":  session.SenderID,
			"error":      err.Error(),
		}).Error("Failed to write session to redis")
		return chatbot.ErrSessionStoreFailed
	}
	return nil
}

func (s *redisSessionStore) Delete(ctx context.Context, senderID string) error {
	if err := s.rdb.Delete(ctx, sessionKeyPrefix+senderID); err != nil {
		return chatbot.ErrSessionStoreFailed
	}
	return nil
}

// Expire is a no-op, redis drops idle keys through their TTL.
func (s *redisSessionStore) Expire(context.Context, time.Time) (int, error) {
	return 0, nil
}

func (s *redisSessionStore) List(ctx context.Context) ([]entity.Session, error) {
	keys, err := s.rdb.Keys(ctx, sessionKeyPrefix+"*")
	if err != nil {
		return nil, chatbot.ErrSessionStoreFailed
	}

	out := make([]entity.Session, 0, len(keys))
	for _, key := range keys {
		session, err := s.Get(ctx, strings.TrimPrefix(key, sessionKeyPrefix))
		if errors.Is(err, chatbot.ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, session)
	}
	sortSessions(out)
	return out, nil
}

func sortSessions(sessions []entity.Session) {
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].SenderID < sessions[j].SenderID
	})
}
