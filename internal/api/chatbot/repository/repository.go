package chatbotRepository

import (
	"context"
	"time"

	"IsraBot/internal/entity"
	"IsraBot/pkg/redis"
	"github.com/sirupsen/logrus"
)

const (
	sessionKeyPrefix = "session:"
	handoffKeyPrefix = "handoff:"
)

type SessionStore interface {
	Get(ctx context.Context, senderID string) (entity.Session, error)
	Put(ctx context.Context, session entity.Session) error
	Delete(ctx context.Context, senderID string) error
	// Expire removes sessions idle longer than the store TTL and reports how many went.
	Expire(ctx context.Context, now time.Time) (int, error)
	List(ctx context.Context) ([]entity.Session, error)
}

type HandoffStore interface {
	Start(ctx context.Context, handoff entity.Handoff) error
	Stop(ctx context.Context, senderID string) error
	Active(ctx context.Context, senderID string, now time.Time) (entity.Handoff, bool, error)
	List(ctx context.Context, now time.Time) ([]entity.Handoff, error)
}

type Repository struct {
	Sessions SessionStore
	Handoffs HandoffStore
}

// NewMemory keeps everything in process memory. A ttl of zero disables expiry.
func NewMemory(log *logrus.Logger, ttl time.Duration) Repository {
	return Repository{
		Sessions: newMemorySessionStore(log, ttl, time.Now),
		Handoffs: newMemoryHandoffStore(log),
	}
}

func NewRedis(log *logrus.Logger, rdb redis.IRedis, ttl time.Duration) Repository {
	return Repository{
		Sessions: &redisSessionStore{rdb: rdb, ttl: ttl, log: log},
		Handoffs: &redisHandoffStore{rdb: rdb, log: log},
	}
}
