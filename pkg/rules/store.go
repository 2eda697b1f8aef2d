package rules

import (
	"context"
	"strings"
	"sync"
	"time"

	"IsraBot/internal/entity"
	"IsraBot/pkg/nlp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type IStore interface {
	Lookup(text string) []entity.Rule
	Refresh(ctx context.Context) error
	Rules() []entity.Rule
	UpdatedAt() time.Time
	Run(ctx context.Context, interval time.Duration)
}

type indexedKeyword struct {
	keyword string
	rule    int
}

type snapshot struct {
	rules     []entity.Rule
	index     []indexedKeyword
	updatedAt time.Time
}

type store struct {
	log    *logrus.Logger
	source Source
	group  singleflight.Group

	mu   sync.RWMutex
	snap snapshot
}

func NewStore(log *logrus.Logger, source Source) IStore {
	return &store{
		log:    log,
		source: source,
	}
}

// Refresh replaces the snapshot. On error the previous snapshot stays in place.
func (s *store) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		rules, err := s.source.Fetch(ctx)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"source": s.source.String(),
				"error":  err.Error(),
			}).Warn("Failed to fetch rules, keeping previous snapshot")
			return nil, err
		}

		snap := buildSnapshot(rules)

		s.mu.Lock()
		s.snap = snap
		s.mu.Unlock()

		s.log.WithFields(logrus.Fields{
			"source": s.source.String(),
			"rules":  len(rules),
		}).Info("Rules refreshed")
		return nil, nil
	})
	return err
}

func (s *store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

func (s *store) Rules() []entity.Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Rule(nil), s.snap.rules...)
}

func (s *store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.updatedAt
}

// Lookup runs an exact pass and then a substring pass over the normalized
// text. A keyword contributes once and a rule is returned once.
func (s *store) Lookup(text string) []entity.Rule {
	if text == "" {
		return nil
	}

	s.mu.RLock()
	snap := s.snap
	s.mu.RUnlock()

	var out []entity.Rule
	seenKeyword := make(map[string]bool)
	seenRule := make(map[int]bool)

	collect := func(match func(keyword string) bool) {
		for _, ik := range snap.index {
			if seenKeyword[ik.keyword] || !match(ik.keyword) {
				continue
			}
			seenKeyword[ik.keyword] = true
			if seenRule[ik.rule] {
				continue
			}
			seenRule[ik.rule] = true
			out = append(out, snap.rules[ik.rule])
		}
	}

	collect(func(keyword string) bool { return keyword == text })
	collect(func(keyword string) bool { return strings.Contains(text, keyword) })

	return out
}

func buildSnapshot(rules []entity.Rule) snapshot {
	snap := snapshot{
		rules:     rules,
		updatedAt: time.Now(),
	}
	for i, rule := range rules {
		for _, keyword := range rule.Keywords {
			n := nlp.Normalize(keyword)
			if n == "" {
				continue
			}
			snap.index = append(snap.index, indexedKeyword{keyword: n, rule: i})
		}
	}
	return snap
}
