package chatbotService

import (
	"context"
	"time"

	chatbotRepository "IsraBot/internal/api/chatbot/repository"
	"IsraBot/internal/entity"
	"IsraBot/pkg/catalog"
	"IsraBot/pkg/nlp"
	"IsraBot/pkg/rules"
	"github.com/sirupsen/logrus"
)

type IChatbotService interface {
	HandleMessage(ctx context.Context, channel entity.Channel, senderID, rawText string) (Reply, error)

	ListSessions(ctx context.Context) ([]entity.Session, error)
	ResetSession(ctx context.Context, senderID string) error
	ExpireSessions(ctx context.Context) (int, error)

	StartHandoff(ctx context.Context, senderID, operator string, duration time.Duration) (entity.Handoff, error)
	StopHandoff(ctx context.Context, senderID string) error
	ListHandoffs(ctx context.Context) ([]entity.Handoff, error)
	RecordOperatorMessage(ctx context.Context, senderID, operator, text string)

	ReloadRules(ctx context.Context) (int, time.Time, error)
	LookupRules(text string) []entity.Rule
}

// FeedPublisher receives every handled message. The admin websocket hub implements it.
type FeedPublisher interface {
	Publish(v interface{})
}

type Reply struct {
	Text    string
	State   entity.SessionState
	Action  Action
	Handoff bool
}

type Config struct {
	HandoffTTL time.Duration
}

type chatbotService struct {
	log        *logrus.Logger
	repo       chatbotRepository.Repository
	rules      rules.IStore
	catalog    catalog.ICatalog
	extractor  nlp.IExtractor
	composer   *Composer
	feed       FeedPublisher
	locks      *keyedMutex
	handoffTTL time.Duration
	now        func() time.Time
}

func NewChatbotService(
	log *logrus.Logger,
	repo chatbotRepository.Repository,
	ruleStore rules.IStore,
	linkCatalog catalog.ICatalog,
	extractor nlp.IExtractor,
	composer *Composer,
	feed FeedPublisher,
	config Config,
) IChatbotService {
	return &chatbotService{
		log:        log,
		repo:       repo,
		rules:      ruleStore,
		catalog:    linkCatalog,
		extractor:  extractor,
		composer:   composer,
		feed:       feed,
		locks:      newKeyedMutex(),
		handoffTTL: config.HandoffTTL,
		now:        time.Now,
	}
}
