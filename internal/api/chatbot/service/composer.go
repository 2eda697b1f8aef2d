package chatbotService

import (
	"context"
	"fmt"
	"strings"
	"time"

	"IsraBot/internal/entity"
	contextPkg "IsraBot/pkg/context"
	"IsraBot/pkg/nlp"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

const (
	menuText = "Merhaba! İsra Organizasyon'a hoş geldiniz 😊 Size hangi hizmetimizle yardımcı olabiliriz?\n" +
		"- Mehter takımı\n" +
		"- Palyaço\n" +
		"- Dini düğün / Sünnet düğünü\n" +
		"- Bando\n" +
		"- Karagöz - Hacivat"

	askLocationText     = "Harika, %s için yardımcı olayım! 🎉 Hangi il ve ilçede hizmet istiyorsunuz? (Örn: Adana Seyhan)"
	askCategoryText     = "%s için hangi hizmeti düşünüyorsunuz?\n- Mehter takımı\n- Palyaço\n- Dini düğün / Sünnet düğünü\n- Bando\n- Karagöz - Hacivat"
	recommendHeader     = "İşte size uygun paketler:\n"
	recommendFooter     = "\n\nİnceleyin, detay isterseniz yardımcı olabilirim! 😊"
	noPackagesText      = "Üzgünüz, %s için uygun paket bulamadık 🙏 Başka bir hizmet için hizmet adını yazarak yeniden başlayabilirsiniz."
	locationInvalidText = "Konumu anlayamadım 🙏 Lütfen hizmet adını yazıp il ve ilçeyi \"Adana Seyhan\" şeklinde yeniden gönderin."

	// SystemPrompt drives the generated menu replies.
	SystemPrompt = "Sen, İsra Organizasyon'un samimi WhatsApp asistanısın. " +
		"Müşteriden doğal sorularla şunları öğren: il, ilçe, hizmet türü (mehter, palyaço, dini düğün/sünnet, bando, karagöz), " +
		"ve gerekirse detay (mehter kişi sayısı, palyaço süre). " +
		"Yanıtlar kısa, samimi ve Türkçe olmalı. Asla link yazma, linkleri sistem ekler."

	generateTimeout = 10 * time.Second
)

// Generator produces a free-text reply. Implemented by the Gemini and OpenAI clients.
type Generator interface {
	GenerateReply(ctx context.Context, system string, history []entity.ChatMessage) (string, error)
}

type Composer struct {
	log       *logrus.Logger
	generator Generator
	limiter   *rate.Limiter
}

// NewComposer builds a composer. generator may be nil, in which case only the
// static templates are used.
func NewComposer(log *logrus.Logger, generator Generator, limit rate.Limit, burst int) *Composer {
	return &Composer{
		log:       log,
		generator: generator,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// Compose renders the reply for step. history ends with the inbound message and
// is only used for generated menu replies.
func (c *Composer) Compose(ctx context.Context, step Step, links []string, history []entity.ChatMessage) string {
	filters := step.Session.Filters

	switch step.Action {
	case ActionAskLocation:
		return fmt.Sprintf(askLocationText, filters.ServiceType.DisplayName())
	case ActionAskCategory:
		return fmt.Sprintf(askCategoryText, locationLabel(filters))
	case ActionRecommend:
		return recommendHeader + strings.Join(links, "\n") + recommendFooter
	case ActionNoPackages:
		return fmt.Sprintf(noPackagesText, locationLabel(filters))
	case ActionLocationInvalid:
		return locationInvalidText
	case ActionRuleReply:
		if step.Rule != nil {
			return step.Rule.Text()
		}
		return menuText
	case ActionHandoff:
		return ""
	default:
		return c.menu(ctx, history)
	}
}

func (c *Composer) menu(ctx context.Context, history []entity.ChatMessage) string {
	if c.generator == nil || len(history) == 0 {
		return menuText
	}

	if !c.limiter.Allow() {
		c.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
		}).Debug("AI reply skipped by rate limit")
		return menuText
	}

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	reply, err := c.generator.GenerateReply(ctx, SystemPrompt, history)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Warn("AI reply failed, using static menu")
		return menuText
	}

	reply = strings.TrimSpace(reply)
	if reply == "" || strings.Contains(reply, "http") {
		return menuText
	}
	return reply
}

func locationLabel(f entity.Filters) string {
	switch {
	case f.City != "" && f.District != "" && f.District != nlp.DefaultDistrict:
		return title(f.City + " " + f.District)
	case f.City != "":
		return title(f.City)
	case f.District != "":
		return title(f.District)
	default:
		return "bu bölge"
	}
}

func title(s string) string {
	return cases.Title(language.Turkish).String(s)
}
