package chatbotHandler

import (
	"errors"
	"time"

	"IsraBot/internal/api/chatbot"
	"IsraBot/internal/entity"
	contextPkg "IsraBot/pkg/context"
	"IsraBot/pkg/handlerUtil"
	"IsraBot/pkg/log"
	"github.com/gofiber/fiber/v2"
	"github.com/twilio/twilio-go/twiml"
	"golang.org/x/net/context"
)

const handleTimeout = 20 * time.Second

func (h *ChatbotHandler) HandleTwilioWebhook(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), handleTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req chatbot.TwilioWebhook
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, chatbot.ErrInvalidWebhook, ctx.Path(), "parse_twilio_webhook")
	}

	if h.signatures != nil && !h.validSignature(ctx) {
		return errHandler.Handle(ctx, requestID, chatbot.ErrSignatureMismatch, ctx.Path(), "validate_twilio_signature")
	}

	h.log.WithFields(log.Fields{
		"request_id":  requestID,
		"message_sid": req.MessageSid,
		"from":        req.From,
	}).Debug("Twilio message received")

	reply, err := h.chatbotService.HandleMessage(c, entity.ChannelTwilio, req.From, req.Body)
	if errors.Is(err, chatbot.ErrEmptyMessage) {
		return h.sendTwiML(ctx, "")
	}
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "handle_twilio_message")
	}

	return h.sendTwiML(ctx, reply.Text)
}

func (h *ChatbotHandler) HandleChat(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), handleTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req chatbot.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	reply, err := h.chatbotService.HandleMessage(c, entity.ChannelHTTP, req.SenderID, req.Text)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "handle_chat_message")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, chatbot.ChatResponse{
			Reply:   reply.Text,
			State:   reply.State.String(),
			Action:  reply.Action.String(),
			Handoff: reply.Handoff,
		})
	}
}

func (h *ChatbotHandler) validSignature(ctx *fiber.Ctx) bool {
	signature := ctx.Get("X-Twilio-Signature")
	if signature == "" {
		return false
	}

	url := h.webhookURL
	if url == "" {
		url = ctx.BaseURL() + ctx.OriginalURL()
	}

	params := make(map[string]string)
	ctx.Request().PostArgs().VisitAll(func(key, value []byte) {
		params[string(key)] = string(value)
	})

	return h.signatures.Validate(url, params, signature)
}

// sendTwiML answers with a messaging response. An empty text yields an empty
// <Response/> so Twilio sends nothing.
func (h *ChatbotHandler) sendTwiML(ctx *fiber.Ctx, text string) error {
	var verbs []twiml.Element
	if text != "" {
		verbs = append(verbs, &twiml.MessagingMessage{Body: text})
	}

	body, err := twiml.Messages(verbs)
	if err != nil {
		return handlerUtil.New(h.log).Handle(ctx, h.middleware.GetRequestID(ctx), err, ctx.Path(), "render_twiml")
	}

	ctx.Set(fiber.HeaderContentType, "text/xml; charset=utf-8")
	return ctx.Status(fiber.StatusOK).SendString(body)
}
