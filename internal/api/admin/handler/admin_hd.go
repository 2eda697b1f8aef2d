package adminHandler

import (
	"time"

	"IsraBot/internal/api/admin"
	"IsraBot/internal/api/chatbot"
	"IsraBot/internal/entity"
	contextPkg "IsraBot/pkg/context"
	"IsraBot/pkg/handlerUtil"
	jwtPkg "IsraBot/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (h *AdminHandler) HandleLogin(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req admin.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.adminService.Login(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "admin_login")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AdminHandler) HandleListSessions(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	sessions, err := h.chatbotService.ListSessions(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_sessions")
	}

	res := make([]chatbot.SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		res = append(res, toSessionResponse(s))
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *AdminHandler) HandleResetSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.chatbotService.ResetSession(c, ctx.Params("senderID")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "reset_session")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *AdminHandler) HandleListHandoffs(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	handoffs, err := h.chatbotService.ListHandoffs(c)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "list_handoffs")
	}

	res := make([]admin.HandoffResponse, 0, len(handoffs))
	for _, ho := range handoffs {
		res = append(res, toHandoffResponse(ho))
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *AdminHandler) HandleStartHandoff(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetAdminLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Operator not found in token")
	}

	var req admin.HandoffRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	var duration time.Duration
	if req.Duration != "" {
		duration, err = time.ParseDuration(req.Duration)
		if err != nil || duration <= 0 {
			return errHandler.Handle(ctx, requestID, admin.ErrInvalidDuration, ctx.Path(), "start_handoff")
		}
	}

	handoff, err := h.chatbotService.StartHandoff(c, req.SenderID, operator.Username, duration)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "start_handoff")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, toHandoffResponse(handoff))
	}
}

func (h *AdminHandler) HandleStopHandoff(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 5*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	if err := h.chatbotService.StopHandoff(c, ctx.Params("senderID")); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "stop_handoff")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusNoContent, nil)
}

func (h *AdminHandler) HandleLookupRules(ctx *fiber.Ctx) error {
	errHandler := handlerUtil.New(h.log)

	found := h.chatbotService.LookupRules(ctx.Query("text"))

	res := make([]admin.RuleResponse, 0, len(found))
	for _, r := range found {
		res = append(res, admin.RuleResponse{
			Keywords: r.Keywords,
			Response: r.Response,
			Link:     r.Link,
		})
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
}

func (h *AdminHandler) HandleReloadRules(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 30*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	count, updatedAt, err := h.chatbotService.ReloadRules(c)
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Rules reload failed")
		return errHandler.Handle(ctx, requestID, admin.ErrRulesReloadFailed, ctx.Path(), "reload_rules")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, admin.RulesReloadResponse{
			Rules:     count,
			UpdatedAt: updatedAt,
		})
	}
}

func (h *AdminHandler) HandleSendMessage(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 15*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	operator, err := jwtPkg.GetAdminLoginData(ctx)
	if err != nil {
		return errHandler.HandleUnauthorized(ctx, requestID, "Operator not found in token")
	}

	var req admin.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	if err := h.adminService.SendMessage(c, operator.Username, req); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "send_operator_message")
	}

	return errHandler.HandleSuccess(ctx, fiber.StatusAccepted, nil)
}

func (h *AdminHandler) upgradeFeed(ctx *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(ctx) {
		return ctx.Next()
	}
	return fiber.ErrUpgradeRequired
}

func toSessionResponse(s entity.Session) chatbot.SessionResponse {
	res := chatbot.SessionResponse{
		SenderID:  s.SenderID,
		State:     s.State.String(),
		City:      s.Filters.City,
		District:  s.Filters.District,
		Detail:    s.Filters.Detail,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Filters.ServiceType != "" {
		res.ServiceType = s.Filters.ServiceType.DisplayName()
	}
	return res
}

func toHandoffResponse(ho entity.Handoff) admin.HandoffResponse {
	return admin.HandoffResponse{
		SenderID:  ho.SenderID,
		Operator:  ho.Operator,
		StartedAt: ho.StartedAt,
		Until:     ho.Until,
	}
}
