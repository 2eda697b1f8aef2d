package adminHandler

import (
	adminService "IsraBot/internal/api/admin/service"
	chatbotService "IsraBot/internal/api/chatbot/service"
	"IsraBot/internal/middleware"
	websocketPkg "IsraBot/pkg/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type AdminHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	adminService   adminService.IAdminService
	chatbotService chatbotService.IChatbotService
	hub            websocketPkg.IHub
}

func New(
	log *logrus.Logger,
	validate *validator.Validate,
	middleware middleware.Middleware,
	as adminService.IAdminService,
	cs chatbotService.IChatbotService,
	hub websocketPkg.IHub,
) *AdminHandler {
	return &AdminHandler{
		log:            log,
		validator:      validate,
		middleware:     middleware,
		adminService:   as,
		chatbotService: cs,
		hub:            hub,
	}
}

func (h *AdminHandler) Start(srv fiber.Router) {
	adm := srv.Group("/admin")
	adm.Post("/login", h.middleware.NewRateLimiter, h.HandleLogin)

	adm.Get("/sessions", h.middleware.NewTokenMiddleware, h.HandleListSessions)
	adm.Delete("/sessions/:senderID", h.middleware.NewTokenMiddleware, h.HandleResetSession)

	adm.Get("/handoff", h.middleware.NewTokenMiddleware, h.HandleListHandoffs)
	adm.Post("/handoff", h.middleware.NewTokenMiddleware, h.HandleStartHandoff)
	adm.Delete("/handoff/:senderID", h.middleware.NewTokenMiddleware, h.HandleStopHandoff)

	adm.Get("/rules/lookup", h.middleware.NewTokenMiddleware, h.HandleLookupRules)
	adm.Post("/rules/reload", h.middleware.NewTokenMiddleware, h.HandleReloadRules)

	adm.Post("/messages", h.middleware.NewTokenMiddleware, h.HandleSendMessage)

	adm.Get("/feed", h.middleware.NewTokenMiddleware, h.upgradeFeed, websocket.New(h.hub.Serve))
}
