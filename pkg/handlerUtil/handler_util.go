package handlerUtil

import (
	"context"
	"errors"

	"IsraBot/internal/api/admin"
	"IsraBot/internal/api/chatbot"
	"IsraBot/pkg/log"
	"IsraBot/pkg/response"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	if errors.Is(err, chatbot.ErrSignatureMismatch) {
		h.logger.WithFields(fields).Warn("Webhook signature rejected")
		return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
			Error: "Invalid webhook signature",
			Code:  "INVALID_SIGNATURE",
		})
	}

	if errors.Is(err, admin.ErrInvalidCredentials) {
		h.logger.WithFields(fields).Warn("Invalid admin credentials")
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Error: "Invalid username or password",
			Code:  "INVALID_CREDENTIALS",
		})
	}

	if errors.Is(err, chatbot.ErrSessionNotFound) || errors.Is(err, chatbot.ErrHandoffNotFound) {
		h.logger.WithFields(fields).Warn("Resource not found")
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  "NOT_FOUND",
		})
	}

	if errors.Is(err, admin.ErrWhatsappDisabled) {
		h.logger.WithFields(fields).Warn("WhatsApp channel requested while disabled")
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "WhatsApp channel is disabled",
			Code:  "WHATSAPP_DISABLED",
		})
	}

	if errors.Is(err, context.DeadlineExceeded) {
		h.logger.WithFields(fields).Warn("Operation timed out")
		return h.HandleRequestTimeout(c)
	}

	if code := response.StatusCode(err, 0); code != 0 {
		fields["code"] = code
		if code >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error("Operation failed with error response")
		} else {
			h.logger.WithFields(fields).Warn("Operation failed with error response")
		}
		return c.Status(code).JSON(ErrorResponse{Error: err.Error()})
	}

	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "An unexpected error occurred",
		Details: traceID,
	})
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error: "Validation failed: " + err.Error(),
		Code:  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(ErrorResponse{Error: utils.StatusMessage(fiber.StatusRequestTimeout)})
}

func (h *ErrorHandler) HandleUnauthorized(c *fiber.Ctx, requestID string, message string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"path":       c.Path(),
		"message":    message,
	}).Warn("Unauthorized access")

	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error: message,
		Code:  "UNAUTHORIZED",
	})
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
