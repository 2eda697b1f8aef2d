package config

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

func NewFiber(logger *logrus.Logger) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:           "IsraBot",
			BodyLimit:         1 * 1024 * 1024,
			DisableKeepalive:  false,
			StrictRouting:     true,
			CaseSensitive:     true,
			EnablePrintRoutes: true,
			JSONEncoder:       jsoniter.Marshal,
			JSONDecoder:       jsoniter.Unmarshal,
			ErrorHandler:      newErrorHandler(logger),
		})

	return app
}

// newErrorHandler answers errors that escape the handlers, such as unknown
// routes or a refused websocket upgrade.
func newErrorHandler(logger *logrus.Logger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}

		entry := logger.WithFields(logrus.Fields{
			"path":   ctx.Path(),
			"method": ctx.Method(),
			"status": code,
			"error":  err.Error(),
		})
		if code >= fiber.StatusInternalServerError {
			entry.Error("Unhandled request error")
		} else {
			entry.Debug("Request rejected")
		}

		return ctx.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
