package middleware

import (
	"time"

	contextPkg "IsraBot/pkg/context"
	"IsraBot/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey = contextPkg.LocalsRequestID

	maxRequestIDLength = 64
)

// NewRequestIDMiddleware keeps a caller supplied X-Request-ID when it is
// short enough and otherwise issues a ULID.
func NewRequestIDMiddleware() fiber.Handler {
	utilsInstance := utils.New()

	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDKey)

		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID, _ = utilsInstance.NewULIDFromTimestamp(time.Now())
		}

		c.Locals(RequestIDKey, requestID)
		c.Set(RequestIDKey, requestID)

		return c.Next()
	}
}
