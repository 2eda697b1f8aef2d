package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type key int

const (
	requestIDKey key = iota
)

// LocalsRequestID is the fiber Locals key the request id middleware fills.
const LocalsRequestID = "X-Request-ID"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(requestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx derives a context from the request's user context carrying
// the request id.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(LocalsRequestID).(string)
	if !ok || requestID == "" {
		requestID = c.Get(LocalsRequestID)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(c.UserContext(), requestID)
}
