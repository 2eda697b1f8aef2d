package middleware

import (
	"strings"

	"IsraBot/internal/entity"
	jwtPkg "IsraBot/pkg/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	AccessTokenSecret = "JWT_ACCESS_TOKEN_SECRET"
	AdminRole         = "admin"
)

type tokenMiddleware struct {
}

func newTokenMiddleware() *tokenMiddleware {
	return &tokenMiddleware{}
}

func (m *middleware) unauthorized(ctx *fiber.Ctx, reason string) error {
	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"client_ip":  ctx.IP(),
		"error":      reason,
	}).Warn("Admin authentication failed")

	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "Unauthorized, access token invalid or expired",
	})
}

// NewTokenMiddleware admits requests carrying an admin token, either as a
// Bearer header or, for websocket upgrades, as the "token" query parameter.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")

	var (
		adminToken *jwt.Token
		err        error
	)

	switch {
	case authHeader != "":
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return m.unauthorized(ctx, "Authorization header format is invalid")
		}
		adminToken, err = jwtPkg.VerifyTokenHeader(ctx, AccessTokenSecret)
	case ctx.Query("token") != "":
		adminToken, err = jwtPkg.VerifyToken(ctx.Query("token"), AccessTokenSecret)
	default:
		return m.unauthorized(ctx, "Authorization header is missing")
	}

	if err != nil {
		return m.unauthorized(ctx, err.Error())
	}

	claims, ok := adminToken.Claims.(jwt.MapClaims)
	if !ok {
		return m.unauthorized(ctx, "Invalid token claims")
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	if username == "" || role != AdminRole {
		return m.unauthorized(ctx, "Token claims are missing required fields")
	}

	ctx.Locals(jwtPkg.AdminLocalsKey, entity.AdminLoginData{Username: username})

	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"username":   username,
	}).Debug("Authentication successful")
	return ctx.Next()
}
