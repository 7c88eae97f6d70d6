package middleware

import (
	"errors"
	"strings"

	"smartats/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"

	QueryTokenParam = "access_token"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		return m.authenticate(c, token, ok)
	}
}

// QueryTokenMiddleware also accepts the access token in the access_token
// query parameter, since browsers cannot set headers on a WebSocket handshake.
func (m *AuthMiddleware) QueryTokenMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get(fiber.HeaderAuthorization))
		if !ok {
			token = strings.TrimSpace(c.Query(QueryTokenParam))
			ok = token != ""
		}
		return m.authenticate(c, token, ok)
	}
}

func (m *AuthMiddleware) authenticate(c fiber.Ctx, token string, ok bool) error {
	if !ok {
		return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	claims, err := m.jwt.ParseAccess(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
		}
		return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
	}

	c.Locals(CtxUserIDKey, claims.UserID)
	c.Locals(CtxEmailKey, claims.Email)

	return c.Next()
}

// UserID returns the authenticated caller set by AuthMiddleware.
func UserID(c fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(CtxUserIDKey).(int64)
	return id, ok && id > 0
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}
