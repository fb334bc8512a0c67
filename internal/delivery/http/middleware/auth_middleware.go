package middleware

import (
	"errors"
	"strings"

	"smart-apply/internal/pkg/jwt"

	"github.com/gofiber/fiber/v3"
)

const (
	CtxUserIDKey    = "user_id"
	CtxCompanyIDKey = "company_id"
	CtxEmailKey     = "email"
	CtxNameKey      = "name"
)

// AuthMiddleware validates bearer tokens and scopes routes to one role.
// Applicant tokens come from the external identity provider (shared HMAC
// secret); company tokens are minted by the login flow. Either way the
// validated subject is trusted as given.
type AuthMiddleware struct {
	tokens jwt.Service
}

func NewAuthMiddleware(tokens jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireApplicant() fiber.Handler {
	return m.require(jwt.RoleApplicant, CtxUserIDKey)
}

func (m *AuthMiddleware) RequireCompany() fiber.Handler {
	return m.require(jwt.RoleCompany, CtxCompanyIDKey)
}

func (m *AuthMiddleware) require(role jwt.Role, ctxKey string) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.tokens.Validate(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		if claims.TokenRole != role {
			return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
		}

		c.Locals(ctxKey, claims.SubjectID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxNameKey, claims.Name)

		return c.Next()
	}
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
