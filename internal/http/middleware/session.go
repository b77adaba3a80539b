package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"sitecms/internal/service"
)

// SessionLocalKey is where RequireSession stores the validated service.Session.
const SessionLocalKey = "admin_session"

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// RequireSession rejects requests without a valid, unexpired editor session with 401.
func RequireSession(auth service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := auth.Validate(c.UserContext(), BearerToken(c))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		c.Locals(SessionLocalKey, sess)
		return c.Next()
	}
}
