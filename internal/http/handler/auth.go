package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"sitecms/internal/http/middleware"
	"sitecms/internal/service"
)

type loginRequest struct {
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login exchanges the admin password for a session token.
//
// @Summary Open an editor session
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "Admin password"
// @Success 200 {object} sessionResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Router /api/auth/login [post]
func Login(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_JSON", "Invalid JSON input")
		}
		sess, err := authSvc.Login(c.UserContext(), req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "authentication failed: invalid access key")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(sessionResponse{Token: sess.Token, ExpiresAt: sess.ExpiresAt})
	}
}

// Logout ends the caller's session.
//
// @Summary Close an editor session
// @Tags auth
// @Success 204
// @Router /api/auth/logout [post]
func Logout(authSvc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := authSvc.Logout(c.UserContext(), middleware.BearerToken(c)); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// CurrentSession reports the session validated by middleware.RequireSession.
//
// @Summary Check the editor session
// @Tags auth
// @Produce json
// @Success 200 {object} sessionResponse
// @Failure 401 {object} errorPayload
// @Router /api/auth/session [get]
func CurrentSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := c.Locals(middleware.SessionLocalKey).(service.Session)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "valid admin session required")
		}
		return c.JSON(sessionResponse{ExpiresAt: sess.ExpiresAt})
	}
}
