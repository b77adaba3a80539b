package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"sitecms/internal/http/middleware"
	"sitecms/internal/service"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ReadContent serves the stored site document, or {"status":"new_system"} when none exists.
// Query parameters (cache busters) are ignored.
//
// @Summary Read site content
// @Tags content
// @Produce json
// @Success 200 {object} model.SiteContent
// @Failure 500 {object} errorPayload
// @Router /api/data [get]
func ReadContent(contentSvc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body, err := contentSvc.Read(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "READ_FAILED", "failed to read site content")
		}
		c.Set(fiber.HeaderCacheControl, "no-store")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).Send(body)
	}
}

// SubmitContent handles POST bodies: a lead event is acknowledged without touching the
// document, anything else replaces the stored document in full. When requireSession is
// set, document saves (not lead events) need a valid editor session.
//
// @Summary Save site content or log a lead event
// @Tags content
// @Accept json
// @Produce json
// @Param body body model.SiteContent true "Full site document, or a lead event with action_type=lead_event"
// @Success 200 {object} statusResponse
// @Failure 400 {object} errorPayload
// @Failure 401 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /api/data [post]
func SubmitContent(contentSvc service.ContentService, authSvc service.AuthService, requireSession bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		sub, err := service.ParseSubmission(c.Body())
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_JSON", "Invalid JSON input")
		}

		if sub.Lead != nil {
			if err := contentSvc.RecordLead(ctx, *sub.Lead); err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			return c.JSON(statusResponse{Status: "lead_logged"})
		}

		if requireSession {
			if _, err := authSvc.Validate(ctx, middleware.BearerToken(c)); err != nil {
				return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "valid admin session required")
			}
		}

		if err := contentSvc.Write(ctx, sub.Document); err != nil {
			if errors.Is(err, service.ErrInvalidDocument) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_JSON", "Invalid JSON input")
			}
			return writeError(c, fiber.StatusInternalServerError, "WRITE_FAILED", "Failed to write site content. Check storage permissions.")
		}
		return c.JSON(statusResponse{Status: "success", Message: "Data synchronized with cloud"})
	}
}

// Preflight answers bare OPTIONS requests with an empty 200.
func Preflight() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendStatus(fiber.StatusOK)
	}
}
