package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sitecms/internal/http/middleware"
	"sitecms/internal/service"
)

// DataPaths are the persistence endpoint paths. The .php alias keeps previously
// deployed front-ends working without a rebuild.
var DataPaths = []string{"/api/data", "/api/data.php"}

// RouteOptions carries wiring that is not a service.
type RouteOptions struct {
	// RequireSession gates document saves behind an editor session.
	RequireSession bool
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, contentSvc service.ContentService, authSvc service.AuthService, opts RouteOptions) {
	app.Get("/health", HealthCheck(contentSvc))
	app.Get("/healthz", LivenessProbe())

	if opts.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api", preflightOK(), cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	for _, p := range DataPaths {
		rel := p[len("/api"):]
		api.Get(rel, ReadContent(contentSvc))
		api.Post(rel, SubmitContent(contentSvc, authSvc, opts.RequireSession))
		api.Options(rel, Preflight())
	}

	api.Post("/auth/login", Login(authSvc))
	api.Post("/auth/logout", Logout(authSvc))
	api.Get("/auth/session", middleware.RequireSession(authSvc), CurrentSession())
}

// HealthCheck pings the content repository.
//
// @Summary Readiness probe
// @Tags health
// @Produce json
// @Success 200 {object} statusResponse
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(contentSvc service.ContentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := contentSvc.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(statusResponse{Status: "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// preflightOK turns the 204 that the cors middleware answers preflights with into the
// empty 200 existing clients expect. It must run before cors.
func preflightOK() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil && c.Method() == fiber.MethodOptions && c.Response().StatusCode() == fiber.StatusNoContent {
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			c.Status(fiber.StatusOK)
		}
		return err
	}
}
