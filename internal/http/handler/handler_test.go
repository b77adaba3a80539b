package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sitecms/internal/model"
	"sitecms/internal/service"
	serviceMocks "sitecms/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	mockSvc := new(serviceMocks.MockContentService)
	app := fiber.New()
	app.Get("/health", HealthCheck(mockSvc))

	t.Run("healthy", func(t *testing.T) {
		mockSvc.On("Ping", mock.Anything).Return(nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		mockSvc.On("Ping", mock.Anything).Return(errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadContent(t *testing.T) {
	mockSvc := new(serviceMocks.MockContentService)
	app := fiber.New()
	app.Get("/api/data", ReadContent(mockSvc))

	t.Run("stored document is returned verbatim", func(t *testing.T) {
		stored := []byte(`{"hero":{"headline":"Hi"},"extra":true}`)
		mockSvc.On("Read", mock.Anything).Return(stored, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/data?t=1700000000000", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get("Content-Type"))
		assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
		b, _ := io.ReadAll(resp.Body)
		assert.Equal(t, string(stored), string(b))
		mockSvc.AssertExpectations(t)
	})

	t.Run("new system sentinel", func(t *testing.T) {
		mockSvc.On("Read", mock.Anything).Return([]byte(`{"status":"new_system"}`), nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/data", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, model.StatusNewSystem, body["status"])
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("Read", mock.Anything).Return(nil, errors.New("disk")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/data", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "READ_FAILED", body.Error.Code)
	})
}

func TestSubmitContent(t *testing.T) {
	doc := []byte(`{"hero":{"headline":"Hi"}}`)

	t.Run("document save", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockContentService)
		mockAuth := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/api/data", SubmitContent(mockSvc, mockAuth, false))

		mockSvc.On("Write", mock.Anything, doc).Return(nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewReader(doc))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body statusResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "success", body.Status)
		mockSvc.AssertExpectations(t)
		mockAuth.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything)
	})

	t.Run("lead event is acknowledged and not persisted", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockContentService)
		app := fiber.New()
		app.Post("/api/data", SubmitContent(mockSvc, nil, true))

		lead := `{"action_type":"lead_event","name":"Ann","email":"ann@example.com"}`
		mockSvc.On("RecordLead", mock.Anything, model.LeadEvent{
			ActionType: model.LeadEventAction,
			Name:       "Ann",
			Email:      "ann@example.com",
		}).Return(nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewBufferString(lead)))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body statusResponse
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "lead_logged", body.Status)
		mockSvc.AssertExpectations(t)
		mockSvc.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
	})

	t.Run("unparseable json", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockContentService)
		app := fiber.New()
		app.Post("/api/data", SubmitContent(mockSvc, nil, false))

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewBufferString(`{"hero":`)))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_JSON", body.Error.Code)
	})

	t.Run("write failure", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockContentService)
		app := fiber.New()
		app.Post("/api/data", SubmitContent(mockSvc, nil, false))

		mockSvc.On("Write", mock.Anything, doc).Return(errors.New("permission denied")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewReader(doc)))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "WRITE_FAILED", body.Error.Code)
	})

	t.Run("session required", func(t *testing.T) {
		mockSvc := new(serviceMocks.MockContentService)
		mockAuth := new(serviceMocks.MockAuthService)
		app := fiber.New()
		app.Post("/api/data", SubmitContent(mockSvc, mockAuth, true))

		mockAuth.On("Validate", mock.Anything, "").Return(service.Session{}, service.ErrInvalidSession).Once()
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewReader(doc)))
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		mockSvc.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)

		mockAuth.On("Validate", mock.Anything, "tok").Return(service.Session{Token: "tok"}, nil).Once()
		mockSvc.On("Write", mock.Anything, doc).Return(nil).Once()
		req := httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewReader(doc))
		req.Header.Set("Authorization", "Bearer tok")
		resp, _ = app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		mockAuth.AssertExpectations(t)
		mockSvc.AssertExpectations(t)
	})
}

func TestLogin(t *testing.T) {
	mockAuth := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/api/auth/login", Login(mockAuth))

	t.Run("success", func(t *testing.T) {
		exp := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		mockAuth.On("Login", mock.Anything, "pw").Return(service.Session{Token: "tok", ExpiresAt: exp}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"password":"pw"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body sessionResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "tok", body.Token)
		assert.True(t, exp.Equal(body.ExpiresAt))
	})

	t.Run("wrong password", func(t *testing.T) {
		mockAuth.On("Login", mock.Anything, "nope").Return(service.Session{}, service.ErrInvalidCredentials).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{"password":"nope"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_CREDENTIALS", body.Error.Code)
	})

	t.Run("bad body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(`{`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	mockAuth.AssertExpectations(t)
}

func TestLogout(t *testing.T) {
	mockAuth := new(serviceMocks.MockAuthService)
	app := fiber.New()
	app.Post("/api/auth/logout", Logout(mockAuth))

	mockAuth.On("Logout", mock.Anything, "tok").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer tok")
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mockAuth.AssertExpectations(t)
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})

	mockSvc := new(serviceMocks.MockContentService)
	mockAuth := new(serviceMocks.MockAuthService)
	RegisterRoutes(app, mockSvc, mockAuth, RouteOptions{Gatherer: prometheus.NewRegistry()})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "NOT_FOUND", res.Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "METHOD_NOT_ALLOWED", res.Error.Code)
	})

	t.Run("legacy php path", func(t *testing.T) {
		mockSvc.On("Read", mock.Anything).Return([]byte(`{"status":"new_system"}`), nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/data.php", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	})

	t.Run("bare options", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodOptions, "/api/data", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.Empty(t, b)
	})

	t.Run("cors preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/data", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
		assert.Equal(t, fiber.MIMEApplicationJSON, resp.Header.Get("Content-Type"))
	})

	t.Run("session endpoint requires a token", func(t *testing.T) {
		mockAuth.On("Validate", mock.Anything, "").Return(service.Session{}, service.ErrInvalidSession).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "UNAUTHORIZED", res.Error.Code)
	})

	t.Run("metrics", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestErrorHandler(t *testing.T) {
	mockSvc := new(serviceMocks.MockContentService)
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
		BodyLimit:    64,
	})
	app.Post("/api/data", SubmitContent(mockSvc, nil, false))
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret internals") })
	app.Get("/timeout", func(c *fiber.Ctx) error { return fiber.ErrRequestTimeout })

	t.Run("body over limit", func(t *testing.T) {
		body := bytes.Repeat([]byte("a"), 128)
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/data", bytes.NewReader(body)))

		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "PAYLOAD_TOO_LARGE", res.Error.Code)
		assert.Equal(t, res.Error.Message, res.Message)
	})

	t.Run("plain error does not leak", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		b, _ := io.ReadAll(resp.Body)
		assert.NotContains(t, string(b), "secret internals")
		assert.Contains(t, string(b), "INTERNAL_ERROR")
	})

	t.Run("unmapped status is kept", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/timeout", nil))

		assert.Equal(t, http.StatusRequestTimeout, resp.StatusCode)
		var res errorPayload
		json.NewDecoder(resp.Body).Decode(&res)
		assert.Equal(t, "INTERNAL_ERROR", res.Error.Code)
	})
}
