package validation

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(cfg Config) *fiber.App {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	app := fiber.New()
	app.Use(Middleware(cfg))
	app.Post("/api/v1/sessions/:token/responses", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/api/v1/sessions/:token/batch/responses", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(payload)
}

func TestRejectsOversizedAnswer(t *testing.T) {
	app := newTestApp(Config{MaxAnswerLength: 10})

	status, body := postJSON(t, app, "/api/v1/sessions/tok/responses",
		`{"responseText":"this answer is well over ten characters"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "maximum length")
}

func TestRejectsScriptInjection(t *testing.T) {
	app := newTestApp(Config{})

	status, body := postJSON(t, app, "/api/v1/sessions/tok/responses",
		`{"responseText":"<script>alert(1)</script>"}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "Invalid answer content")
}

func TestRejectsHostileBatchEntry(t *testing.T) {
	app := newTestApp(Config{})

	status, _ := postJSON(t, app, "/api/v1/sessions/tok/batch/responses",
		`{"answers":[{"questionId":"q1","responseText":"fine"},{"questionId":"q2","responseText":"javascript:alert(1)"}]}`)

	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestPassesCleanAnswer(t *testing.T) {
	app := newTestApp(Config{})

	status, _ := postJSON(t, app, "/api/v1/sessions/tok/responses",
		`{"responseText":"closures capture variables by reference","confidenceLevel":0.8}`)

	assert.Equal(t, fiber.StatusOK, status)
}

func TestRejectsUnsupportedContentType(t *testing.T) {
	app := newTestApp(Config{})

	req := httptest.NewRequest("POST", "/api/v1/sessions/tok/responses", strings.NewReader("text=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)
}

func TestRejectsMalformedJSON(t *testing.T) {
	app := newTestApp(Config{})

	status, _ := postJSON(t, app, "/api/v1/sessions/tok/responses", `{"responseText":`)

	assert.Equal(t, fiber.StatusBadRequest, status)
}
