package testsupport

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"portfolio/internal/middleware"
	"portfolio/pkg/session"
)

// NewApp builds a fiber app with request ids and an /api/v1 group. The
// returned middleware guards routes against sessions held in sessions.
func NewApp(t *testing.T, sessions *Redis) (*fiber.App, fiber.Router, middleware.Middleware) {
	t.Helper()

	mw := middleware.New(Logger(), sessions, session.NewHub("test"))
	t.Cleanup(mw.Close)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())

	return app, app.Group("/api/v1"), mw
}

type Response struct {
	Status int
	Header map[string]string
	Body   []byte
}

// Do sends one request through app. contentType and auth may be empty.
func Do(t *testing.T, app *fiber.App, method, path string, body io.Reader, contentType, auth string) Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}

	header := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		header[k] = resp.Header.Get(k)
	}

	return Response{Status: resp.StatusCode, Header: header, Body: b}
}
