package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"merchant-api/pkg/logger"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func serve(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(zap.InfoLevel)
	prev := logger.GetLogger()
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(prev) })

	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/ping", func(c echo.Context) error {
		logger.FromEcho(c).Info("handled")
		return c.NoContent(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, logs
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	rec, logs := serve(t, httptest.NewRequest(http.MethodGet, "/ping", nil))

	id := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		t.Fatalf("expected a uuid request id, got %q", id)
	}
	entries := logs.FilterMessage("handled").All()
	if len(entries) != 1 || entries[0].ContextMap()["request_id"] != id {
		t.Fatalf("expected handler log tagged with %s, got %+v", id, entries)
	}
}

func TestRequestIDMiddleware_KeepsIncomingID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")

	rec, _ := serve(t, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected incoming id to be echoed, got %q", got)
	}
}
