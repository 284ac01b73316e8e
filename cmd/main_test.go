package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"merchant-api/internal/handler"
	"merchant-api/pkg/logger"
	"merchant-api/pkg/metrics"

	"github.com/labstack/echo/v4"
	promclient "github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestUseMiddleware_RecoveredPanicIsLoggedAndCounted(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := logger.GetLogger()
	logger.SetLogger(zap.New(core))
	t.Cleanup(func() { logger.SetLogger(prev) })

	reg := promclient.NewRegistry()
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler
	useMiddleware(e, []string{"*"}, metrics.NewHTTPMetrics("merchant-api", reg))
	e.GET("/panic", func(c echo.Context) error {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected a request id on the recovered response")
	}

	entries := logs.FilterMessage("HTTP Request").All()
	if len(entries) != 1 {
		t.Fatalf("expected one request log line, got %d", len(entries))
	}
	if status := entries[0].ContextMap()["status"]; status != int64(http.StatusInternalServerError) {
		t.Fatalf("expected logged status 500, got %v", status)
	}

	scrape := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(scrape.Body.String(), `http_status_5xx_total{service="merchant-api"} 1`) {
		t.Fatalf("expected the panic to be counted as a 5xx, got:\n%s", scrape.Body.String())
	}
}
