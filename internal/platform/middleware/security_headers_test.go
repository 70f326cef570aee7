package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSecurityHeaders_StampsEveryResponse(t *testing.T) {
	rec, err := invoke(SecurityHeaders(), okHandler, httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, kv := range apiHeaders {
		if got := rec.Header().Get(kv[0]); got != kv[1] {
			t.Errorf("header %s: got %q, want %q", kv[0], got, kv[1])
		}
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("expected API responses marked uncacheable")
	}
}

func TestSecurityHeaders_SetBeforeErrorResponses(t *testing.T) {
	handler := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	rec, err := invoke(SecurityHeaders(), handler, httptest.NewRequest(http.MethodGet, "/", nil))
	if err == nil {
		t.Fatal("expected the handler error passed through")
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected headers present on the error path")
	}
}
