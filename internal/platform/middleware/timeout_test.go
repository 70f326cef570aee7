package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
)

func TestRequestTimeout_FastHandlerUnaffected(t *testing.T) {
	var hasDeadline bool
	handler := func(c echo.Context) error {
		_, hasDeadline = c.Request().Context().Deadline()
		return c.String(http.StatusOK, "ok")
	}

	if _, err := invoke(RequestTimeout(5*time.Second), handler, httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !hasDeadline {
		t.Error("expected a deadline on the request context")
	}
}

func TestRequestTimeout_SlowHandlerGets504(t *testing.T) {
	handler := func(c echo.Context) error {
		select {
		case <-time.After(5 * time.Second):
			return c.String(http.StatusOK, "ok")
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
	}

	_, err := invoke(RequestTimeout(50*time.Millisecond), handler, httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil))
	if err == nil {
		t.Fatal("expected a timeout error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusGatewayTimeout {
		t.Fatalf("expected 504, got %v", err)
	}
}

func TestRequestTimeout_HandlerErrorsPassThrough(t *testing.T) {
	handler := func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}

	_, err := invoke(RequestTimeout(5*time.Second), handler, httptest.NewRequest(http.MethodGet, "/api/v1/patients/123", nil))
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Fatalf("expected the handler's 404, got %v", err)
	}
}

func TestRequestTimeout_PanicSurfacesAsError(t *testing.T) {
	handler := func(c echo.Context) error {
		panic("boom")
	}

	_, err := invoke(RequestTimeout(5*time.Second), handler, httptest.NewRequest(http.MethodGet, "/", nil))
	if err == nil {
		t.Fatal("expected the panic surfaced as an error")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected the panic value in the error, got %v", err)
	}
}
