package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

// callWithRoles runs a RequireRole-guarded handler as a caller holding the
// given roles and returns the handler error.
func callWithRoles(t *testing.T, mw echo.MiddlewareFunc, roles []string) error {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if roles != nil {
		req = req.WithContext(context.WithValue(req.Context(), UserRolesKey, roles))
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())
	return mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		guard   []string
		held    []string
		allowed bool
	}{
		{"matching role", []string{"technician", "receptionist"}, []string{"technician"}, true},
		{"second listed role", []string{"technician", "receptionist"}, []string{"receptionist"}, true},
		{"unlisted role", []string{"technician", "receptionist"}, []string{"billing"}, false},
		{"admin passes any guard", []string{"technician"}, []string{"admin"}, true},
		{"no identity", []string{"technician"}, nil, false},
		{"empty role list", []string{"technician"}, []string{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := callWithRoles(t, RequireRole(tc.guard...), tc.held)
			if tc.allowed {
				if err != nil {
					t.Fatalf("expected request to pass, got %v", err)
				}
				return
			}
			he, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("expected *echo.HTTPError, got %T", err)
			}
			if he.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", he.Code)
			}
		})
	}
}

func TestRequireRole_DenialNamesRoles(t *testing.T) {
	err := callWithRoles(t, RequireRole("technician", "receptionist"), []string{"billing"})
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	msg, _ := he.Message.(string)
	if !strings.Contains(msg, "technician or receptionist") {
		t.Fatalf("denial should name the missing roles, got %q", msg)
	}
}

func TestIdentityFromContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserIDKey, "user-123")
	ctx = context.WithValue(ctx, UserRolesKey, []string{"technician"})

	if got := UserIDFromContext(ctx); got != "user-123" {
		t.Fatalf("expected user-123, got %q", got)
	}
	if got := RolesFromContext(ctx); len(got) != 1 || got[0] != "technician" {
		t.Fatalf("unexpected roles: %v", got)
	}
	if got := UserIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty subject on a bare context, got %q", got)
	}
	if got := RolesFromContext(context.Background()); got != nil {
		t.Fatalf("expected nil roles on a bare context, got %v", got)
	}
}
