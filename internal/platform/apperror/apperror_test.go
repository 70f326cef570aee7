package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validationf("bad input"), KindValidation},
		{"not found", NotFoundf("patient %s not found", "x"), KindNotFound},
		{"conflict", Conflictf("duplicate"), KindConflict},
		{"internal", Internal(errors.New("boom")), KindInternal},
		{"untyped", errors.New("plain"), KindInternal},
		{"wrapped typed", fmt.Errorf("outer: %w", NotFoundf("gone")), KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validationf("bad"), http.StatusBadRequest},
		{NotFoundf("gone"), http.StatusNotFound},
		{Conflictf("dup"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	e := Validationf("price must be positive")
	if e.Error() != "price must be positive" {
		t.Errorf("unexpected message: %q", e.Error())
	}

	cause := errors.New("connection reset")
	wrapped := Wrap(KindInternal, "query patients", cause)
	if wrapped.Error() != "query patients: connection reset" {
		t.Errorf("unexpected wrapped message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("expected wrapped cause to survive errors.Is")
	}
}

func TestWithFields(t *testing.T) {
	e := Validationf("invalid request").WithFields(map[string]string{"name": "name is required"})
	got := FieldsOf(e)
	if got["name"] != "name is required" {
		t.Errorf("expected field detail, got %v", got)
	}
	if FieldsOf(errors.New("plain")) != nil {
		t.Error("expected nil fields for untyped error")
	}
}

func TestPredicates(t *testing.T) {
	if !IsNotFound(NotFoundf("gone")) {
		t.Error("IsNotFound failed")
	}
	if !IsConflict(Conflictf("dup")) {
		t.Error("IsConflict failed")
	}
	if !IsValidation(Validationf("bad")) {
		t.Error("IsValidation failed")
	}
	if IsNotFound(Conflictf("dup")) {
		t.Error("IsNotFound matched a conflict")
	}
}
