package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{ErrInvalidCredentials, http.StatusUnauthorized},
		{ErrTokenExpired, http.StatusUnauthorized},
		{ErrMissingClaims, http.StatusUnauthorized},
		{ErrUserExists, http.StatusConflict},
		{ErrProductNotFound, http.StatusNotFound},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrForbidden, http.StatusForbidden},
		{WrapError(ErrInternal, errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		if got := ToHTTPStatus(tc.err); got != tc.want {
			t.Errorf("ToHTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWrapError_PreservesIdentity(t *testing.T) {
	cause := errors.New("db down")
	wrapped := fmt.Errorf("outer: %w", WrapError(ErrInternal, cause))

	if !errors.Is(wrapped, ErrInternal) {
		t.Error("Expected wrapped error to match ErrInternal")
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Expected wrapped error to expose its cause")
	}
	if KindOf(wrapped) != KindInternal {
		t.Errorf("Expected KindInternal, got %s", KindOf(wrapped))
	}
}

func TestGetErrorMessage_HidesInternalCause(t *testing.T) {
	if msg := GetErrorMessage(errors.New("pq: password authentication failed")); msg != ErrInternal.Message {
		t.Errorf("Expected generic message, got %q", msg)
	}
	if msg := GetErrorMessage(WrapError(ErrInvalidCredentials, errors.New("no rows"))); msg != "invalid credentials" {
		t.Errorf("Expected credentials message, got %q", msg)
	}
}
