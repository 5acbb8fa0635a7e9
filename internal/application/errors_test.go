package application

import (
	"errors"
	"fmt"
	"testing"
)

func TestRejectionError_IsInput(t *testing.T) {
	inputCodes := map[RejectionCode]bool{
		CodeInvalidRange:        true,
		CodeDurationOutOfRange:  true,
		CodeMisaligned:          true,
		CodeRoomInactive:        false,
		CodeOutsideOpeningHours: false,
		CodeBlackedOut:          false,
		CodeRoomAlreadyBooked:   false,
		CodeQuotaExceeded:       false,
	}

	for code, want := range inputCodes {
		if got := reject(code, "").IsInput(); got != want {
			t.Errorf("IsInput(%s) = %v, want %v", code, got, want)
		}
	}

	var nilErr *RejectionError
	if nilErr.IsInput() {
		t.Error("nil rejection must not report an input error")
	}
}

func TestRejectionError_Error(t *testing.T) {
	if got := reject(CodeRoomAlreadyBooked, "overlaps an existing reservation").Error(); got != "ROOM_ALREADY_BOOKED: overlaps an existing reservation" {
		t.Fatalf("unexpected message %q", got)
	}
	if got := reject(CodeQuotaExceeded, "").Error(); got != "QUOTA_EXCEEDED" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUnauthorized, "unauthorized"},
		{fmt.Errorf("wrapped: %w", ErrNotFound), "not_found"},
		{ErrAlreadyExists, "already_exists"},
		{ErrInvalidCredentials, "invalid_credentials"},
		{ErrSessionExpired, "session_expired"},
		{ErrSessionRevoked, "session_revoked"},
		{reject(CodeBlackedOut, "maintenance"), "rejected"},
		{&ValidationError{FieldErrors: map[string]string{"name": "required"}}, "validation"},
		{errors.New("boom"), "unexpected"},
	}

	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

func TestValidationError(t *testing.T) {
	vErr := &ValidationError{}
	if vErr.HasErrors() {
		t.Fatal("empty validation error must report no issues")
	}

	vErr.add("name", "name is required")
	other := &ValidationError{}
	other.add("capacity", "capacity must be positive")
	vErr.merge(other)

	if !vErr.HasErrors() || len(vErr.FieldErrors) != 2 {
		t.Fatalf("unexpected field errors %v", vErr.FieldErrors)
	}
	if vErr.Error() != "validation failed" {
		t.Fatalf("unexpected message %q", vErr.Error())
	}
}
