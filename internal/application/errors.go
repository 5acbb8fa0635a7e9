package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a unique resource already exists.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when login credentials do not match a user.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrSessionExpired is returned when a session token is past its expiry.
	ErrSessionExpired = errors.New("application: session expired")
	// ErrSessionRevoked is returned when a session token has been revoked.
	ErrSessionRevoked = errors.New("application: session revoked")
)

// RejectionCode identifies why a reservation request was refused.
type RejectionCode string

const (
	// CodeInvalidRange rejects ranges where the start is not strictly before the end.
	CodeInvalidRange RejectionCode = "INVALID_RANGE"
	// CodeDurationOutOfRange rejects durations outside the configured bounds.
	CodeDurationOutOfRange RejectionCode = "DURATION_OUT_OF_RANGE"
	// CodeMisaligned rejects instants that do not fall on the slot boundary.
	CodeMisaligned RejectionCode = "MISALIGNED"
	// CodeRoomInactive rejects reservations against deactivated rooms.
	CodeRoomInactive RejectionCode = "ROOM_INACTIVE"
	// CodeOutsideOpeningHours rejects ranges not fully inside the room's opening window.
	CodeOutsideOpeningHours RejectionCode = "OUTSIDE_OPENING_HOURS"
	// CodeBlackedOut rejects ranges overlapping a maintenance blackout.
	CodeBlackedOut RejectionCode = "BLACKED_OUT"
	// CodeRoomAlreadyBooked rejects ranges overlapping a confirmed reservation.
	CodeRoomAlreadyBooked RejectionCode = "ROOM_ALREADY_BOOKED"
	// CodeQuotaExceeded rejects users already holding their limit of active reservations.
	CodeQuotaExceeded RejectionCode = "QUOTA_EXCEEDED"
)

// RejectionError carries the first failed booking check. Checks run in a
// fixed order, so concurrent attempts on the same range report the same code.
type RejectionError struct {
	Code    RejectionCode
	Message string
}

// Error implements the error interface.
func (r *RejectionError) Error() string {
	if r == nil {
		return ""
	}
	if r.Message == "" {
		return string(r.Code)
	}
	return string(r.Code) + ": " + r.Message
}

// IsInput reports whether the rejection stems from the request itself rather
// than the current state of the room or user. Input rejections map to 400,
// state rejections to 409.
func (r *RejectionError) IsInput() bool {
	if r == nil {
		return false
	}
	switch r.Code {
	case CodeInvalidRange, CodeDurationOutOfRange, CodeMisaligned:
		return true
	}
	return false
}

func reject(code RejectionCode, message string) *RejectionError {
	return &RejectionError{Code: code, Message: message}
}

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}
