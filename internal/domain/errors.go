package domain

import (
	"errors"
	"fmt"
)

var (
	// OTP errors
	ErrNoSession = errors.New("no OTP session for this chat")
	ErrExpired   = errors.New("OTP code has expired")
	ErrMismatch  = errors.New("invalid OTP code")

	// Collaborator errors
	ErrTransport = errors.New("messaging transport failure")
	ErrDirectory = errors.New("login directory failure")

	// Validation errors
	ErrChatIDRequired = errors.New("chat ID is required")
	ErrInvalidChatID  = errors.New("chat ID must be an integer")
)

// Reason codes returned to the browser in failure responses.
const (
	ReasonNoSession      = "NoSession"
	ReasonExpired        = "Expired"
	ReasonMismatch       = "Mismatch"
	ReasonTransportError = "TransportError"
	ReasonDirectoryError = "DirectoryError"
	ReasonInvalidChatID  = "InvalidChatID"
	ReasonInternal       = "InternalError"
)

// DirectoryError wraps a failure of a Login Directory operation.
type DirectoryError struct {
	Op  string
	Err error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("login directory %s: %v", e.Op, e.Err)
}

func (e *DirectoryError) Unwrap() error { return e.Err }

// Is makes every DirectoryError match ErrDirectory.
func (e *DirectoryError) Is(target error) bool {
	return target == ErrDirectory
}

// ReasonOf maps an error to the reason code exposed over HTTP.
func ReasonOf(err error) string {
	switch {
	case errors.Is(err, ErrNoSession):
		return ReasonNoSession
	case errors.Is(err, ErrExpired):
		return ReasonExpired
	case errors.Is(err, ErrMismatch):
		return ReasonMismatch
	case errors.Is(err, ErrDirectory):
		return ReasonDirectoryError
	case errors.Is(err, ErrTransport):
		return ReasonTransportError
	case errors.Is(err, ErrChatIDRequired), errors.Is(err, ErrInvalidChatID):
		return ReasonInvalidChatID
	default:
		return ReasonInternal
	}
}

// IsClientError reports whether err is caused by the caller's input.
func IsClientError(err error) bool {
	switch ReasonOf(err) {
	case ReasonNoSession, ReasonExpired, ReasonMismatch, ReasonInvalidChatID:
		return true
	}
	return false
}
