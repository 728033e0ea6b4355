package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeInvalidCredentials indicates the backend rejected the supplied
	// identity. The message is uniform and never reveals which part was wrong.
	ErrCodeInvalidCredentials ErrorCode = "invalid_credentials"
	// ErrCodeNetworkUnavailable indicates no response reached the server.
	ErrCodeNetworkUnavailable ErrorCode = "network_unavailable"
	// ErrCodeServer indicates a 5xx or malformed response from the backend.
	ErrCodeServer ErrorCode = "server_error"
	// ErrCodeCredentialPersistence indicates the secure credential store failed.
	// Non-fatal: callers fall back to an in-memory credential.
	ErrCodeCredentialPersistence ErrorCode = "credential_persistence"
	// ErrCodeSessionValidation indicates a stored token was rejected
	// (expired or revoked); treated as a forced sign-out.
	ErrCodeSessionValidation ErrorCode = "session_validation"
	// ErrCodeChannelDisconnected indicates the notice push channel lost its
	// transport and bounded reconnection is (or was) in progress.
	ErrCodeChannelDisconnected ErrorCode = "channel_disconnected"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal client error.
	ErrCodeInternal ErrorCode = "internal"
	// ErrCodeCanceled indicates the operation was canceled.
	ErrCodeCanceled ErrorCode = "canceled"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// InvalidCredentials creates a new InvalidCredentials error. The message is
// fixed on purpose so the user id / password distinction never leaks.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    ErrCodeInvalidCredentials,
		Message: "invalid user id or password",
	}
}

// NetworkUnavailable creates a new NetworkUnavailable error.
func NetworkUnavailable(message string) *AppError {
	return &AppError{
		Code:    ErrCodeNetworkUnavailable,
		Message: message,
	}
}

// Server creates a new Server error.
func Server(message string) *AppError {
	return &AppError{
		Code:    ErrCodeServer,
		Message: message,
	}
}

// Serverf creates a new Server error with formatted message.
func Serverf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeServer,
		Message: fmt.Sprintf(format, args...),
	}
}

// CredentialPersistence creates a new CredentialPersistence error.
func CredentialPersistence(message string) *AppError {
	return &AppError{
		Code:    ErrCodeCredentialPersistence,
		Message: message,
	}
}

// SessionValidation creates a new SessionValidation error.
func SessionValidation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeSessionValidation,
		Message: message,
	}
}

// ChannelDisconnected creates a new ChannelDisconnected error.
func ChannelDisconnected(message string) *AppError {
	return &AppError{
		Code:    ErrCodeChannelDisconnected,
		Message: message,
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Internal creates a new Internal error.
func Internal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
	}
}

// Internalf creates a new Internal error with formatted message.
func Internalf(format string, args ...any) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   err,
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsInvalidCredentials checks if an error is an InvalidCredentials error.
func IsInvalidCredentials(err error) bool {
	return isCode(err, ErrCodeInvalidCredentials)
}

// IsNetworkUnavailable checks if an error is a NetworkUnavailable error.
func IsNetworkUnavailable(err error) bool {
	return isCode(err, ErrCodeNetworkUnavailable)
}

// IsServer checks if an error is a Server error.
func IsServer(err error) bool {
	return isCode(err, ErrCodeServer)
}

// IsCredentialPersistence checks if an error is a CredentialPersistence error.
func IsCredentialPersistence(err error) bool {
	return isCode(err, ErrCodeCredentialPersistence)
}

// IsSessionValidation checks if an error is a SessionValidation error.
func IsSessionValidation(err error) bool {
	return isCode(err, ErrCodeSessionValidation)
}

// IsChannelDisconnected checks if an error is a ChannelDisconnected error.
func IsChannelDisconnected(err error) bool {
	return isCode(err, ErrCodeChannelDisconnected)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsInternal checks if an error is an Internal error.
func IsInternal(err error) bool {
	return isCode(err, ErrCodeInternal)
}

// IsCanceled checks if an error is a Canceled error.
func IsCanceled(err error) bool {
	return isCode(err, ErrCodeCanceled)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
