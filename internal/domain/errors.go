package domain

import "fmt"

// ValidationError reports missing or malformed client input
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError creates a ValidationError with the given message
func NewValidationError(msg string) error { return &ValidationError{Message: msg} }

// ConflictError reports an identity that already exists
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// ConfigurationError reports a required secret or token that is not set
type ConfigurationError struct {
	Setting string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured: %s", e.Setting, e.Message)
}

// InvalidTokenError reports a session token that is malformed, forged or expired
type InvalidTokenError struct {
	Err error
}

func (e *InvalidTokenError) Error() string {
	if e.Err == nil {
		return "invalid session token"
	}
	return "invalid session token: " + e.Err.Error()
}

func (e *InvalidTokenError) Unwrap() error { return e.Err }

// NotificationError reports a failed welcome notification. It is logged, never returned to clients.
type NotificationError struct {
	To  string
	Err error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.To, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }

// UpstreamError wraps a store or storage-provider failure
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
