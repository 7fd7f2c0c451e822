package domain

import (
	"errors"
	"fmt"
)

// Application error codes
const (
	EINVALID      = "invalid"        // Invalid input or validation failure
	EUNAUTHORIZED = "unauthorized"   // Authentication required
	EFORBIDDEN    = "forbidden"      // Permission denied
	ENOTFOUND     = "not_found"      // Resource not found
	ECONFLICT     = "conflict"       // Resource conflict (e.g., duplicate)
	ELIMIT        = "limit_exceeded" // Plan usage ceiling reached
	ERATELIMIT    = "rate_limit"     // Too many requests
	EUNAVAILABLE  = "unavailable"    // Upstream dependency failed
	EINTERNAL     = "internal"       // Internal server error
)

// Error represents an application error with structured information.
type Error struct {
	Code    string // Machine-readable error code
	Op      string // Operation that failed (e.g., "usage.track")
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf creates a new Error with the given code, operation, and formatted message.
func Errorf(code, op, format string, args ...interface{}) *Error {
	return &Error{
		Code:    code,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorCode returns the code of the root error, or EINTERNAL if none.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var le *LimitError
	if errors.As(err, &le) {
		return ELIMIT
	}
	return EINTERNAL
}

// ErrorMessage returns the human-readable message of the error.
// Internal error details are never exposed to clients.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var le *LimitError
	if errors.As(err, &le) {
		return le.Message
	}
	var e *Error
	if errors.As(err, &e) && e.Code != EINTERNAL {
		return e.Message
	}
	return "An internal error occurred. Please try again later."
}

// ErrorOp returns the operation of the root error, if any.
func ErrorOp(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Op
	}
	return ""
}

// Convenience constructors for common error types

// NotFound creates a not found error.
func NotFound(op, resource, id string) *Error {
	return &Error{
		Code:    ENOTFOUND,
		Op:      op,
		Message: fmt.Sprintf("%s with ID %q not found", resource, id),
	}
}

// Invalid creates a validation error.
func Invalid(op, message string) *Error {
	return &Error{
		Code:    EINVALID,
		Op:      op,
		Message: message,
	}
}

// Unauthorized creates an authentication error.
func Unauthorized(op, message string) *Error {
	return &Error{
		Code:    EUNAUTHORIZED,
		Op:      op,
		Message: message,
	}
}

// Forbidden creates a permission error.
func Forbidden(op, message string) *Error {
	return &Error{
		Code:    EFORBIDDEN,
		Op:      op,
		Message: message,
	}
}

// Conflict creates a conflict error.
func Conflict(op, message string) *Error {
	return &Error{
		Code:    ECONFLICT,
		Op:      op,
		Message: message,
	}
}

// Internal creates an internal error, wrapping the underlying error.
func Internal(err error, op, message string) *Error {
	return &Error{
		Code:    EINTERNAL,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// Unavailable creates an error for a failed upstream dependency.
func Unavailable(err error, op, message string) *Error {
	return &Error{
		Code:    EUNAVAILABLE,
		Op:      op,
		Message: message,
		Err:     err,
	}
}

// LimitError reports a plan usage ceiling denial. It carries the structured
// fields clients need to render upgrade prompts: which category was denied,
// the current usage, and the ceiling that blocked the action.
type LimitError struct {
	Op           string
	LimitType    UsageCategory
	CurrentUsage int64
	Limit        int64
	Message      string
}

func (e *LimitError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// LimitExceeded creates a plan-limit denial for a monthly ceiling.
func LimitExceeded(op string, category UsageCategory, current, limit int64) *LimitError {
	return &LimitError{
		Op:           op,
		LimitType:    category,
		CurrentUsage: current,
		Limit:        limit,
		Message:      fmt.Sprintf("You have reached your plan limit for %s (%d of %d used). Upgrade your plan to continue.", category, current, limit),
	}
}

// DailyLimitExceeded creates a plan-limit denial for a same-day ceiling.
func DailyLimitExceeded(op string, category UsageCategory, current, limit int64) *LimitError {
	return &LimitError{
		Op:           op,
		LimitType:    category,
		CurrentUsage: current,
		Limit:        limit,
		Message:      fmt.Sprintf("You have reached your daily limit for %s (%d of %d used today). Try again tomorrow or upgrade your plan.", category, current, limit),
	}
}
