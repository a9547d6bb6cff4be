package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Operation names used in remote failure messages.
const (
	OpList   = "list"
	OpCreate = "create"
	OpUpdate = "update"
	OpDelete = "delete"
)

// userMessages maps an operation to the message shown in the dashboard.
var userMessages = map[string]string{
	OpList:   "could not load items",
	OpCreate: "could not save item",
	OpUpdate: "could not save item",
	OpDelete: "could not delete item",
}

func userMessage(op string) string {
	if m, ok := userMessages[op]; ok {
		return m
	}
	return "could not complete " + op
}

// RemoteFailure creates an error for a backend operation that returned a
// non-success status. A 404 is additionally classified as ErrNotFound.
func RemoteFailure(op string, status int, body string) *AppError {
	err := &AppError{
		Kind:    ErrRemote,
		Message: userMessage(op),
		Cause:   fmt.Errorf("%s: server returned %d %s", op, status, http.StatusText(status)),
		Details: map[string]string{
			"operation": op,
			"status":    fmt.Sprintf("%d", status),
		},
	}
	if body != "" {
		err.Details["body"] = body
	}
	if status == http.StatusNotFound {
		err.Cause = fmt.Errorf("%w: %v", ErrNotFound, err.Cause)
		err.Suggestion = "The item may have been removed by someone else. Reload the list with 'r'."
	}
	return err
}

// MalformedResponse creates an error for a success status whose body could
// not be decoded.
func MalformedResponse(op string, cause error) *AppError {
	return &AppError{
		Kind:    ErrRemote,
		Message: userMessage(op),
		Cause:   fmt.Errorf("%s: malformed response: %w", op, cause),
		Details: map[string]string{
			"operation": op,
		},
		Suggestion: "Check that api.base_url points at a /foods backend.",
	}
}

// RemoteError classifies a transport-level failure of op: cancelled and
// timed-out requests become ErrTimeout, everything else ErrNetwork. The
// result also matches ErrRemote through its cause.
func RemoteError(op, host string, cause error) *AppError {
	switch {
	case stderrors.Is(cause, context.Canceled):
		e := ContextCancelled(op)
		e.Cause = fmt.Errorf("%w: %w", ErrRemote, cause)
		return e
	case stderrors.Is(cause, context.DeadlineExceeded) || isTimeout(cause):
		e := OperationTimeout(op, 0)
		e.Message = userMessage(op)
		e.Cause = fmt.Errorf("%w: %w", ErrRemote, cause)
		return e
	}
	e := NetworkUnavailable(host, cause)
	e.Message = userMessage(op)
	return e
}

func isTimeout(err error) bool {
	var ne net.Error
	return stderrors.As(err, &ne) && ne.Timeout()
}

// NetworkUnavailable creates an error for connectivity issues.
func NetworkUnavailable(host string, cause error) *AppError {
	err := &AppError{
		Kind:    ErrNetwork,
		Message: "backend unavailable",
		Cause:   fmt.Errorf("%w: %w", ErrRemote, cause),
		Suggestion: `Check that the backend is running:

  gorestaurant serve             # start the local mock backend
  gorestaurant --api <url> ...   # or point at another server`,
	}
	if host != "" {
		err.Details = map[string]string{"host": host}
	}
	return err
}

// OperationTimeout creates a generic timeout error.
func OperationTimeout(operation string, elapsed time.Duration) *AppError {
	msg := fmt.Sprintf("%s timed out", operation)
	if elapsed > 0 {
		msg = fmt.Sprintf("%s timed out after %v", operation, elapsed.Round(time.Millisecond))
	}
	return &AppError{
		Kind:    ErrTimeout,
		Message: msg,
		Details: map[string]string{
			"operation": operation,
		},
		Suggestion: "Increase api.timeout in .gorestaurant/config.yaml or check the backend.",
	}
}

// ContextCancelled creates an error for cancelled operations.
func ContextCancelled(operation string) *AppError {
	return &AppError{
		Kind:    ErrTimeout,
		Message: fmt.Sprintf("%s was cancelled", operation),
		Cause:   context.Canceled,
		Details: map[string]string{
			"operation": operation,
		},
	}
}

// IsUserError returns true if the error is due to invalid input or
// misconfiguration.
func IsUserError(err error) bool {
	var ae *AppError
	if !stderrors.As(err, &ae) {
		return false
	}
	switch ae.Kind {
	case ErrConfig, ErrValidation:
		return true
	default:
		return false
	}
}

// InvalidDraft creates an error for a form field that failed validation.
func InvalidDraft(field, message string) *AppError {
	return &AppError{
		Kind:    ErrValidation,
		Message: fmt.Sprintf("%s %s", field, message),
		Details: map[string]string{
			"field": field,
		},
	}
}
