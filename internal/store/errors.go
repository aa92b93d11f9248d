package store

import (
	"fmt"
	"net/http"
)

// Error is a storage error with an HTTP status code.
type Error struct {
	Code    int    // HTTP status code
	Message string // User-facing message
	Err     error  // Underlying error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches errors by status code, so errors derived with WithMessage
// or WithCause still satisfy errors.Is against their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Code == t.Code
}

// HTTPCode returns the HTTP status code associated with this error.
func (e *Error) HTTPCode() int { return e.Code }

// WithMessage returns a new error with a custom message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{
		Code:    e.Code,
		Message: msg,
		Err:     e.Err,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// Sentinel errors.
var (
	ErrNotFound = &Error{
		Code:    http.StatusNotFound,
		Message: "resource not found",
	}

	ErrAlreadyExists = &Error{
		Code:    http.StatusConflict,
		Message: "resource already exists",
	}

	ErrInvalidInput = &Error{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
	}
)

// Entity-specific not-found sentinels, shared by the SQLite catalog store
// and the activity log store.
var (
	ErrUserNotFound            = ErrNotFound.WithMessage("user not found")
	ErrBookNotFound            = ErrNotFound.WithMessage("book not found")
	ErrCategoryNotFound        = ErrNotFound.WithMessage("book category not found")
	ErrEngagementNotFound      = ErrNotFound.WithMessage("engagement record not found")
	ErrPurchaseRequestNotFound = ErrNotFound.WithMessage("purchase request not found")
	ErrReviewLogNotFound       = ErrNotFound.WithMessage("review log not found")
	ErrFollowNotFound          = ErrNotFound.WithMessage("follow relation not found")
)

// ErrPurchaseRequestDecided reports a decision on a request that already
// left the waiting state. Decided requests are final.
var ErrPurchaseRequestDecided = ErrAlreadyExists.WithMessage("purchase request already decided")
