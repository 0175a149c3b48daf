package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the class of failure an operation ended with
type ErrorType string

const (
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeRemote      ErrorType = "remote"
	ErrorTypeRateLimited ErrorType = "rate_limited"
	ErrorTypeLocalStore  ErrorType = "local_store"
)

// Error carries the failure class, a message, the HTTP status code (0 when
// no response was received) and the underlying cause if there is one.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error (code %d): %s: %v", e.Type, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewAuthError reports rejected or expired credentials
func NewAuthError(code int, msg string) *Error {
	return &Error{Type: ErrorTypeAuth, Message: msg, Code: code}
}

// NewRemoteError reports a non-200 response or a transport failure
func NewRemoteError(code int, msg string, cause error) *Error {
	return &Error{Type: ErrorTypeRemote, Message: msg, Code: code, Err: cause}
}

// NewRateLimitedError reports an exhausted like quota
func NewRateLimitedError(msg string) *Error {
	return &Error{Type: ErrorTypeRateLimited, Message: msg}
}

// NewLocalStoreError reports a filesystem or on-disk data failure
func NewLocalStoreError(msg string, cause error) *Error {
	return &Error{Type: ErrorTypeLocalStore, Message: msg, Err: cause}
}

// TypeOf returns the ErrorType of the first *Error in err's chain, or "".
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

func IsAuth(err error) bool        { return TypeOf(err) == ErrorTypeAuth }
func IsRemote(err error) bool      { return TypeOf(err) == ErrorTypeRemote }
func IsRateLimited(err error) bool { return TypeOf(err) == ErrorTypeRateLimited }
func IsLocalStore(err error) bool  { return TypeOf(err) == ErrorTypeLocalStore }

// StatusCode returns the HTTP status attached to err, or 0.
func StatusCode(err error) int {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return 0
}
