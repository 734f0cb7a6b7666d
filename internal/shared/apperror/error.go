package apperror

import "fmt"

// AppError is an error with a stable code and the HTTP status it renders as.
// Message is shown to callers; Err is kept for logs only.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    []FieldError
	Err        error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is compares by code and message, so a copy made by WithCause still matches
// the sentinel it came from.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t != nil && e.Code == t.Code && e.Message == t.Message
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap returns nil when err is nil.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

// WithCause copies base and attaches err.
func WithCause(base *AppError, err error) *AppError {
	cp := *base
	cp.Err = err
	return &cp
}
