package apperror

import "net/http"

// Generic sentinels shared by middleware and modules without their own
// error package. Wrap them with WithCause to keep the underlying error.
var (
	ErrInvalidInput       = New(CodeInvalidInput, "The provided input is invalid", http.StatusBadRequest)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication is required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)
	ErrNotFound           = New(CodeNotFound, "Resource not found", http.StatusNotFound)
	ErrConflict           = New(CodeConflict, "Resource already exists", http.StatusConflict)
	ErrTooManyRequests    = New(CodeTooManyRequests, "Too many requests, slow down", http.StatusTooManyRequests)
	ErrInternal           = New(CodeInternalError, "Internal server error", http.StatusInternalServerError)
	ErrServiceUnavailable = New(CodeServiceUnavailable, "A required dependency is unavailable", http.StatusServiceUnavailable)
)
