package autherrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrEmailNotVerified = apperror.New(
		apperror.CodeForbidden,
		"Email address has not been verified",
		http.StatusForbidden,
	)
	ErrEmailAlreadyRegistered = apperror.New(
		apperror.CodeConflict,
		"Email is already registered",
		http.StatusConflict,
	)
	ErrInvalidVerificationToken = apperror.New(
		apperror.CodeInvalidInput,
		"Verification token is invalid or has expired",
		http.StatusBadRequest,
	)
	ErrInvalidResetToken = apperror.New(
		apperror.CodeInvalidInput,
		"Reset token is invalid or has expired",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to generate token",
		http.StatusInternalServerError,
	)
)
