package apperror

import (
	"net/http"
	"strings"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects violations across a request before failing once.
type FieldErrors []FieldError

func (f *FieldErrors) Add(field, message string) {
	*f = append(*f, FieldError{Field: field, Message: message})
}

func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return NewValidationError(f)
}

func NewValidationError(fields []FieldError) *AppError {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Field)
	}
	return &AppError{
		Code:       CodeValidationError,
		Message:    "Validation failed: " + strings.Join(names, ", "),
		HTTPStatus: http.StatusBadRequest,
		Details:    fields,
	}
}

func RequiredField(field string) FieldError {
	return FieldError{Field: field, Message: formatFieldName(field) + " is required"}
}

func InvalidField(field string) FieldError {
	return FieldError{Field: field, Message: formatFieldName(field) + " is invalid"}
}

// MergeValidation folds extra field errors into err when err is a validation
// error (or nil). Any other error is returned unchanged.
func MergeValidation(err error, extra FieldErrors) error {
	if err == nil {
		return extra.Err()
	}
	appErr, ok := err.(*AppError)
	if !ok || appErr.Code != CodeValidationError {
		return err
	}
	if len(extra) == 0 {
		return err
	}
	return NewValidationError(append(append([]FieldError{}, appErr.Details...), extra...))
}
