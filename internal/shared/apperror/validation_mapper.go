package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// recipient_phone -> Recipient Phone
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError reports every failing field, not just the first one.
func MapValidationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, e := range verrs {
			fields = append(fields, fieldErrorFor(e))
		}
		return NewValidationError(fields)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return NewValidationError([]FieldError{InvalidField(typeErr.Field)})
	}

	return Wrap(err, CodeInvalidInput, "Invalid input", ErrInvalidInput.HTTPStatus)
}

func fieldErrorFor(e validator.FieldError) FieldError {
	// e.Field() is the json name because of RegisterTagNameFunc in Init.
	field := e.Field()
	human := formatFieldName(field)

	switch e.Tag() {
	case "required", "required_if", "required_without":
		return RequiredField(field)
	case "len":
		return FieldError{Field: field, Message: fmt.Sprintf("%s must be exactly %s characters", human, e.Param())}
	case "min", "gte":
		return FieldError{Field: field, Message: fmt.Sprintf("%s must be at least %s", human, e.Param())}
	case "max", "lte":
		return FieldError{Field: field, Message: fmt.Sprintf("%s must be at most %s", human, e.Param())}
	case "gt":
		return FieldError{Field: field, Message: fmt.Sprintf("%s must be greater than %s", human, e.Param())}
	case "oneof":
		return FieldError{Field: field, Message: fmt.Sprintf("%s must be one of [%s]", human, e.Param())}
	case "datetime":
		return FieldError{Field: field, Message: human + " must be a date in YYYY-MM-DD format"}
	case "numeric", "number":
		return FieldError{Field: field, Message: human + " must contain digits only"}
	case "email":
		return FieldError{Field: field, Message: human + " must be a valid email address"}
	default:
		return InvalidField(field)
	}
}
