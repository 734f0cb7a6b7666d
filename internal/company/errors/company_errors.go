package companyerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"Company not found",
		http.StatusNotFound,
	)

	ErrCompanyEmailExists = apperror.New(
		apperror.CodeConflict,
		"A company with the same email already exists",
		http.StatusConflict,
	)

	ErrCompanyAlreadyAssociated = apperror.New(
		apperror.CodeConflict,
		"Company is already associated with another accountant",
		http.StatusConflict,
	)

	ErrCompanyHasEmployees = apperror.New(
		apperror.CodeConflict,
		"Company still has employees or payroll records",
		http.StatusConflict,
	)

	ErrAccountantOnly = apperror.New(
		apperror.CodeForbidden,
		"Only accountants can perform this action",
		http.StatusForbidden,
	)

	ErrNothingToUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"At least one field must be provided",
		http.StatusBadRequest,
	)
)
