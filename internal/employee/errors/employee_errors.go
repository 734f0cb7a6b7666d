package employeeerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An employee with the same email already exists in this company",
		http.StatusConflict,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeConflict,
		"Employee has already been offboarded",
		http.StatusConflict,
	)
	ErrOffboardingNotFound = apperror.New(
		apperror.CodeNotFound,
		"Offboarding record not found",
		http.StatusNotFound,
	)
	ErrNothingToUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"At least one field must be provided",
		http.StatusBadRequest,
	)
	ErrDocumentStorage = apperror.New(
		apperror.CodeInternalError,
		"Failed to store employee documents",
		http.StatusInternalServerError,
	)
)
