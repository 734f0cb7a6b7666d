package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"Payroll entry not found",
		http.StatusNotFound,
	)
	ErrPayrollOverlap = apperror.New(
		apperror.CodeConflict,
		"A payroll entry already covers part of this pay period",
		http.StatusConflict,
	)
	ErrNothingToUpdate = apperror.New(
		apperror.CodeInvalidInput,
		"At least one field must be provided",
		http.StatusBadRequest,
	)
	ErrExportFailed = apperror.New(
		apperror.CodeInternalError,
		"Failed to build payroll export",
		http.StatusInternalServerError,
	)
)
