package employee

import (
	"errors"

	employeeerrors "go-payroll/internal/employee/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// uniqueConstraintErrors maps unique indexes from the migrations to the
// domain error a caller should see.
var uniqueConstraintErrors = map[string]error{
	"uq_employees_company_email":       employeeerrors.ErrEmployeeAlreadyExists,
	"uq_employee_offboarding_employee": employeeerrors.ErrEmployeeInactive,
}

func mapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return employeeerrors.ErrEmployeeNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if mapped, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
	}
	return err
}
