package policy_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/policy"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGormMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

func TestStore_EmployeeOwnership(t *testing.T) {
	db, mock := newGormMock(t)
	store := policy.NewStore(db)
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT e.company_id, c.accountant_id, e.created_at FROM employees e JOIN companies c ON c.id = e.company_id WHERE e.id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "accountant_id", "created_at"}).AddRow(int64(3), int64(10), created))

	own, err := store.EmployeeOwnership(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(3), own.CompanyID)
	require.NotNil(t, own.AccountantID)
	assert.Equal(t, int64(10), *own.AccountantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CompanyOwnership_Unassociated(t *testing.T) {
	db, mock := newGormMock(t)
	store := policy.NewStore(db)

	mock.ExpectQuery(`SELECT c.id AS company_id, c.accountant_id, c.created_at FROM companies c WHERE c.id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "accountant_id", "created_at"}).AddRow(int64(4), nil, time.Now()))

	own, err := store.CompanyOwnership(context.Background(), 4)
	require.NoError(t, err)
	assert.Nil(t, own.AccountantID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_PayrollOwnership_NoRows(t *testing.T) {
	db, mock := newGormMock(t)
	store := policy.NewStore(db)

	mock.ExpectQuery(`FROM payroll_entries p JOIN employees e ON e.id = p.employee_id JOIN companies c ON c.id = e.company_id WHERE p.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"company_id", "accountant_id", "created_at"}))

	_, err := store.PayrollOwnership(context.Background(), 1)
	assert.ErrorIs(t, err, policy.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
