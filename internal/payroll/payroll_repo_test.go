package payroll_test

import (
	"context"
	"testing"
	"time"

	"go-payroll/internal/identity"
	"go-payroll/internal/payroll"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/pagination"

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

func TestRepository_ListByCompany_ClientScope(t *testing.T) {
	db, mock := newGormMock(t)
	repo := payroll.NewRepository(db)
	start := day("2024-01-01")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payroll_entries" JOIN employees ON employees.id = payroll_entries.employee_id ` +
		`WHERE employees.company_id = \$1 AND payroll_entries.pay_period_start >= \$2 AND employees.company_id = \$3`).
		WithArgs(int64(5), start, int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`SELECT payroll_entries.\* FROM "payroll_entries" JOIN employees .* ORDER BY payroll_entries.pay_period_start DESC, payroll_entries.id DESC LIMIT .* OFFSET`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "employee_id", "gross_pay"}).
			AddRow(int64(1), int64(11), "2500.00").
			AddRow(int64(2), int64(12), "3000.00"))

	entries, total, err := repo.ListByCompany(context.Background(), identity.NewClient(3, 5), 5,
		payroll.Period{Start: &start}, pagination.Params{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].GrossPay.Equal(dec("2500")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_HasOverlap(t *testing.T) {
	db, mock := newGormMock(t)
	repo := payroll.NewRepository(db)
	start, end := day("2024-03-01"), day("2024-03-15")

	mock.ExpectQuery(`SELECT count\(\*\) FROM "payroll_entries" WHERE employee_id = \$1 AND pay_period_start <= \$2 AND pay_period_end >= \$3`).
		WithArgs(int64(11), end, start).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	overlap, err := repo.HasOverlap(context.Background(), 11, start, end)
	require.NoError(t, err)
	assert.True(t, overlap)
}

func TestRepository_Totals(t *testing.T) {
	db, mock := newGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS entry_count, COALESCE\(SUM\(payroll_entries.gross_pay\), 0\) AS gross_pay, .* FROM "payroll_entries" JOIN employees ON employees.id = payroll_entries.employee_id WHERE employees.company_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"entry_count", "gross_pay", "deductions", "net_pay"}).
			AddRow(int64(3), "7500.00", "1800.00", "5700.00"))

	totals, err := repo.Totals(context.Background(), 5, payroll.Period{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), totals.EntryCount)
	assert.True(t, totals.NetPay.Equal(dec("5700")))
}

func TestRepository_Delete_NotFound(t *testing.T) {
	db, mock := newGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "payroll_entries" WHERE id = \$1`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 404)
	assert.ErrorIs(t, err, payrollerrors.ErrPayrollNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	db, mock := newGormMock(t)
	repo := payroll.NewRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "payroll_entries" SET "notes"=\$1,"updated_at"=\$2 WHERE id = \$3`).
		WithArgs("corrected", sqlmock.AnyArg(), int64(300)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT \* FROM "payroll_entries" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "notes", "created_at"}).AddRow(int64(300), "corrected", time.Now()))

	entry, err := repo.Update(context.Background(), 300, map[string]any{"notes": "corrected"})
	require.NoError(t, err)
	assert.Equal(t, "corrected", entry.Notes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
