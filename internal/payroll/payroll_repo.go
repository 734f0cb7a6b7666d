package payroll

import (
	"context"
	"errors"
	"time"

	"go-payroll/internal/identity"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/shared/pagination"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *PayrollEntry) error
	GetByID(ctx context.Context, id int64) (*PayrollEntry, error)
	ListByCompany(ctx context.Context, p identity.Principal, companyID int64, period Period, params pagination.Params) ([]PayrollEntry, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*PayrollEntry, error)
	Delete(ctx context.Context, id int64) error
	// HasOverlap reports whether another entry of the employee shares at
	// least one day with [start, end].
	HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error)
	Totals(ctx context.Context, companyID int64, period Period) (Totals, error)
	ListForExport(ctx context.Context, companyID int64, period Period) ([]ExportRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *PayrollEntry) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*PayrollEntry, error) {
	var entry PayrollEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&entry).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &entry, nil
}

func (r *repository) companyEntries(ctx context.Context, companyID int64, period Period) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&PayrollEntry{}).
		Joins("JOIN employees ON employees.id = payroll_entries.employee_id").
		Where("employees.company_id = ?", companyID)
	if period.Start != nil {
		query = query.Where("payroll_entries.pay_period_start >= ?", *period.Start)
	}
	if period.End != nil {
		query = query.Where("payroll_entries.pay_period_end <= ?", *period.End)
	}
	return query
}

func (r *repository) ListByCompany(
	ctx context.Context,
	p identity.Principal,
	companyID int64,
	period Period,
	params pagination.Params,
) ([]PayrollEntry, int64, error) {
	query := r.companyEntries(ctx, companyID, period).
		Scopes(tenant.Scope(p, "employees.company_id"))
	if params.Search != "" {
		pattern := pagination.LikePattern(params.Search)
		query = query.Where(
			"(employees.first_name ILIKE ? OR employees.last_name ILIKE ? OR payroll_entries.notes ILIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []PayrollEntry
	err := query.
		Select("payroll_entries.*").
		Order("payroll_entries.pay_period_start DESC, payroll_entries.id DESC").
		Scopes(params.Paginate).
		Find(&entries).Error
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repository) Update(ctx context.Context, id int64, fields map[string]any) (*PayrollEntry, error) {
	res := r.db.WithContext(ctx).Model(&PayrollEntry{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, payrollerrors.ErrPayrollNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&PayrollEntry{})
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return payrollerrors.ErrPayrollNotFound
	}
	return nil
}

func (r *repository) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&PayrollEntry{}).
		Where("employee_id = ? AND pay_period_start <= ? AND pay_period_end >= ?", employeeID, end, start).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Totals(ctx context.Context, companyID int64, period Period) (Totals, error) {
	var totals Totals
	err := r.companyEntries(ctx, companyID, period).
		Select("COUNT(*) AS entry_count, " +
			"COALESCE(SUM(payroll_entries.gross_pay), 0) AS gross_pay, " +
			"COALESCE(SUM(payroll_entries.deductions), 0) AS deductions, " +
			"COALESCE(SUM(payroll_entries.net_pay), 0) AS net_pay").
		Scan(&totals).Error
	return totals, err
}

func (r *repository) ListForExport(ctx context.Context, companyID int64, period Period) ([]ExportRow, error) {
	var rows []ExportRow
	err := r.companyEntries(ctx, companyID, period).
		Select("payroll_entries.*, employees.first_name, employees.last_name").
		Order("payroll_entries.pay_period_start ASC, employees.last_name ASC, employees.first_name ASC").
		Scan(&rows).Error
	return rows, err
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return payrollerrors.ErrPayrollNotFound
	}
	return err
}
