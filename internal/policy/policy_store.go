package policy

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ownershipRow struct {
	CompanyID    int64
	AccountantID *int64
	CreatedAt    time.Time
}

type gormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CompanyOwnership(ctx context.Context, companyID int64) (Ownership, error) {
	q := s.db.WithContext(ctx).
		Table("companies c").
		Select("c.id AS company_id, c.accountant_id, c.created_at").
		Where("c.id = ?", companyID)
	return scanOwnership(q)
}

func (s *gormStore) EmployeeOwnership(ctx context.Context, employeeID int64) (Ownership, error) {
	q := s.db.WithContext(ctx).
		Table("employees e").
		Select("e.company_id, c.accountant_id, e.created_at").
		Joins("JOIN companies c ON c.id = e.company_id").
		Where("e.id = ?", employeeID)
	return scanOwnership(q)
}

func (s *gormStore) PayrollOwnership(ctx context.Context, payrollID int64) (Ownership, error) {
	q := s.db.WithContext(ctx).
		Table("payroll_entries p").
		Select("e.company_id, c.accountant_id, p.created_at").
		Joins("JOIN employees e ON e.id = p.employee_id").
		Joins("JOIN companies c ON c.id = e.company_id").
		Where("p.id = ?", payrollID)
	return scanOwnership(q)
}

func scanOwnership(q *gorm.DB) (Ownership, error) {
	var row ownershipRow
	res := q.Scan(&row)
	if res.Error != nil {
		return Ownership{}, res.Error
	}
	if res.RowsAffected == 0 {
		return Ownership{}, ErrNoRows
	}
	return Ownership{
		CompanyID:    row.CompanyID,
		AccountantID: row.AccountantID,
		CreatedAt:    row.CreatedAt,
	}, nil
}
