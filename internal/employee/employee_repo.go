package employee

import (
	"context"
	"errors"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/identity"
	"go-payroll/internal/shared/pagination"
	"go-payroll/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, employee *Employee) error
	CreateDocuments(ctx context.Context, docs []Document) error
	ListDocuments(ctx context.Context, employeeID int64) ([]Document, error)
	GetByID(ctx context.Context, id int64) (*Employee, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id int64) (*Employee, error)
	ListByCompany(ctx context.Context, p identity.Principal, companyID int64, params pagination.Params) ([]Employee, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*Employee, error)
	Deactivate(ctx context.Context, id int64) error
	CreateOffboarding(ctx context.Context, offboarding *Offboarding) error
	GetOffboarding(ctx context.Context, employeeID int64) (*Offboarding, error)
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

func (r *repository) Create(ctx context.Context, employee *Employee) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(employee).Error)
}

func (r *repository) CreateDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	return mapRepositoryError(r.db.WithContext(ctx).Create(&docs).Error)
}

func (r *repository) ListDocuments(ctx context.Context, employeeID int64) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id ASC").
		Find(&docs).Error
	return docs, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	var employee Employee
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&employee).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &employee, nil
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id int64) (*Employee, error) {
	var employee Employee
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&employee).Error
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return &employee, nil
}

func (r *repository) ListByCompany(ctx context.Context, p identity.Principal, companyID int64, params pagination.Params) ([]Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&Employee{}).
		Where("employees.company_id = ?", companyID).
		Scopes(tenant.Scope(p, "employees.company_id"))
	if params.Search != "" {
		pattern := pagination.LikePattern(params.Search)
		query = query.Where(
			"(employees.first_name ILIKE ? OR employees.last_name ILIKE ? OR employees.email ILIKE ?)",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var employees []Employee
	err := query.
		Order("employees.last_name ASC, employees.first_name ASC, employees.id ASC").
		Scopes(params.Paginate).
		Find(&employees).Error
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

func (r *repository) Update(ctx context.Context, id int64, fields map[string]any) (*Employee, error) {
	res := r.db.WithContext(ctx).Model(&Employee{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, employeeerrors.ErrEmployeeNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Deactivate(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&Employee{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}
	return nil
}

func (r *repository) CreateOffboarding(ctx context.Context, offboarding *Offboarding) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(offboarding).Error)
}

func (r *repository) GetOffboarding(ctx context.Context, employeeID int64) (*Offboarding, error) {
	var offboarding Offboarding
	err := r.db.WithContext(ctx).Where("employee_id = ?", employeeID).Take(&offboarding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, employeeerrors.ErrOffboardingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offboarding, nil
}
