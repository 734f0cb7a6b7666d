package company

import (
	"context"
	"errors"
	"time"

	companyerrors "go-payroll/internal/company/errors"
	"go-payroll/internal/identity"
	"go-payroll/internal/shared/pagination"
	"go-payroll/internal/tenant"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/company_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id int64) (*Company, error)
	List(ctx context.Context, p identity.Principal, params pagination.Params) ([]Company, int64, error)
	Update(ctx context.Context, id int64, fields map[string]any) (*Company, error)
	Delete(ctx context.Context, id int64) error
	// Associate sets accountant_id only while it is still NULL and reports
	// whether the row changed.
	Associate(ctx context.Context, id, accountantID int64) (bool, error)
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

func (r *repository) Create(ctx context.Context, company *Company) error {
	return mapRepositoryError(r.db.WithContext(ctx).Create(company).Error)
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Company, error) {
	var company Company
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&company).Error; err != nil {
		return nil, mapRepositoryError(err)
	}
	return &company, nil
}

func (r *repository) List(ctx context.Context, p identity.Principal, params pagination.Params) ([]Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&Company{}).Scopes(tenant.Companies(p))
	if params.Search != "" {
		pattern := pagination.LikePattern(params.Search)
		query = query.Where("(companies.name ILIKE ? OR companies.email ILIKE ?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var companies []Company
	if err := query.Order("companies.id ASC").Scopes(params.Paginate).Find(&companies).Error; err != nil {
		return nil, 0, err
	}
	return companies, total, nil
}

func (r *repository) Update(ctx context.Context, id int64, fields map[string]any) (*Company, error) {
	res := r.db.WithContext(ctx).Model(&Company{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, companyerrors.ErrCompanyNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Company{})
	if res.Error != nil {
		return mapRepositoryError(res.Error)
	}
	if res.RowsAffected == 0 {
		return companyerrors.ErrCompanyNotFound
	}
	return nil
}

func (r *repository) Associate(ctx context.Context, id, accountantID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&Company{}).
		Where("id = ? AND accountant_id IS NULL", id).
		Updates(map[string]any{"accountant_id": accountantID, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, mapRepositoryError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return companyerrors.ErrCompanyNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return companyerrors.ErrCompanyEmailExists
		case "23503":
			return companyerrors.ErrCompanyHasEmployees
		}
	}

	return err
}
