package company

import (
	"context"

	"go-payroll/internal/audit"
	companyerrors "go-payroll/internal/company/errors"
	"go-payroll/internal/identity"
	"go-payroll/internal/policy"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/pagination"

	"go.uber.org/zap"
)

//go:generate mockgen -destination=mock/company_service_mock.go -package=mock . Service
type Service interface {
	Create(ctx context.Context, p identity.Principal, req CreateCompanyRequest) (CompanyResponse, error)
	List(ctx context.Context, p identity.Principal, params pagination.Params) ([]CompanyResponse, int64, error)
	GetByID(ctx context.Context, p identity.Principal, id int64) (CompanyResponse, error)
	Update(ctx context.Context, p identity.Principal, id int64, req UpdateCompanyRequest) (CompanyResponse, error)
	Delete(ctx context.Context, p identity.Principal, id int64) error
	Associate(ctx context.Context, p identity.Principal, id int64) (CompanyResponse, error)
}

type service struct {
	repo     Repository
	authz    policy.Authorizer
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(repo Repository, authz policy.Authorizer, recorder audit.Recorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{repo: repo, authz: authz, recorder: recorder, logger: l}
}

func accountantOf(p identity.Principal) (int64, error) {
	if !p.Valid() {
		return 0, identity.ErrInvalidRole
	}
	id, ok := p.AccountantID()
	if !ok {
		return 0, companyerrors.ErrAccountantOnly
	}
	return id, nil
}

func (s *service) Create(ctx context.Context, p identity.Principal, req CreateCompanyRequest) (CompanyResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	accountantID, err := accountantOf(p)
	if err != nil {
		return CompanyResponse{}, err
	}

	company := &Company{
		AccountantID: &accountantID,
		Name:         req.Name,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
	}
	if err := s.repo.Create(ctx, company); err != nil {
		log.Error("create company persist failed", zap.Int64("accountant_id", accountantID), zap.Error(err))
		return CompanyResponse{}, err
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionCompanyCreate, string(policy.KindCompany), company.ID))
	log.Info("company created", zap.Int64("company_id", company.ID), zap.Int64("accountant_id", accountantID))
	return mapToResponse(company), nil
}

func (s *service) List(ctx context.Context, p identity.Principal, params pagination.Params) ([]CompanyResponse, int64, error) {
	companies, total, err := s.repo.List(ctx, p, params)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list companies failed", zap.String("principal", p.String()), zap.Error(err))
		return nil, 0, err
	}

	out := make([]CompanyResponse, 0, len(companies))
	for i := range companies {
		out = append(out, mapToResponse(&companies[i]))
	}
	return out, total, nil
}

func (s *service) GetByID(ctx context.Context, p identity.Principal, id int64) (CompanyResponse, error) {
	if _, err := policy.Check(ctx, s.authz, p, policy.OpRead, policy.CompanyResource(id)); err != nil {
		return CompanyResponse{}, err
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	return mapToResponse(company), nil
}

func (s *service) Update(ctx context.Context, p identity.Principal, id int64, req UpdateCompanyRequest) (CompanyResponse, error) {
	fields := req.fields()
	if len(fields) == 0 {
		return CompanyResponse{}, companyerrors.ErrNothingToUpdate
	}

	if _, err := policy.Check(ctx, s.authz, p, policy.OpUpdate, policy.CompanyResource(id)); err != nil {
		return CompanyResponse{}, err
	}

	company, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("update company failed", zap.Int64("company_id", id), zap.Error(err))
		return CompanyResponse{}, err
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionCompanyUpdate, string(policy.KindCompany), id))
	return mapToResponse(company), nil
}

func (s *service) Delete(ctx context.Context, p identity.Principal, id int64) error {
	if _, err := policy.Check(ctx, s.authz, p, policy.OpDelete, policy.CompanyResource(id)); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("delete company failed", zap.Int64("company_id", id), zap.Error(err))
		return err
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionCompanyDelete, string(policy.KindCompany), id))
	return nil
}

// Associate lets an accountant claim a company that has no accountant yet.
// Claiming a company the caller already owns succeeds without a write.
func (s *service) Associate(ctx context.Context, p identity.Principal, id int64) (CompanyResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	accountantID, err := accountantOf(p)
	if err != nil {
		return CompanyResponse{}, err
	}

	company, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	if company.AccountantID != nil {
		return s.alreadyAssociated(company, accountantID)
	}

	claimed, err := s.repo.Associate(ctx, id, accountantID)
	if err != nil {
		log.Error("associate company failed", zap.Int64("company_id", id), zap.Error(err))
		return CompanyResponse{}, err
	}

	company, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return CompanyResponse{}, err
	}
	if !claimed {
		// lost a race with another accountant, or with ourselves
		return s.alreadyAssociated(company, accountantID)
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionCompanyAssociate, string(policy.KindCompany), id))
	log.Info("company associated", zap.Int64("company_id", id), zap.Int64("accountant_id", accountantID))
	return mapToResponse(company), nil
}

func (s *service) alreadyAssociated(company *Company, accountantID int64) (CompanyResponse, error) {
	if company.AccountantID != nil && *company.AccountantID == accountantID {
		return mapToResponse(company), nil
	}
	return CompanyResponse{}, companyerrors.ErrCompanyAlreadyAssociated
}
