package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-payroll/internal/audit"
	"go-payroll/internal/identity"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/policy"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/pagination"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	TotalsKeyPrefix = "payroll:totals:"
	totalsCacheTTL  = 10 * time.Minute
	// bounds a shared totals query once it no longer follows any caller
	totalsQueryTimeout = 30 * time.Second
)

func TotalsKey(companyID int64) string {
	return fmt.Sprintf("%s%d", TotalsKeyPrefix, companyID)
}

//go:generate mockgen -source=payroll_service.go -destination=mock/payroll_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, p identity.Principal, req CreatePayrollRequest) (PayrollResponse, error)
	ListByCompany(ctx context.Context, p identity.Principal, companyID int64, r RangeQuery, params pagination.Params) ([]PayrollResponse, int64, error)
	GetByID(ctx context.Context, p identity.Principal, id int64) (PayrollResponse, error)
	Update(ctx context.Context, p identity.Principal, id int64, req UpdatePayrollRequest) (PayrollResponse, error)
	Delete(ctx context.Context, p identity.Principal, id int64) error
	Totals(ctx context.Context, p identity.Principal, companyID int64, r RangeQuery) (TotalsResponse, error)
	Export(ctx context.Context, p identity.Principal, companyID int64, r RangeQuery) (Export, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	authz    policy.Authorizer
	recorder audit.Recorder
	rdb      *redis.Client
	sf       *singleflight.Group
	logger   *zap.Logger
}

// NewService builds the payroll service. rdb may be nil, in which case totals
// are always computed from the database.
func NewService(
	db *gorm.DB,
	repo Repository,
	authz policy.Authorizer,
	recorder audit.Recorder,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		authz:    authz,
		recorder: recorder,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, p identity.Principal, req CreatePayrollRequest) (PayrollResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	start, end, err := parsePeriod(req.PayPeriodStart, req.PayPeriodEnd)
	if err != nil {
		return PayrollResponse{}, err
	}
	var missing apperror.FieldErrors
	if req.GrossPay == nil {
		missing = append(missing, apperror.RequiredField("gross_pay"))
	}
	if req.Deductions == nil {
		missing = append(missing, apperror.RequiredField("deductions"))
	}
	if req.NetPay == nil {
		missing = append(missing, apperror.RequiredField("net_pay"))
	}
	if err := missing.Err(); err != nil {
		return PayrollResponse{}, err
	}

	companyID, err := policy.Check(ctx, s.authz, p, policy.OpCreate, policy.EmployeeResource(req.EmployeeID))
	if err != nil {
		return PayrollResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("create payroll begin tx failed", zap.Error(tx.Error))
		return PayrollResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	overlap, err := qtx.HasOverlap(ctx, req.EmployeeID, start, end)
	if err != nil {
		log.Error("create payroll overlap check failed", zap.Int64("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, err
	}
	if overlap {
		log.Warn("create payroll rejected, overlapping period",
			zap.Int64("employee_id", req.EmployeeID),
			zap.String("pay_period_start", req.PayPeriodStart),
			zap.String("pay_period_end", req.PayPeriodEnd),
		)
		return PayrollResponse{}, payrollerrors.ErrPayrollOverlap
	}

	entry := &PayrollEntry{
		EmployeeID:     req.EmployeeID,
		PayPeriodStart: start,
		PayPeriodEnd:   end,
		GrossPay:       *req.GrossPay,
		Deductions:     *req.Deductions,
		NetPay:         *req.NetPay,
		Notes:          req.Notes,
	}
	if err := qtx.Create(ctx, entry); err != nil {
		log.Error("create payroll persist failed", zap.Int64("employee_id", req.EmployeeID), zap.Error(err))
		return PayrollResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("create payroll commit failed", zap.Error(err))
		return PayrollResponse{}, err
	}

	s.invalidateTotals(ctx, companyID)
	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionPayrollCreate, string(policy.KindPayroll), entry.ID))
	log.Info("create payroll success",
		zap.Int64("payroll_id", entry.ID),
		zap.Int64("employee_id", entry.EmployeeID),
		zap.Int64("company_id", companyID),
	)
	return mapToResponse(entry), nil
}

// ListByCompany returns no rows when companyID is outside the principal's
// visible companies.
func (s *service) ListByCompany(
	ctx context.Context,
	p identity.Principal,
	companyID int64,
	r RangeQuery,
	params pagination.Params,
) ([]PayrollResponse, int64, error) {
	period, err := parseRange(r)
	if err != nil {
		return nil, 0, err
	}

	entries, total, err := s.repo.ListByCompany(ctx, p, companyID, period, params)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list payroll failed", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, 0, err
	}
	return mapToListResponse(entries), total, nil
}

func (s *service) GetByID(ctx context.Context, p identity.Principal, id int64) (PayrollResponse, error) {
	if _, err := policy.Check(ctx, s.authz, p, policy.OpRead, policy.PayrollResource(id)); err != nil {
		return PayrollResponse{}, err
	}

	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return PayrollResponse{}, err
	}
	return mapToResponse(entry), nil
}

func (s *service) Update(ctx context.Context, p identity.Principal, id int64, req UpdatePayrollRequest) (PayrollResponse, error) {
	fields := req.fields()
	if len(fields) == 0 {
		return PayrollResponse{}, payrollerrors.ErrNothingToUpdate
	}

	companyID, err := policy.Check(ctx, s.authz, p, policy.OpUpdate, policy.PayrollResource(id))
	if err != nil {
		return PayrollResponse{}, err
	}

	entry, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("update payroll failed", zap.Int64("payroll_id", id), zap.Error(err))
		return PayrollResponse{}, err
	}

	s.invalidateTotals(ctx, companyID)
	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionPayrollUpdate, string(policy.KindPayroll), id))
	return mapToResponse(entry), nil
}

func (s *service) Delete(ctx context.Context, p identity.Principal, id int64) error {
	companyID, err := policy.Check(ctx, s.authz, p, policy.OpDelete, policy.PayrollResource(id))
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("delete payroll failed", zap.Int64("payroll_id", id), zap.Error(err))
		return err
	}

	s.invalidateTotals(ctx, companyID)
	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionPayrollDelete, string(policy.KindPayroll), id))
	return nil
}

// Totals checks the company directly. Only the unfiltered aggregate is cached.
func (s *service) Totals(ctx context.Context, p identity.Principal, companyID int64, r RangeQuery) (TotalsResponse, error) {
	period, err := parseRange(r)
	if err != nil {
		return TotalsResponse{}, err
	}
	if _, err := policy.Check(ctx, s.authz, p, policy.OpRead, policy.CompanyResource(companyID)); err != nil {
		return TotalsResponse{}, err
	}

	if !period.IsZero() {
		totals, err := s.repo.Totals(ctx, companyID, period)
		if err != nil {
			return TotalsResponse{}, err
		}
		return mapTotalsResponse(companyID, r, totals), nil
	}

	log := contextutil.GetLogger(ctx, s.logger)
	cacheKey := TotalsKey(companyID)
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var resp TotalsResponse
			if err := json.Unmarshal(cached, &resp); err == nil {
				return resp, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("payroll totals cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (any, error) {
		// Shared by every waiter on cacheKey, so one caller going away must
		// not fail the rest.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), totalsQueryTimeout)
		defer cancel()

		totals, err := s.repo.Totals(ctx, companyID, period)
		if err != nil {
			return nil, err
		}
		resp := mapTotalsResponse(companyID, r, totals)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, cacheKey, payload, totalsCacheTTL).Err(); err != nil {
					log.Warn("payroll totals cache write failed", zap.String("key", cacheKey), zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		log.Error("payroll totals failed", zap.Int64("company_id", companyID), zap.Error(err))
		return TotalsResponse{}, err
	}
	return v.(TotalsResponse), nil
}

func (s *service) Export(ctx context.Context, p identity.Principal, companyID int64, r RangeQuery) (Export, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	period, err := parseRange(r)
	if err != nil {
		return Export{}, err
	}
	if _, err := policy.Check(ctx, s.authz, p, policy.OpRead, policy.CompanyResource(companyID)); err != nil {
		return Export{}, err
	}

	rows, err := s.repo.ListForExport(ctx, companyID, period)
	if err != nil {
		log.Error("payroll export query failed", zap.Int64("company_id", companyID), zap.Error(err))
		return Export{}, err
	}

	data, err := buildWorkbook(rows, sumRows(rows))
	if err != nil {
		log.Error("payroll export render failed", zap.Int64("company_id", companyID), zap.Error(err))
		return Export{}, apperror.WithCause(payrollerrors.ErrExportFailed, err)
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionPayrollExport, string(policy.KindCompany), companyID))
	log.Info("payroll exported", zap.Int64("company_id", companyID), zap.Int("rows", len(rows)))
	return Export{FileName: exportFileName(companyID, r), Data: data}, nil
}

func (s *service) invalidateTotals(ctx context.Context, companyID int64) {
	if s.rdb == nil {
		return
	}
	cacheKey := TotalsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("payroll totals cache invalidation failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewValidationError([]apperror.FieldError{apperror.InvalidField(field)})
	}
	return t, nil
}

func parsePeriod(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := parseDate("pay_period_start", startValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := parseDate("pay_period_end", endValue)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperror.NewValidationError([]apperror.FieldError{
			{Field: "pay_period_end", Message: "Pay Period End must not be before Pay Period Start"},
		})
	}
	return start, end, nil
}

func parseRange(r RangeQuery) (Period, error) {
	var period Period
	if r.StartDate != "" {
		t, err := parseDate("start_date", r.StartDate)
		if err != nil {
			return Period{}, err
		}
		period.Start = &t
	}
	if r.EndDate != "" {
		t, err := parseDate("end_date", r.EndDate)
		if err != nil {
			return Period{}, err
		}
		period.End = &t
	}
	if period.Start != nil && period.End != nil && period.End.Before(*period.Start) {
		return Period{}, apperror.NewValidationError([]apperror.FieldError{
			{Field: "end_date", Message: "End Date must not be before Start Date"},
		})
	}
	return period, nil
}
