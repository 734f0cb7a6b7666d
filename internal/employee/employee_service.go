package employee

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go-payroll/internal/audit"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/events"
	"go-payroll/internal/identity"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/policy"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/contextutil"
	"go-payroll/internal/shared/pagination"
	"go-payroll/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, p identity.Principal, req CreateEmployeeRequest, docs []DocumentUpload) (EmployeeResponse, error)
	ListByCompany(ctx context.Context, p identity.Principal, companyID int64, params pagination.Params) ([]EmployeeResponse, int64, error)
	GetByID(ctx context.Context, p identity.Principal, id int64) (EmployeeResponse, error)
	Update(ctx context.Context, p identity.Principal, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, p identity.Principal, id int64) error
	Offboard(ctx context.Context, p identity.Principal, id int64, req OffboardRequest) (OffboardingResponse, error)
	GetOffboarding(ctx context.Context, p identity.Principal, id int64) (OffboardingResponse, error)
}

type service struct {
	db       *gorm.DB
	repo     Repository
	outbox   kafka.OutboxRepository
	store    storage.DocumentStore
	authz    policy.Authorizer
	recorder audit.Recorder
	logger   *zap.Logger
}

func NewService(
	db *gorm.DB,
	repo Repository,
	outbox kafka.OutboxRepository,
	store storage.DocumentStore,
	authz policy.Authorizer,
	recorder audit.Recorder,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:       db,
		repo:     repo,
		outbox:   outbox,
		store:    store,
		authz:    authz,
		recorder: recorder,
		logger:   l,
	}
}

func (s *service) Create(
	ctx context.Context,
	p identity.Principal,
	req CreateEmployeeRequest,
	docs []DocumentUpload,
) (EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	dob, err := parseDate("date_of_birth", req.DateOfBirth)
	if err != nil {
		return EmployeeResponse{}, err
	}
	hireDate, err := parseDate("hire_date", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, err
	}
	var missing apperror.FieldErrors
	if req.PayRate == nil {
		missing = append(missing, apperror.RequiredField("pay_rate"))
	}
	if req.Consent == nil {
		missing = append(missing, apperror.RequiredField("consent"))
	}
	if err := missing.Err(); err != nil {
		return EmployeeResponse{}, err
	}

	decision, err := s.authz.AuthorizeEmployeeCreate(ctx, p, req.CompanyID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if err := decision.Err(); err != nil {
		return EmployeeResponse{}, err
	}
	companyID := decision.CompanyID

	stored, err := s.storeDocuments(ctx, companyID, docs)
	if err != nil {
		log.Error("create employee store documents failed", zap.Int64("company_id", companyID), zap.Error(err))
		return EmployeeResponse{}, employeeerrors.ErrDocumentStorage
	}
	committed := false
	defer func() {
		if !committed {
			s.removeDocuments(ctx, stored)
		}
	}()

	empl := &Employee{
		CompanyID:         companyID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		SIN:               req.SIN,
		DateOfBirth:       dob,
		StreetAddress:     req.StreetAddress,
		City:              req.City,
		Province:          req.Province,
		PostalCode:        req.PostalCode,
		JobTitle:          req.JobTitle,
		HireDate:          hireDate,
		PayType:           req.PayType,
		PayRate:           *req.PayRate,
		PaySchedule:       req.PaySchedule,
		InstitutionNumber: req.InstitutionNumber,
		TransitNumber:     req.TransitNumber,
		AccountNumber:     req.AccountNumber,
		IsActive:          true,
		Consent:           *req.Consent,
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("create employee begin tx failed", zap.Error(tx.Error))
		return EmployeeResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, empl); err != nil {
		log.Error("create employee persist failed", zap.Int64("company_id", companyID), zap.Error(err))
		return EmployeeResponse{}, err
	}

	for i := range stored {
		stored[i].EmployeeID = empl.ID
	}
	if err := qtx.CreateDocuments(ctx, stored); err != nil {
		log.Error("create employee documents persist failed", zap.Int64("employee_id", empl.ID), zap.Error(err))
		return EmployeeResponse{}, err
	}

	event, err := kafka.NewOutboxEvent(ctx, events.EmployeeLifecycleTopic, "employee", empl.ID, events.EventEmployeeCreated,
		events.EmployeeCreatedEvent{
			EventType:  events.EventEmployeeCreated,
			EmployeeID: empl.ID,
			CompanyID:  companyID,
			CreatedBy:  p.UserID(),
			OccurredAt: time.Now().UTC(),
		})
	if err != nil {
		return EmployeeResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		log.Error("create employee outbox persist failed", zap.Int64("employee_id", empl.ID), zap.Error(err))
		return EmployeeResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("create employee commit failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	committed = true

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionEmployeeCreate, string(policy.KindEmployee), empl.ID))
	log.Info("create employee success",
		zap.Int64("employee_id", empl.ID),
		zap.Int64("company_id", companyID),
	)
	return mapToResponse(empl, stored), nil
}

func (s *service) storeDocuments(ctx context.Context, companyID int64, docs []DocumentUpload) ([]Document, error) {
	stored := make([]Document, 0, len(docs))
	for _, d := range docs {
		key := fmt.Sprintf("companies/%d/employees/%s-%s.pdf", companyID, uuid.NewString(), d.Type)
		path, err := s.store.Save(ctx, key, bytes.NewReader(d.Data))
		if err != nil {
			s.removeDocuments(ctx, stored)
			return nil, err
		}
		stored = append(stored, Document{
			DocumentType: d.Type,
			FileName:     d.FileName,
			StoragePath:  path,
			ContentType:  d.ContentType,
			SizeBytes:    int64(len(d.Data)),
		})
	}
	return stored, nil
}

func (s *service) removeDocuments(ctx context.Context, docs []Document) {
	cleanupCtx := context.WithoutCancel(ctx)
	for _, d := range docs {
		if err := s.store.Delete(cleanupCtx, d.StoragePath); err != nil {
			contextutil.GetLogger(ctx, s.logger).Warn("remove orphaned document failed",
				zap.String("path", d.StoragePath),
				zap.Error(err),
			)
		}
	}
}

// ListByCompany returns no rows when companyID is outside the principal's
// visible companies.
func (s *service) ListByCompany(ctx context.Context, p identity.Principal, companyID int64, params pagination.Params) ([]EmployeeResponse, int64, error) {
	employees, total, err := s.repo.ListByCompany(ctx, p, companyID, params)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("list employees failed", zap.Int64("company_id", companyID), zap.Error(err))
		return nil, 0, err
	}

	out := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		out = append(out, mapToResponse(&employees[i], nil))
	}
	return out, total, nil
}

func (s *service) GetByID(ctx context.Context, p identity.Principal, id int64) (EmployeeResponse, error) {
	if _, err := policy.Check(ctx, s.authz, p, policy.OpRead, policy.EmployeeResource(id)); err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	docs, err := s.repo.ListDocuments(ctx, id)
	if err != nil {
		return EmployeeResponse{}, err
	}
	return mapToResponse(empl, docs), nil
}

func (s *service) Update(ctx context.Context, p identity.Principal, id int64, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	fields, err := req.fields()
	if err != nil {
		return EmployeeResponse{}, err
	}
	if len(fields) == 0 {
		return EmployeeResponse{}, employeeerrors.ErrNothingToUpdate
	}

	if _, err := policy.Check(ctx, s.authz, p, policy.OpUpdate, policy.EmployeeResource(id)); err != nil {
		return EmployeeResponse{}, err
	}

	empl, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("update employee failed", zap.Int64("employee_id", id), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionEmployeeUpdate, string(policy.KindEmployee), id))
	return mapToResponse(empl, nil), nil
}

// Delete is a soft delete: the employee is marked inactive.
func (s *service) Delete(ctx context.Context, p identity.Principal, id int64) error {
	if _, err := policy.Check(ctx, s.authz, p, policy.OpDelete, policy.EmployeeResource(id)); err != nil {
		return err
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("delete employee failed", zap.Int64("employee_id", id), zap.Error(err))
		return err
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionEmployeeDelete, string(policy.KindEmployee), id))
	return nil
}

// Offboard writes the offboarding record and deactivates the employee in one
// transaction. A missing employee fails in the policy step, before any write.
func (s *service) Offboard(ctx context.Context, p identity.Principal, id int64, req OffboardRequest) (OffboardingResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	offboarding, err := newOffboarding(id, p.UserID(), req)
	if err != nil {
		return OffboardingResponse{}, err
	}

	companyID, err := policy.Check(ctx, s.authz, p, policy.OpUpdate, policy.EmployeeResource(id))
	if err != nil {
		return OffboardingResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		log.Error("offboard begin tx failed", zap.Error(tx.Error))
		return OffboardingResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	empl, err := qtx.GetByIDForUpdate(ctx, id)
	if err != nil {
		return OffboardingResponse{}, err
	}
	if !empl.IsActive {
		log.Warn("offboard rejected, employee inactive", zap.Int64("employee_id", id))
		return OffboardingResponse{}, employeeerrors.ErrEmployeeInactive
	}

	if err := qtx.CreateOffboarding(ctx, offboarding); err != nil {
		log.Error("offboard persist record failed", zap.Int64("employee_id", id), zap.Error(err))
		return OffboardingResponse{}, err
	}
	if err := qtx.Deactivate(ctx, id); err != nil {
		log.Error("offboard deactivate failed", zap.Int64("employee_id", id), zap.Error(err))
		return OffboardingResponse{}, err
	}

	event, err := kafka.NewOutboxEvent(ctx, events.EmployeeLifecycleTopic, "employee", id, events.EventEmployeeOffboarded,
		events.EmployeeOffboardedEvent{
			EventType:     events.EventEmployeeOffboarded,
			EmployeeID:    id,
			CompanyID:     companyID,
			OffboardingID: offboarding.ID,
			Reason:        offboarding.Reason,
			LastDay:       req.LastDay,
			OccurredAt:    time.Now().UTC(),
		})
	if err != nil {
		return OffboardingResponse{}, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		log.Error("offboard outbox persist failed", zap.Int64("employee_id", id), zap.Error(err))
		return OffboardingResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Error("offboard commit failed", zap.Error(err))
		return OffboardingResponse{}, err
	}

	s.recorder.Record(ctx, audit.NewEvent(ctx, p, audit.ActionEmployeeOffboard, string(policy.KindEmployee), id))
	log.Info("employee offboarded", zap.Int64("employee_id", id), zap.String("reason", offboarding.Reason))
	return mapOffboardingResponse(offboarding), nil
}

func newOffboarding(employeeID, userID int64, req OffboardRequest) (*Offboarding, error) {
	lastDay, err := parseDate("last_day", req.LastDay)
	if err != nil {
		return nil, err
	}

	o := &Offboarding{
		EmployeeID:     employeeID,
		Reason:         req.Reason,
		LastDay:        lastDay,
		VacationPayout: req.VacationPayout,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}
	if req.CallbackDate != nil {
		cb, err := parseDate("callback_date", *req.CallbackDate)
		if err != nil {
			return nil, err
		}
		if cb.Before(lastDay) {
			return nil, apperror.NewValidationError([]apperror.FieldError{
				{Field: "callback_date", Message: "Callback Date must not be before Last Day"},
			})
		}
		o.CallbackDate = &cb
	}
	return o, nil
}

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperror.NewValidationError([]apperror.FieldError{apperror.InvalidField(field)})
	}
	return t, nil
}

func (s *service) GetOffboarding(ctx context.Context, p identity.Principal, id int64) (OffboardingResponse, error) {
	if _, err := policy.Check(ctx, s.authz, p, policy.OpRead, policy.EmployeeResource(id)); err != nil {
		return OffboardingResponse{}, err
	}

	offboarding, err := s.repo.GetOffboarding(ctx, id)
	if err != nil {
		return OffboardingResponse{}, err
	}
	return mapOffboardingResponse(offboarding), nil
}
