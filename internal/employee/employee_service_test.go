package employee_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	auditMock "go-payroll/internal/audit/mock"
	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	employeeMock "go-payroll/internal/employee/mock"
	"go-payroll/internal/events"
	"go-payroll/internal/identity"
	"go-payroll/internal/messaging/kafka"
	kafkaMock "go-payroll/internal/messaging/kafka/mock"
	"go-payroll/internal/policy"
	policyMock "go-payroll/internal/policy/mock"
	"go-payroll/internal/shared/apperror"
	storageMock "go-payroll/internal/storage/mock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type serviceDeps struct {
	sqlMock  sqlmock.Sqlmock
	service  employee.Service
	repo     *employeeMock.MockRepository
	outbox   *kafkaMock.MockOutboxRepository
	store    *storageMock.MockDocumentStore
	authz    *policyMock.MockAuthorizer
	recorder *auditMock.MockRecorder
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)

	sqlDB, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	deps := &serviceDeps{
		sqlMock:  sqlMock,
		repo:     employeeMock.NewMockRepository(ctrl),
		outbox:   kafkaMock.NewMockOutboxRepository(ctrl),
		store:    storageMock.NewMockDocumentStore(ctrl),
		authz:    policyMock.NewMockAuthorizer(ctrl),
		recorder: auditMock.NewMockRecorder(ctrl),
	}
	deps.service = employee.NewService(db, deps.repo, deps.outbox, deps.store, deps.authz, deps.recorder)
	return deps
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func ptr[T any](v T) *T { return &v }

func validCreateRequest() employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		FirstName:         "Jane",
		LastName:          "Doe",
		Email:             "jane@example.com",
		SIN:               "046454286",
		DateOfBirth:       "1990-04-12",
		StreetAddress:     "1 King St W",
		City:              "Toronto",
		Province:          "ON",
		PostalCode:        "M5H 1A1",
		HireDate:          "2024-02-01",
		PayType:           employee.PayTypeHourly,
		PayRate:           ptr(decimal.RequireFromString("27.50")),
		PaySchedule:       "biweekly",
		InstitutionNumber: "004",
		TransitNumber:     "12345",
		AccountNumber:     "1234567",
		Consent:           ptr(true),
	}
}

func pdfDocs() []employee.DocumentUpload {
	return []employee.DocumentUpload{
		{Type: employee.DocumentTD1Federal, FileName: "fed.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 fed")},
		{Type: employee.DocumentTD1Provincial, FileName: "prov.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.4 prov")},
	}
}

func allow(companyID int64) policy.Decision {
	return policy.Decision{Outcome: policy.Allow, Reason: policy.ReasonOwner, CompanyID: companyID}
}

func TestEmployeeService_Create(t *testing.T) {
	ctx := context.Background()
	client := identity.NewClient(3, 5)

	t.Run("client company is used regardless of body", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()
		req.CompanyID = ptr(int64(77))

		deps.authz.EXPECT().AuthorizeEmployeeCreate(ctx, client, req.CompanyID).Return(allow(5), nil)
		deps.store.EXPECT().Save(ctx, gomock.Any(), gomock.Any()).Return("/docs/fed.pdf", nil)
		deps.store.EXPECT().Save(ctx, gomock.Any(), gomock.Any()).Return("/docs/prov.pdf", nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e *employee.Employee) error {
			assert.Equal(t, int64(5), e.CompanyID)
			assert.True(t, e.IsActive)
			assert.Equal(t, "27.5", e.PayRate.String())
			e.ID = 11
			return nil
		})
		deps.repo.EXPECT().CreateDocuments(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, docs []employee.Document) error {
			require.Len(t, docs, 2)
			for _, d := range docs {
				assert.Equal(t, int64(11), d.EmployeeID)
			}
			return nil
		})
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.EmployeeLifecycleTopic, e.Topic)
			assert.Equal(t, events.EventEmployeeCreated, e.EventType)
			assert.Equal(t, "11", e.AggregateID)
			var payload events.EmployeeCreatedEvent
			require.NoError(t, json.Unmarshal(e.Payload, &payload))
			assert.Equal(t, int64(5), payload.CompanyID)
			return nil
		})
		deps.recorder.EXPECT().Record(ctx, gomock.Any())

		resp, err := deps.service.Create(ctx, client, req, pdfDocs())
		require.NoError(t, err)
		assert.Equal(t, int64(11), resp.ID)
		assert.Equal(t, int64(5), resp.CompanyID)
		assert.Equal(t, "1990-04-12", resp.DateOfBirth)
		assert.Len(t, resp.Documents, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("document insert failure rolls back and removes files", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := validCreateRequest()

		deps.authz.EXPECT().AuthorizeEmployeeCreate(ctx, client, req.CompanyID).Return(allow(5), nil)
		deps.store.EXPECT().Save(ctx, gomock.Any(), gomock.Any()).Return("/docs/fed.pdf", nil)
		deps.store.EXPECT().Save(ctx, gomock.Any(), gomock.Any()).Return("/docs/prov.pdf", nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().CreateDocuments(ctx, gomock.Any()).Return(errors.New("insert failed"))
		deps.store.EXPECT().Delete(gomock.Any(), "/docs/fed.pdf").Return(nil)
		deps.store.EXPECT().Delete(gomock.Any(), "/docs/prov.pdf").Return(nil)

		_, err := deps.service.Create(ctx, client, req, pdfDocs())
		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("denied before any storage", func(t *testing.T) {
		deps := setupServiceTest(t)
		accountant := identity.NewAccountant(1, 10)
		req := validCreateRequest()
		req.CompanyID = ptr(int64(8))

		deps.authz.EXPECT().AuthorizeEmployeeCreate(ctx, accountant, req.CompanyID).
			Return(policy.Decision{Outcome: policy.Deny, Reason: policy.ReasonNotOwner, CompanyID: 8}, nil)

		_, err := deps.service.Create(ctx, accountant, req, pdfDocs())
		assert.ErrorIs(t, err, policy.ErrAccessDenied)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	accountant := identity.NewAccountant(1, 10)

	deps.authz.EXPECT().Authorize(ctx, accountant, policy.OpRead, policy.EmployeeResource(11)).Return(allow(5), nil)
	deps.repo.EXPECT().GetByID(ctx, int64(11)).Return(&employee.Employee{
		ID:          11,
		CompanyID:   5,
		FirstName:   "Jane",
		SIN:         "046454286",
		DateOfBirth: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		HireDate:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		PayRate:     decimal.RequireFromString("27.50"),
		IsActive:    true,
	}, nil)
	deps.repo.EXPECT().ListDocuments(ctx, int64(11)).Return([]employee.Document{{ID: 1, DocumentType: employee.DocumentTD1Federal}}, nil)

	resp, err := deps.service.GetByID(ctx, accountant, 11)
	require.NoError(t, err)
	assert.Equal(t, "046454286", resp.SIN)
	assert.Equal(t, "2024-02-01", resp.HireDate)
	assert.Len(t, resp.Documents, 1)
}

func TestEmployeeService_Update(t *testing.T) {
	ctx := context.Background()
	client := identity.NewClient(3, 5)

	t.Run("allow-listed fields only", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authz.EXPECT().Authorize(ctx, client, policy.OpUpdate, policy.EmployeeResource(11)).Return(allow(5), nil)
		deps.repo.EXPECT().Update(ctx, int64(11), gomock.Any()).DoAndReturn(func(_ context.Context, _ int64, fields map[string]any) (*employee.Employee, error) {
			assert.Len(t, fields, 2)
			assert.Equal(t, "Toronto", fields["city"])
			assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), fields["hire_date"])
			return &employee.Employee{ID: 11, CompanyID: 5, City: "Toronto"}, nil
		})
		deps.recorder.EXPECT().Record(ctx, gomock.Any())

		resp, err := deps.service.Update(ctx, client, 11, employee.UpdateEmployeeRequest{
			City:     ptr("Toronto"),
			HireDate: ptr("2024-03-01"),
		})
		require.NoError(t, err)
		assert.Equal(t, "Toronto", resp.City)
	})

	t.Run("empty patch", func(t *testing.T) {
		deps := setupServiceTest(t)
		_, err := deps.service.Update(ctx, client, 11, employee.UpdateEmployeeRequest{})
		assert.ErrorIs(t, err, employeeerrors.ErrNothingToUpdate)
	})

	t.Run("other company", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authz.EXPECT().Authorize(ctx, client, policy.OpUpdate, policy.EmployeeResource(12)).
			Return(policy.Decision{Outcome: policy.Deny, Reason: policy.ReasonNotOwner, CompanyID: 6}, nil)

		_, err := deps.service.Update(ctx, client, 12, employee.UpdateEmployeeRequest{City: ptr("Ottawa")})
		assert.ErrorIs(t, err, policy.ErrAccessDenied)
	})
}

func TestEmployeeService_Delete(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	accountant := identity.NewAccountant(1, 10)

	deps.authz.EXPECT().Authorize(ctx, accountant, policy.OpDelete, policy.EmployeeResource(11)).Return(allow(5), nil)
	deps.repo.EXPECT().Deactivate(ctx, int64(11)).Return(nil)
	deps.recorder.EXPECT().Record(ctx, gomock.Any())

	assert.NoError(t, deps.service.Delete(ctx, accountant, 11))
}

func offboardRequest() employee.OffboardRequest {
	return employee.OffboardRequest{
		Reason:         "quit",
		LastDay:        "2024-06-28",
		VacationPayout: "pay_on_final_cheque",
	}
}

func TestEmployeeService_Offboard(t *testing.T) {
	ctx := context.Background()
	accountant := identity.NewAccountant(1, 10)

	t.Run("atomic success", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authz.EXPECT().Authorize(ctx, accountant, policy.OpUpdate, policy.EmployeeResource(11)).Return(allow(5), nil)
		expectTx(t, deps.sqlMock, true)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		gomock.InOrder(
			deps.repo.EXPECT().GetByIDForUpdate(ctx, int64(11)).Return(&employee.Employee{ID: 11, CompanyID: 5, IsActive: true}, nil),
			deps.repo.EXPECT().CreateOffboarding(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, o *employee.Offboarding) error {
				assert.Equal(t, int64(11), o.EmployeeID)
				assert.Equal(t, int64(1), o.CreatedBy)
				o.ID = 3
				return nil
			}),
			deps.repo.EXPECT().Deactivate(ctx, int64(11)).Return(nil),
		)
		deps.outbox.EXPECT().WithTx(gomock.Any()).Return(deps.outbox)
		deps.outbox.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, e kafka.OutboxEvent) error {
			assert.Equal(t, events.EventEmployeeOffboarded, e.EventType)
			return nil
		})
		deps.recorder.EXPECT().Record(ctx, gomock.Any())

		resp, err := deps.service.Offboard(ctx, accountant, 11, offboardRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.ID)
		assert.Equal(t, "2024-06-28", resp.LastDay)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("missing employee writes nothing", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authz.EXPECT().Authorize(ctx, accountant, policy.OpUpdate, policy.EmployeeResource(99999)).
			Return(policy.Decision{Outcome: policy.NotFound, Reason: policy.ReasonMissing}, nil)

		_, err := deps.service.Offboard(ctx, accountant, 99999, offboardRequest())
		assert.Equal(t, 404, apperror.ToHTTP(err).Status)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("deactivate failure rolls back", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authz.EXPECT().Authorize(ctx, accountant, policy.OpUpdate, policy.EmployeeResource(11)).Return(allow(5), nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByIDForUpdate(ctx, int64(11)).Return(&employee.Employee{ID: 11, IsActive: true}, nil)
		deps.repo.EXPECT().CreateOffboarding(ctx, gomock.Any()).Return(nil)
		deps.repo.EXPECT().Deactivate(ctx, int64(11)).Return(errors.New("connection reset"))

		_, err := deps.service.Offboard(ctx, accountant, 11, offboardRequest())
		assert.Error(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("already offboarded", func(t *testing.T) {
		deps := setupServiceTest(t)
		deps.authz.EXPECT().Authorize(ctx, accountant, policy.OpUpdate, policy.EmployeeResource(11)).Return(allow(5), nil)
		expectTx(t, deps.sqlMock, false)
		deps.repo.EXPECT().WithTx(gomock.Any()).Return(deps.repo)
		deps.repo.EXPECT().GetByIDForUpdate(ctx, int64(11)).Return(&employee.Employee{ID: 11, IsActive: false}, nil)

		_, err := deps.service.Offboard(ctx, accountant, 11, offboardRequest())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeInactive)
	})

	t.Run("callback before last day is rejected before policy", func(t *testing.T) {
		deps := setupServiceTest(t)
		req := offboardRequest()
		req.CallbackDate = ptr("2024-06-01")

		_, err := deps.service.Offboard(ctx, accountant, 11, req)
		assert.Equal(t, apperror.CodeValidationError, apperror.ToHTTP(err).Code)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetOffboarding(t *testing.T) {
	ctx := context.Background()
	deps := setupServiceTest(t)
	client := identity.NewClient(3, 5)
	callback := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	deps.authz.EXPECT().Authorize(ctx, client, policy.OpRead, policy.EmployeeResource(11)).Return(allow(5), nil)
	deps.repo.EXPECT().GetOffboarding(ctx, int64(11)).Return(&employee.Offboarding{
		ID:             3,
		EmployeeID:     11,
		Reason:         "layoff",
		LastDay:        time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC),
		VacationPayout: "pay_on_next_run",
		CallbackDate:   &callback,
	}, nil)

	resp, err := deps.service.GetOffboarding(ctx, client, 11)
	require.NoError(t, err)
	require.NotNil(t, resp.CallbackDate)
	assert.Equal(t, "2024-09-01", *resp.CallbackDate)
}
