package company_test

import (
	"context"
	"testing"
	"time"

	auditMock "go-payroll/internal/audit/mock"
	"go-payroll/internal/company"
	companyerrors "go-payroll/internal/company/errors"
	companyMock "go-payroll/internal/company/mock"
	"go-payroll/internal/identity"
	"go-payroll/internal/policy"
	policyMock "go-payroll/internal/policy/mock"
	"go-payroll/internal/shared/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

type serviceDeps struct {
	repo     *companyMock.MockRepository
	authz    *policyMock.MockAuthorizer
	recorder *auditMock.MockRecorder
	service  company.Service
}

func newServiceDeps(t *testing.T) serviceDeps {
	ctrl := gomock.NewController(t)
	d := serviceDeps{
		repo:     companyMock.NewMockRepository(ctrl),
		authz:    policyMock.NewMockAuthorizer(ctrl),
		recorder: auditMock.NewMockRecorder(ctrl),
	}
	d.service = company.NewService(d.repo, d.authz, d.recorder)
	return d
}

func allow(companyID int64) policy.Decision {
	return policy.Decision{Outcome: policy.Allow, Reason: policy.ReasonOwner, CompanyID: companyID}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	accountant := identity.NewAccountant(1, 10)

	t.Run("Accountant owns the new company", func(t *testing.T) {
		d := newServiceDeps(t)
		d.repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, c *company.Company) error {
			require.NotNil(t, c.AccountantID)
			assert.Equal(t, int64(10), *c.AccountantID)
			c.ID = 42
			return nil
		})
		d.recorder.EXPECT().Record(ctx, gomock.Any())

		resp, err := d.service.Create(ctx, accountant, company.CreateCompanyRequest{Name: "Acme", Email: "ops@acme.test"})
		require.NoError(t, err)
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "Acme", resp.Name)
	})

	t.Run("Client cannot create", func(t *testing.T) {
		d := newServiceDeps(t)

		_, err := d.service.Create(ctx, identity.NewClient(2, 5), company.CreateCompanyRequest{Name: "Acme", Email: "a@b.test"})
		assert.ErrorIs(t, err, companyerrors.ErrAccountantOnly)
	})

	t.Run("Zero principal", func(t *testing.T) {
		d := newServiceDeps(t)

		_, err := d.service.Create(ctx, identity.Principal{}, company.CreateCompanyRequest{Name: "Acme", Email: "a@b.test"})
		assert.ErrorIs(t, err, identity.ErrInvalidRole)
	})
}

func TestService_GetByID(t *testing.T) {
	ctx := context.Background()
	accountantY := identity.NewAccountant(2, 20)

	t.Run("Success", func(t *testing.T) {
		d := newServiceDeps(t)
		d.authz.EXPECT().Authorize(ctx, accountantY, policy.OpRead, policy.CompanyResource(7)).Return(allow(7), nil)
		d.repo.EXPECT().GetByID(ctx, int64(7)).Return(&company.Company{ID: 7, Name: "Acme", AccountantID: int64Ptr(20)}, nil)

		resp, err := d.service.GetByID(ctx, accountantY, 7)
		require.NoError(t, err)
		assert.Equal(t, "Acme", resp.Name)
	})

	t.Run("Other accountant is denied without reading", func(t *testing.T) {
		d := newServiceDeps(t)
		d.authz.EXPECT().Authorize(ctx, accountantY, policy.OpRead, policy.CompanyResource(7)).
			Return(policy.Decision{Outcome: policy.Deny, Reason: policy.ReasonNotOwner, CompanyID: 7}, nil)

		_, err := d.service.GetByID(ctx, accountantY, 7)
		assert.ErrorIs(t, err, policy.ErrAccessDenied)
	})

	t.Run("Missing company", func(t *testing.T) {
		d := newServiceDeps(t)
		d.authz.EXPECT().Authorize(ctx, accountantY, policy.OpRead, policy.CompanyResource(99)).
			Return(policy.Decision{Outcome: policy.NotFound, Reason: policy.ReasonMissing}, nil)

		_, err := d.service.GetByID(ctx, accountantY, 99)
		assert.ErrorIs(t, err, policy.ErrResourceNotFound)
	})
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	d := newServiceDeps(t)
	accountant := identity.NewAccountant(1, 10)
	params := pagination.Params{Page: 1, Limit: 10, Search: "acme"}

	d.repo.EXPECT().List(ctx, accountant, params).Return([]company.Company{{ID: 1, Name: "Acme"}, {ID: 2, Name: "Acme West"}}, int64(2), nil)

	resp, total, err := d.service.List(ctx, accountant, params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, resp, 2)
	assert.Equal(t, "Acme West", resp[1].Name)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	accountant := identity.NewAccountant(1, 10)

	t.Run("Patches only provided fields", func(t *testing.T) {
		d := newServiceDeps(t)
		d.authz.EXPECT().Authorize(ctx, accountant, policy.OpUpdate, policy.CompanyResource(3)).Return(allow(3), nil)
		d.repo.EXPECT().Update(ctx, int64(3), map[string]any{"name": "New Name", "phone": "555-0100"}).
			Return(&company.Company{ID: 3, Name: "New Name", Phone: "555-0100"}, nil)
		d.recorder.EXPECT().Record(ctx, gomock.Any())

		resp, err := d.service.Update(ctx, accountant, 3, company.UpdateCompanyRequest{
			Name:  strPtr("New Name"),
			Phone: strPtr("555-0100"),
		})
		require.NoError(t, err)
		assert.Equal(t, "New Name", resp.Name)
	})

	t.Run("Empty patch", func(t *testing.T) {
		d := newServiceDeps(t)

		_, err := d.service.Update(ctx, accountant, 3, company.UpdateCompanyRequest{})
		assert.ErrorIs(t, err, companyerrors.ErrNothingToUpdate)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	d := newServiceDeps(t)
	accountant := identity.NewAccountant(1, 10)

	d.authz.EXPECT().Authorize(ctx, accountant, policy.OpDelete, policy.CompanyResource(3)).Return(allow(3), nil)
	d.repo.EXPECT().Delete(ctx, int64(3)).Return(nil)
	d.recorder.EXPECT().Record(ctx, gomock.Any())

	assert.NoError(t, d.service.Delete(ctx, accountant, 3))
}

func TestService_Associate(t *testing.T) {
	ctx := context.Background()
	accountant := identity.NewAccountant(1, 10)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("Claims an unassociated company", func(t *testing.T) {
		d := newServiceDeps(t)
		gomock.InOrder(
			d.repo.EXPECT().GetByID(ctx, int64(5)).Return(&company.Company{ID: 5, CreatedAt: created}, nil),
			d.repo.EXPECT().Associate(ctx, int64(5), int64(10)).Return(true, nil),
			d.repo.EXPECT().GetByID(ctx, int64(5)).Return(&company.Company{ID: 5, AccountantID: int64Ptr(10)}, nil),
		)
		d.recorder.EXPECT().Record(ctx, gomock.Any())

		resp, err := d.service.Associate(ctx, accountant, 5)
		require.NoError(t, err)
		require.NotNil(t, resp.AccountantID)
		assert.Equal(t, int64(10), *resp.AccountantID)
	})

	t.Run("Already owned by caller is a no-op", func(t *testing.T) {
		d := newServiceDeps(t)
		d.repo.EXPECT().GetByID(ctx, int64(5)).Return(&company.Company{ID: 5, AccountantID: int64Ptr(10)}, nil)

		resp, err := d.service.Associate(ctx, accountant, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), resp.ID)
	})

	t.Run("Owned by someone else", func(t *testing.T) {
		d := newServiceDeps(t)
		d.repo.EXPECT().GetByID(ctx, int64(5)).Return(&company.Company{ID: 5, AccountantID: int64Ptr(99)}, nil)

		_, err := d.service.Associate(ctx, accountant, 5)
		assert.ErrorIs(t, err, companyerrors.ErrCompanyAlreadyAssociated)
	})

	t.Run("Lost the race", func(t *testing.T) {
		d := newServiceDeps(t)
		gomock.InOrder(
			d.repo.EXPECT().GetByID(ctx, int64(5)).Return(&company.Company{ID: 5}, nil),
			d.repo.EXPECT().Associate(ctx, int64(5), int64(10)).Return(false, nil),
			d.repo.EXPECT().GetByID(ctx, int64(5)).Return(&company.Company{ID: 5, AccountantID: int64Ptr(99)}, nil),
		)

		_, err := d.service.Associate(ctx, accountant, 5)
		assert.ErrorIs(t, err, companyerrors.ErrCompanyAlreadyAssociated)
	})

	t.Run("Missing company", func(t *testing.T) {
		d := newServiceDeps(t)
		d.repo.EXPECT().GetByID(ctx, int64(5)).Return(nil, companyerrors.ErrCompanyNotFound)

		_, err := d.service.Associate(ctx, accountant, 5)
		assert.ErrorIs(t, err, companyerrors.ErrCompanyNotFound)
	})

	t.Run("Clients cannot associate", func(t *testing.T) {
		d := newServiceDeps(t)

		_, err := d.service.Associate(ctx, identity.NewClient(3, 5), 5)
		assert.ErrorIs(t, err, companyerrors.ErrAccountantOnly)
	})
}
