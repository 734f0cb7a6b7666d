package apperror_test

import (
	"errors"
	"net/http"
	"testing"

	"go-payroll/internal/shared/apperror"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string           `json:"name" validate:"required"`
	SIN      string           `json:"sin" validate:"required,len=9,numeric"`
	PayType  string           `json:"pay_type" validate:"required,oneof=hourly salary"`
	HireDate string           `json:"hire_date" validate:"required,datetime=2006-01-02"`
	PayRate  *decimal.Decimal `json:"pay_rate" validate:"required,gt=0"`
	GrossPay decimal.Decimal  `json:"gross_pay" validate:"gte=0"`
	Ignored  string           `json:"-"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	apperror.Register(v)
	return v
}

func TestMapValidationError_ReportsEveryField(t *testing.T) {
	rate := decimal.NewFromInt(-5)
	req := sampleRequest{
		SIN:      "12345",
		PayType:  "weekly",
		HireDate: "01/02/2024",
		PayRate:  &rate,
		GrossPay: decimal.NewFromInt(-1),
	}

	err := apperror.MapValidationError(newValidator().Struct(req))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeValidationError, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPStatus)

	fields := map[string]string{}
	for _, d := range appErr.Details {
		fields[d.Field] = d.Message
	}
	assert.Len(t, fields, 6)
	assert.Equal(t, "Name is required", fields["name"])
	assert.Equal(t, "Sin must be exactly 9 characters", fields["sin"])
	assert.Contains(t, fields["pay_type"], "must be one of")
	assert.Contains(t, fields["hire_date"], "YYYY-MM-DD")
	assert.Contains(t, fields["pay_rate"], "greater than")
	assert.Contains(t, fields["gross_pay"], "at least")
}

func TestMapValidationError_NonValidatorError(t *testing.T) {
	err := apperror.MapValidationError(errors.New("unexpected EOF"))

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Empty(t, appErr.Details)
}

func TestToHTTP(t *testing.T) {
	t.Run("app error keeps status and code", func(t *testing.T) {
		out := apperror.ToHTTP(apperror.ErrForbidden)
		assert.Equal(t, http.StatusForbidden, out.Status)
		assert.Equal(t, apperror.CodeForbidden, out.Code)
	})

	t.Run("wrapped app error", func(t *testing.T) {
		err := apperror.WithCause(apperror.ErrNotFound, errors.New("record not found"))
		out := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, out.Status)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})

	t.Run("unknown error is generic 500", func(t *testing.T) {
		out := apperror.ToHTTP(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, out.Status)
		assert.Equal(t, "Internal server error", out.Message)
		assert.True(t, apperror.IsInternal(errors.New("boom")))
	})

	t.Run("validation details are exposed", func(t *testing.T) {
		var fe apperror.FieldErrors
		fe.Add("last_day", "Last Day is required")
		out := apperror.ToHTTP(fe.Err())
		assert.Equal(t, http.StatusBadRequest, out.Status)
		assert.Len(t, out.Details, 1)
	})
}

func TestMergeValidation(t *testing.T) {
	var extra apperror.FieldErrors
	extra.Add("td1_federal", "Td1 Federal is required")

	base := apperror.NewValidationError([]apperror.FieldError{apperror.RequiredField("first_name")})
	merged := apperror.MergeValidation(base, extra)

	var appErr *apperror.AppError
	require.True(t, errors.As(merged, &appErr))
	assert.Len(t, appErr.Details, 2)

	assert.NoError(t, apperror.MergeValidation(nil, nil))
	other := errors.New("io")
	assert.Equal(t, other, apperror.MergeValidation(other, extra))
}
