package employee_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-payroll/internal/employee"
	employeeMock "go-payroll/internal/employee/mock"
	"go-payroll/internal/identity"
	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/pagination"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type envelope struct {
	Ok   bool            `json:"ok"`
	Data json.RawMessage `json:"data"`
	Meta *struct {
		CurrentPage int   `json:"currentPage"`
		TotalPages  int   `json:"totalPages"`
		Total       int64 `json:"total"`
	} `json:"meta"`
	Error *struct {
		Code    string                `json:"code"`
		Details []apperror.FieldError `json:"details"`
	} `json:"error"`
}

func newRouter(p identity.Principal, h *employee.Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextPrincipal, p)
		c.Next()
	})
	r.POST("/employees", h.Create)
	r.GET("/employees/company/:companyId", h.ListByCompany)
	r.GET("/employees/:id", h.GetByID)
	r.POST("/employees/:id/offboard", h.Offboard)
	return r
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, data := range files {
		fw, err := w.CreateFormFile(name, name+".pdf")
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"first_name":         "Jane",
		"last_name":          "Doe",
		"email":              "jane@example.com",
		"sin":                "046454286",
		"date_of_birth":      "1990-04-12",
		"street_address":     "1 King St W",
		"city":               "Toronto",
		"province":           "ON",
		"postal_code":        "M5H 1A1",
		"hire_date":          "2024-02-01",
		"pay_type":           "salary",
		"pay_rate":           "65000.00",
		"pay_schedule":       "semi_monthly",
		"institution_number": "004",
		"transit_number":     "12345",
		"account_number":     "1234567",
		"consent":            "true",
	}
}

func pdfFiles() map[string][]byte {
	return map[string][]byte{
		employee.DocumentTD1Federal:    []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n"),
		employee.DocumentTD1Provincial: []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n"),
	}
}

func detailFields(env envelope) []string {
	out := []string{}
	if env.Error == nil {
		return out
	}
	for _, d := range env.Error.Details {
		out = append(out, d.Field)
	}
	return out
}

func TestHandler_Create(t *testing.T) {
	client := identity.NewClient(3, 5)

	t.Run("multipart with both documents", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(client, employee.NewHandler(svc))

		svc.EXPECT().Create(gomock.Any(), client, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ identity.Principal, req employee.CreateEmployeeRequest, docs []employee.DocumentUpload) (employee.EmployeeResponse, error) {
				assert.Nil(t, req.CompanyID)
				require.NotNil(t, req.PayRate)
				assert.Equal(t, "65000", req.PayRate.String())
				require.NotNil(t, req.Consent)
				assert.True(t, *req.Consent)
				assert.Len(t, docs, 2)
				return employee.EmployeeResponse{ID: 11, CompanyID: 5}, nil
			})

		body, contentType := multipartBody(t, validFields(), pdfFiles())
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("reports missing fields and documents together", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(client, employee.NewHandler(svc))

		fields := validFields()
		delete(fields, "first_name")
		fields["transit_number"] = "12a45"
		fields["pay_type"] = "commission"

		body, contentType := multipartBody(t, fields, nil)
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.ElementsMatch(t,
			[]string{"first_name", "transit_number", "pay_type", employee.DocumentTD1Federal, employee.DocumentTD1Provincial},
			detailFields(env),
		)
	})

	t.Run("rejects documents that are not PDFs", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(client, employee.NewHandler(svc))

		files := pdfFiles()
		files[employee.DocumentTD1Provincial] = []byte("GIF89a not a pdf")

		body, contentType := multipartBody(t, validFields(), files)
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "td1_provincial must be a PDF file")
	})

	t.Run("rejects documents over 5MB", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(client, employee.NewHandler(svc))

		files := pdfFiles()
		files[employee.DocumentTD1Federal] = append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("a"), employee.MaxDocumentSize)...)

		body, contentType := multipartBody(t, validFields(), files)
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "td1_federal must be at most 5MB")
	})
}

func TestHandler_Create_Accountant(t *testing.T) {
	accountant := identity.NewAccountant(2, 4)

	t.Run("reports missing company_id with the other fields", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(accountant, employee.NewHandler(svc))

		fields := validFields()
		delete(fields, "first_name")

		body, contentType := multipartBody(t, fields, pdfFiles())
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.ElementsMatch(t, []string{"first_name", "company_id"}, detailFields(env))
	})

	t.Run("passes company_id through", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(accountant, employee.NewHandler(svc))

		svc.EXPECT().Create(gomock.Any(), accountant, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ identity.Principal, req employee.CreateEmployeeRequest, _ []employee.DocumentUpload) (employee.EmployeeResponse, error) {
				require.NotNil(t, req.CompanyID)
				assert.Equal(t, int64(5), *req.CompanyID)
				return employee.EmployeeResponse{ID: 12, CompanyID: 5}, nil
			})

		fields := validFields()
		fields["company_id"] = "5"

		body, contentType := multipartBody(t, fields, pdfFiles())
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestHandler_ListByCompany(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := employeeMock.NewMockService(ctrl)
	accountant := identity.NewAccountant(1, 10)
	r := newRouter(accountant, employee.NewHandler(svc))

	svc.EXPECT().ListByCompany(gomock.Any(), accountant, int64(5), pagination.Params{Page: 3, Limit: 10, Search: "doe"}).
		Return(make([]employee.EmployeeResponse, 5), int64(25), nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/employees/company/5?page=3&limit=10&search=doe", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NotNil(t, env.Meta)
	assert.Equal(t, 3, env.Meta.TotalPages)
	assert.Equal(t, int64(25), env.Meta.Total)
}

func TestHandler_Offboard(t *testing.T) {
	accountant := identity.NewAccountant(1, 10)

	t.Run("invalid enum never reaches the service", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(accountant, employee.NewHandler(svc))

		body := `{"reason":"vacation","last_day":"2024-06-28","vacation_payout":"later"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees/11/offboard", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.ElementsMatch(t, []string{"reason", "vacation_payout"}, detailFields(env))
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := employeeMock.NewMockService(ctrl)
		r := newRouter(accountant, employee.NewHandler(svc))

		svc.EXPECT().Offboard(gomock.Any(), accountant, int64(11), employee.OffboardRequest{
			Reason:         "retirement",
			LastDay:        "2024-06-28",
			VacationPayout: "no_payout",
		}).Return(employee.OffboardingResponse{ID: 3, EmployeeID: 11}, nil)

		body := `{"reason":"retirement","last_day":"2024-06-28","vacation_payout":"no_payout"}`
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/employees/11/offboard", strings.NewReader(body)))

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}
