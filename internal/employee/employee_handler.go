package employee

import (
	"net/http"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/pagination"
	"go-payroll/internal/shared/request"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("employee.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	fields := []zap.Field{
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	}
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("employee request failed", append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn("employee request failed", append(fields, zap.String("message", httpErr.Message))...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Create accepts multipart/form-data with the employee fields plus the
// td1_federal and td1_provincial PDFs.
func (h *Handler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req CreateEmployeeRequest
	var bindErr error
	if err := c.ShouldBind(&req); err != nil {
		bindErr = apperror.MapValidationError(err)
	}

	var extra apperror.FieldErrors
	if principal.IsAccountant() && req.CompanyID == nil {
		extra = append(extra, apperror.RequiredField("company_id"))
	}
	form, _ := c.MultipartForm()
	docs, docErrs := readDocuments(form)
	if err := apperror.MergeValidation(bindErr, append(extra, docErrs...)); err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), principal, req, docs)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListByCompany(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	companyID, err := request.ParamID(c, "companyId")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var query pagination.Query
	if err := request.BindQuery(c, &query); err != nil {
		h.writeServiceError(c, err)
		return
	}
	params := query.Params()

	resp, total, err := h.service.ListByCompany(c.Request.Context(), principal, companyID, params)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, params.Page, params.Limit)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	id, err := request.ParamID(c, "id")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), principal, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	id, err := request.ParamID(c, "id")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req UpdateEmployeeRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Update(c.Request.Context(), principal, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	id, err := request.ParamID(c, "id")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), principal, id); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Offboard(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	id, err := request.ParamID(c, "id")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var req OffboardRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Offboard(c.Request.Context(), principal, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetOffboarding(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	id, err := request.ParamID(c, "id")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.GetOffboarding(c.Request.Context(), principal, id)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
