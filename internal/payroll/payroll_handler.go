package payroll

import (
	"net/http"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
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
	l := zap.L().Named("payroll.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.handler")
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
		h.logger.Error("payroll request failed", append(fields, zap.Error(err))...)
	} else {
		h.logger.Warn("payroll request failed", append(fields, zap.String("message", httpErr.Message))...)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)

	var req CreatePayrollRequest
	if err := request.BindJSON(c, &req); err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), principal, req)
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

	var query ListPayrollQuery
	if err := request.BindQuery(c, &query); err != nil {
		h.writeServiceError(c, err)
		return
	}
	params := query.Params()

	resp, total, err := h.service.ListByCompany(c.Request.Context(), principal, companyID, query.RangeQuery, params)
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

	var req UpdatePayrollRequest
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

func (h *Handler) Totals(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	companyID, err := request.ParamID(c, "companyId")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var query RangeQuery
	if err := request.BindQuery(c, &query); err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.Totals(c.Request.Context(), principal, companyID, query)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Export(c *gin.Context) {
	principal, _ := middleware.PrincipalFrom(c)
	companyID, err := request.ParamID(c, "companyId")
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var query RangeQuery
	if err := request.BindQuery(c, &query); err != nil {
		h.writeServiceError(c, err)
		return
	}

	export, err := h.service.Export(c.Request.Context(), principal, companyID, query)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.FileName)
	c.Data(http.StatusOK, ExportContentType, export.Data)
}
