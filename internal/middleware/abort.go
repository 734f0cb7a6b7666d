package middleware

import (
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

func abortWith(c *gin.Context, err *apperror.AppError) {
	out := apperror.ToHTTP(err)
	response.Abort(c, out.Status, out.Code, out.Message)
}
