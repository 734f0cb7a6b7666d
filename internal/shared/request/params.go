package request

import (
	"strconv"

	"go-payroll/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// ParamID parses a positive int64 path parameter.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError([]apperror.FieldError{apperror.InvalidField(name)})
	}
	return id, nil
}

// BindQuery binds the query string into dst, mapping validator failures to a
// validation error that lists every field.
func BindQuery(c *gin.Context, dst any) error {
	if err := c.ShouldBindQuery(dst); err != nil {
		return apperror.MapValidationError(err)
	}
	return nil
}

// BindJSON is BindQuery for JSON bodies.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.MapValidationError(err)
	}
	return nil
}
