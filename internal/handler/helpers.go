package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Lisura123/AXG-Photo-sub001/internal/apierror"
	"github.com/Lisura123/AXG-Photo-sub001/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service-layer errors onto the response taxonomy.
// Anything outside the taxonomy is attached to the context for the
// ErrorHandler middleware, which logs it and returns a generic 500.
func respondError(c *gin.Context, err error) {
	var conflict *service.ConflictError
	var validation *service.ValidationError

	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, apierror.New("Resource not found"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, apierror.New("Operation not allowed"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.New("Invalid email or password"))
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, apierror.NewConflict(conflict.Error(), conflict.Field, conflict.Value))
	case errors.As(err, &validation):
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(validation.Fields))
	default:
		_ = c.Error(err)
	}
}
