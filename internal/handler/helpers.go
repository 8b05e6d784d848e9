package handler

import (
	"errors"
	"net/http"
	"reflect"

	"gamblerpro/internal/apierror"
	"gamblerpro/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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
// Returns false and writes the error response if validation fails; the caller
// should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses the :id path parameter, writing a 400 when it is not a UUID.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

var statusPorKind = map[service.ErrorKind]int{
	service.KindValidation:     http.StatusUnprocessableEntity,
	service.KindNotFound:       http.StatusNotFound,
	service.KindConflict:       http.StatusConflict,
	service.KindForbidden:      http.StatusForbidden,
	service.KindNothingToClose: http.StatusUnprocessableEntity,
}

// responderError writes business rejections with their status. Anything else
// is handed to the ErrorHandler middleware, which logs it and answers 500.
func responderError(c *gin.Context, err error) {
	kind := service.KindOf(err)
	status, ok := statusPorKind[kind]
	if !ok {
		_ = c.Error(err)
		return
	}
	c.JSON(status, apierror.NewCode(kind.String(), err.Error()))
}
