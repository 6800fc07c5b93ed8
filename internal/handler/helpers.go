package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/yashas-13/inv-123/internal/apierror"
	"github.com/yashas-13/inv-123/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
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

	// Report JSON field names rather than Go struct field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid JSON: "+err.Error()))
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

// respondError maps service errors to HTTP statuses. Anything unrecognised
// is logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicate):
		c.JSON(http.StatusConflict, apierror.Coded(apierror.CodeDuplicateEvent, err.Error()))
	case errors.Is(err, service.ErrUnknownProduct),
		errors.Is(err, service.ErrUnknownBatch),
		errors.Is(err, service.ErrUnknownLocation):
		c.JSON(http.StatusUnprocessableEntity, apierror.Coded(apierror.CodeUnknownReference, err.Error()))
	case errors.Is(err, service.ErrEmptyBatch),
		errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, apierror.Coded(apierror.CodeInvalidInput, err.Error()))
	case errors.Is(err, service.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, apierror.Coded(apierror.CodeStoreNotFound, "Store not found"))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, apierror.Coded(apierror.CodeUnauthorized, err.Error()))
	default:
		_ = c.Error(err)
		log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
		c.JSON(http.StatusInternalServerError, apierror.New("Internal server error"))
	}
}

// queryInt reads a positive integer query parameter, falling back to def
// when it is absent. Malformed or non-positive values are a 400.
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New(name+" must be a positive integer"))
		return 0, false
	}
	return n, true
}
