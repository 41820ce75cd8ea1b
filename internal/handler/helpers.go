package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"stockdesk/internal/apierror"
	"stockdesk/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

func init() {
	// validator cannot compare decimal.Decimal against gt=0 on its own.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds the JSON body and runs the validate tags. On failure
// it has already written the response and the caller must return.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
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

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, apierror.New("invalid id"))
		return 0, false
	}
	return uint(id), true
}

// queryInt reads a required positive integer query parameter.
func queryInt(c *gin.Context, key string) (int, bool) {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, apierror.New(fmt.Sprintf("query parameter %q must be a positive integer", key)))
		return 0, false
	}
	return n, true
}

func queryDate(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(fmt.Sprintf("query parameter %q must be YYYY-MM-DD", key)))
		return nil, false
	}
	return &t, true
}

// respondError maps business rejections onto 4xx. Anything else is handed to
// the ErrorHandler middleware, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrPurchaseOrderNotFound):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInsufficientStock),
		errors.Is(err, service.ErrOrderNotPending),
		errors.Is(err, service.ErrProductInUse):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidPeriod),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}

func wantsCSV(c *gin.Context) bool {
	return c.Query("format") == "csv"
}

// writeCSV streams a header row followed by rows as an attachment.
func writeCSV(c *gin.Context, filename string, header []string, rows [][]string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(header); err != nil {
		_ = c.Error(err)
		return
	}
	if err := w.WriteAll(rows); err != nil {
		_ = c.Error(err)
	}
}

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func itoa(n int) string { return strconv.Itoa(n) }

func utoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }
