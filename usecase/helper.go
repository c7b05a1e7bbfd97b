package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/mdblp/health-tracker/common"
)

var (
	errorRunningQuery      = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_store_error", Message: "internal server error"}
	errorInvalidParameters = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_parameters", Message: "one or more parameters are invalid"}
	errorInvalidBody       = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_body", Message: "the request body is invalid"}
	errorInvalidDate       = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_date", Message: "invalid date format, expected YYYY-MM-DD"}
	errorNotFound          = common.DetailedError{Status: http.StatusNotFound, Code: "not_found", Message: "not found"}
	errorAlreadyExists     = common.DetailedError{Status: http.StatusBadRequest, Code: "already_exists", Message: "already exists"}
	errorGarminConfig      = common.DetailedError{Status: http.StatusBadRequest, Code: "garmin_not_configured", Message: "Garmin credentials not configured"}
	errorGarminSync        = common.DetailedError{Status: http.StatusInternalServerError, Code: "garmin_sync_failed", Message: "Garmin synchronization failed"}
	errorExport            = common.DetailedError{Status: http.StatusInternalServerError, Code: "export_failed", Message: "export failed"}
)

// ErrorNotFound a 404 naming the missing resource
func ErrorNotFound(resource string) *common.DetailedError {
	e := errorNotFound.WithMessage(resource + " not found")
	return &e
}

// ErrorInvalidParameters a 400 with a client facing reason
func ErrorInvalidParameters(reason error) *common.DetailedError {
	e := errorInvalidParameters.SetInternalMessage(reason)
	if reason != nil {
		e.Message = reason.Error()
	}
	return &e
}

// ErrorInvalidBody a 400 for an undecodable or invalid request body
func ErrorInvalidBody(reason error) *common.DetailedError {
	e := errorInvalidBody.SetInternalMessage(reason)
	if reason != nil {
		e.Message = validationMessage(reason)
	}
	return &e
}

func storeError(ctx context.Context, method string, err error) *common.DetailedError {
	return errorRunningQuery.Wrap(errors.New(addContextToMessage(method, common.TraceID(ctx), err.Error())))
}

func addContextToMessage(methodName string, traceID string, message string) string {
	return fmt.Sprintf("%s failed: traceID=[%s] : %v", methodName, traceID, message)
}

var validate = newValidator()

// newValidator reports fields by their json name
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return field.Name
		}
		return name
	})
	return v
}

// validateStruct run the validator tags of v
func validateStruct(v interface{}) *common.DetailedError {
	if err := validate.Struct(v); err != nil {
		return ErrorInvalidBody(err)
	}
	return nil
}

// validationMessage one line per failed field, using the json field names
func validationMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err.Error()
	}
	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		field := fe.Field()
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed on %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed on %s", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

// Calendar resolves "today" in the configured time zone
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

func NewCalendar(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{Location: loc, Now: time.Now}
}

func (c *Calendar) now() time.Time {
	return c.Now().In(c.Location)
}

func (c *Calendar) Today() string {
	return common.FormatDay(c.now())
}

func (c *Calendar) Yesterday() string {
	return common.FormatDay(c.now().AddDate(0, 0, -1))
}

// Range resolve optional query bounds, lookbackDays 0 means a missing start equals the end
func (c *Calendar) Range(start string, end string, lookbackDays int) (common.Date, *common.DetailedError) {
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, err := common.ParseDay(d); err != nil {
			return common.Date{}, errorInvalidDate.Wrap(err)
		}
	}
	dates, err := common.DefaultRange(start, end, c.Today(), lookbackDays)
	if err != nil {
		return common.Date{}, ErrorInvalidParameters(err)
	}
	return dates, nil
}

func boolPtr(v bool) *bool { return &v }

func intPtr(v int) *int { return &v }

func float64Ptr(v float64) *float64 { return &v }
