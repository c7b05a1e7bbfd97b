package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/usecase"
)

// writeResult v as JSON, or the use case error when set
func writeResult(res *common.HttpResponseWriter, statusCode int, v interface{}, derr *common.DetailedError) error {
	if derr != nil {
		return res.WriteError(derr)
	}
	return res.WriteJSON(statusCode, v)
}

// writeNoContent 204, or the use case error when set
func writeNoContent(res *common.HttpResponseWriter, derr *common.DetailedError) error {
	if derr != nil {
		return res.WriteError(derr)
	}
	res.WriteHeader(http.StatusNoContent)
	return nil
}

func decodeBody(res *common.HttpResponseWriter, v interface{}) *common.DetailedError {
	if err := res.DecodeBody(v); err != nil {
		return usecase.ErrorInvalidBody(err)
	}
	return nil
}

// pathID the numeric {id} route parameter
func pathID(res *common.HttpResponseWriter) (int64, *common.DetailedError) {
	id, err := strconv.ParseInt(res.VARS["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, usecase.ErrorInvalidParameters(fmt.Errorf("invalid id %q", res.VARS["id"]))
	}
	return id, nil
}

// queryDates the start_date / end_date query parameters, a missing end is today.
// With lookbackDays 0 a missing start is the end date.
func (a *API) queryDates(res *common.HttpResponseWriter, lookbackDays int) (common.Date, *common.DetailedError) {
	query := res.Query()
	return a.dates.Range(query.Get("start_date"), query.Get("end_date"), lookbackDays)
}

// queryBool nil when the parameter is absent
func queryBool(res *common.HttpResponseWriter, name string) (*bool, *common.DetailedError) {
	value := res.Query().Get(name)
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, usecase.ErrorInvalidParameters(fmt.Errorf("%s: %w", name, err))
	}
	return &b, nil
}

// queryInt defaultValue when the parameter is absent
func queryInt(res *common.HttpResponseWriter, name string, defaultValue int64) (int64, *common.DetailedError) {
	value := res.Query().Get(name)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, usecase.ErrorInvalidParameters(fmt.Errorf("%s: %w", name, err))
	}
	if n < 0 {
		return 0, usecase.ErrorInvalidParameters(errors.New(name + " must be positive"))
	}
	return n, nil
}
