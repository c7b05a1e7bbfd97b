package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

func (a *API) setGarminHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/garmin/sync", a.middlewareV1(a.syncGarmin)).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/garmin/data", a.middlewareV1(a.getGarminData)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/garmin/data/{date}", a.middlewareV1(a.getGarminDay)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/garmin/activities", a.middlewareV1(a.getActivities)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/garmin/sync-log", a.middlewareV1(a.getSyncLogs)).Methods(http.MethodGet)
}

// @Summary Synchronize one day of Garmin Connect data
// @Description Without date, yesterday is synchronized. An already synchronized day is skipped unless force is set.
// @ID health-tracker-api-syncgarmin
// @Accept json
// @Produce json
// @Success 200 {object} schema.SyncResult
// @Failure 400 {object} common.DetailedError
// @Failure 500 {object} common.DetailedError
// @Router /v1/garmin/sync [post]
func (a *API) syncGarmin(ctx context.Context, res *common.HttpResponseWriter) error {
	var req schema.SyncRequest
	if derr := decodeBody(res, &req); derr != nil {
		return res.WriteError(derr)
	}
	result, derr := a.garmin.Sync(ctx, req.Date, req.Force)
	return writeResult(res, http.StatusOK, result, derr)
}

func (a *API) getGarminData(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, listLookbackDays)
	if derr != nil {
		return res.WriteError(derr)
	}
	metrics, derr := a.garmin.Metrics(ctx, dates)
	return writeResult(res, http.StatusOK, metrics, derr)
}

func (a *API) getGarminDay(ctx context.Context, res *common.HttpResponseWriter) error {
	metric, derr := a.garmin.Metric(ctx, res.VARS["date"])
	return writeResult(res, http.StatusOK, metric, derr)
}

func (a *API) getActivities(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, listLookbackDays)
	if derr != nil {
		return res.WriteError(derr)
	}
	activities, derr := a.garmin.Activities(ctx, dates)
	return writeResult(res, http.StatusOK, activities, derr)
}

func (a *API) getSyncLogs(ctx context.Context, res *common.HttpResponseWriter) error {
	limit, derr := queryInt(res, "limit", syncLogLimit)
	if derr != nil {
		return res.WriteError(derr)
	}
	logs, derr := a.garmin.SyncLogs(ctx, limit)
	return writeResult(res, http.StatusOK, logs, derr)
}
