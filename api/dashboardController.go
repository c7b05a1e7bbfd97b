package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
)

func (a *API) setDashboardHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/dashboard/daily/{date}", a.middlewareV1(a.getDaily)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/dashboard/today", a.middlewareV1(a.getToday)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/dashboard/range", a.middlewareV1(a.getRange)).Methods(http.MethodGet)
}

// @Summary Everything recorded on a calendar date
// @ID health-tracker-api-getdaily
// @Produce json
// @Param date path string true "YYYY-MM-DD"
// @Success 200 {object} schema.DailySummary
// @Failure 400 {object} common.DetailedError
// @Router /v1/dashboard/daily/{date} [get]
func (a *API) getDaily(ctx context.Context, res *common.HttpResponseWriter) error {
	summary, derr := a.dashboard.Daily(ctx, res.VARS["date"])
	return writeResult(res, http.StatusOK, summary, derr)
}

func (a *API) getToday(ctx context.Context, res *common.HttpResponseWriter) error {
	summary, derr := a.dashboard.Today(ctx)
	return writeResult(res, http.StatusOK, summary, derr)
}

// getRange the dashboard resolves the default range
func (a *API) getRange(ctx context.Context, res *common.HttpResponseWriter) error {
	query := res.Query()
	summary, derr := a.dashboard.Range(ctx, query.Get("start_date"), query.Get("end_date"))
	return writeResult(res, http.StatusOK, summary, derr)
}
