package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
)

func (a *API) setLogbookHandlers(prefix string, rtr *mux.Router) {
	sickness := a.logbook.Sickness
	rtr.HandleFunc(prefix+"/sickness/", a.middlewareV1(createEntry(sickness))).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/sickness/", a.middlewareV1(a.listSickness)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/sickness/{id:[0-9]+}", a.middlewareV1(getEntry(sickness))).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/sickness/{id:[0-9]+}", a.middlewareV1(updateEntry(sickness))).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/sickness/{id:[0-9]+}", a.middlewareV1(deleteEntry(sickness))).Methods(http.MethodDelete)

	seizures := a.logbook.Seizures
	rtr.HandleFunc(prefix+"/seizures/", a.middlewareV1(createEntry(seizures))).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/seizures/", a.middlewareV1(a.listSeizures)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/seizures/{id:[0-9]+}", a.middlewareV1(getEntry(seizures))).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/seizures/{id:[0-9]+}", a.middlewareV1(updateEntry(seizures))).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/seizures/{id:[0-9]+}", a.middlewareV1(deleteEntry(seizures))).Methods(http.MethodDelete)

	events := a.logbook.HealthEvents
	rtr.HandleFunc(prefix+"/health-events/", a.middlewareV1(createEntry(events))).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/health-events/", a.middlewareV1(a.listHealthEvents)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/health-events/{id:[0-9]+}", a.middlewareV1(getEntry(events))).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/health-events/{id:[0-9]+}", a.middlewareV1(updateEntry(events))).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/health-events/{id:[0-9]+}", a.middlewareV1(deleteEntry(events))).Methods(http.MethodDelete)

	water := a.logbook.Water
	rtr.HandleFunc(prefix+"/water/", a.middlewareV1(createEntry(water))).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/water/", a.middlewareV1(a.listWater)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/water/daily-total/{date}", a.middlewareV1(a.getWaterTotal)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/water/{id:[0-9]+}", a.middlewareV1(deleteEntry(water))).Methods(http.MethodDelete)
}

func (a *API) listSickness(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	hasFever, derr := queryBool(res, "has_fever")
	if derr != nil {
		return res.WriteError(derr)
	}
	entries, derr := a.logbook.SicknessBetween(ctx, dates, hasFever)
	return writeResult(res, http.StatusOK, entries, derr)
}

func (a *API) listSeizures(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	query := res.Query()
	seizures, derr := a.logbook.SeizuresBetween(ctx, dates, query.Get("severity"), query.Get("seizure_type"))
	return writeResult(res, http.StatusOK, seizures, derr)
}

func (a *API) listHealthEvents(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	events, derr := a.logbook.HealthEventsBetween(ctx, dates, res.Query().Get("event_type"))
	return writeResult(res, http.StatusOK, events, derr)
}

func (a *API) listWater(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	entries, derr := a.logbook.WaterBetween(ctx, dates)
	return writeResult(res, http.StatusOK, entries, derr)
}

func (a *API) getWaterTotal(ctx context.Context, res *common.HttpResponseWriter) error {
	day := res.VARS["date"]
	if _, err := common.ParseDay(day); err != nil {
		return res.WriteError(errorInvalidDate.Wrap(err))
	}
	total, derr := a.logbook.WaterTotal(ctx, day)
	return writeResult(res, http.StatusOK, total, derr)
}
