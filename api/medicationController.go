package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
)

func (a *API) setMedicationHandlers(prefix string, rtr *mux.Router) {
	schedules := a.logbook.Schedules
	rtr.HandleFunc(prefix+"/medications/schedules", a.middlewareV1(createEntry(schedules))).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/medications/schedules", a.middlewareV1(a.listSchedules)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/medications/schedules/{id:[0-9]+}", a.middlewareV1(getEntry(schedules))).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/medications/schedules/{id:[0-9]+}", a.middlewareV1(updateEntry(schedules))).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/medications/schedules/{id:[0-9]+}", a.middlewareV1(deleteEntry(schedules))).Methods(http.MethodDelete)

	medications := a.logbook.Medications
	rtr.HandleFunc(prefix+"/medications/", a.middlewareV1(createEntry(medications))).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/medications/", a.middlewareV1(a.listMedications)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/medications/{id:[0-9]+}", a.middlewareV1(getEntry(medications))).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/medications/{id:[0-9]+}", a.middlewareV1(updateEntry(medications))).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/medications/{id:[0-9]+}", a.middlewareV1(deleteEntry(medications))).Methods(http.MethodDelete)
}

func (a *API) listMedications(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, 0)
	if derr != nil {
		return res.WriteError(derr)
	}
	doses, derr := a.logbook.MedicationsBetween(ctx, dates, res.Query().Get("medication_name"))
	return writeResult(res, http.StatusOK, doses, derr)
}

// listSchedules active_only defaults to true
func (a *API) listSchedules(ctx context.Context, res *common.HttpResponseWriter) error {
	activeOnly, derr := queryBool(res, "active_only")
	if derr != nil {
		return res.WriteError(derr)
	}
	schedules, derr := a.logbook.ListSchedules(ctx, activeOnly == nil || *activeOnly)
	return writeResult(res, http.StatusOK, schedules, derr)
}
