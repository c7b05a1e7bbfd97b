package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

func (a *API) setNotesHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/notes/", a.middlewareV1(a.createNote)).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/notes/", a.middlewareV1(a.listNotes)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/notes/{date}", a.middlewareV1(a.getNote)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/notes/{date}", a.middlewareV1(a.updateNote)).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/notes/{date}", a.middlewareV1(a.deleteNote)).Methods(http.MethodDelete)
}

// @Summary Write the note of a day
// @Description A day has at most one note, use PUT to change it.
// @ID health-tracker-api-createnote
// @Accept json
// @Produce json
// @Success 201 {object} schema.DailyNote
// @Failure 400 {object} common.DetailedError
// @Router /v1/notes/ [post]
func (a *API) createNote(ctx context.Context, res *common.HttpResponseWriter) error {
	var note schema.DailyNote
	if derr := decodeBody(res, &note); derr != nil {
		return res.WriteError(derr)
	}
	created, derr := a.logbook.Notes.Create(ctx, &note)
	return writeResult(res, http.StatusCreated, created, derr)
}

func (a *API) listNotes(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, listLookbackDays)
	if derr != nil {
		return res.WriteError(derr)
	}
	notes, derr := a.logbook.Notes.Between(ctx, dates)
	return writeResult(res, http.StatusOK, notes, derr)
}

func (a *API) getNote(ctx context.Context, res *common.HttpResponseWriter) error {
	note, derr := a.logbook.Notes.Get(ctx, res.VARS["date"])
	return writeResult(res, http.StatusOK, note, derr)
}

func (a *API) updateNote(ctx context.Context, res *common.HttpResponseWriter) error {
	note, derr := a.logbook.Notes.Update(ctx, res.VARS["date"], func(note *schema.DailyNote) error {
		return res.DecodeBody(note)
	})
	return writeResult(res, http.StatusOK, note, derr)
}

func (a *API) deleteNote(ctx context.Context, res *common.HttpResponseWriter) error {
	return writeNoContent(res, a.logbook.Notes.Delete(ctx, res.VARS["date"]))
}
