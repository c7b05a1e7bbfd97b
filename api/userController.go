package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

func (a *API) setUserHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/user/me", a.middlewareV1(a.getMe)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/user/me", a.middlewareV1(a.updateMe)).Methods(http.MethodPut)
	rtr.HandleFunc(prefix+"/user/garmin-configured", a.middlewareV1(a.getGarminConfigured)).Methods(http.MethodGet)
}

// @Summary Get the local user profile
// @ID health-tracker-api-getme
// @Produce json
// @Success 200 {object} schema.User
// @Router /v1/user/me [get]
func (a *API) getMe(ctx context.Context, res *common.HttpResponseWriter) error {
	user, derr := a.users.Me(ctx)
	return writeResult(res, http.StatusOK, user, derr)
}

// @Summary Update the local user profile
// @Description The Garmin password is stored encrypted, an empty password keeps the current one.
// @ID health-tracker-api-updateme
// @Accept json
// @Produce json
// @Success 200 {object} schema.User
// @Failure 400 {object} common.DetailedError
// @Router /v1/user/me [put]
func (a *API) updateMe(ctx context.Context, res *common.HttpResponseWriter) error {
	var update schema.UserUpdate
	if derr := decodeBody(res, &update); derr != nil {
		return res.WriteError(derr)
	}
	user, derr := a.users.UpdateMe(ctx, &update)
	return writeResult(res, http.StatusOK, user, derr)
}

func (a *API) getGarminConfigured(ctx context.Context, res *common.HttpResponseWriter) error {
	status, derr := a.users.GarminStatus(ctx)
	return writeResult(res, http.StatusOK, status, derr)
}
