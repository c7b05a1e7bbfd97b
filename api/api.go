package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tidepool-org/go-common/clients/status"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/usecase"
)

type (
	// API struct for health-tracker
	API struct {
		users           UserUseCase
		garmin          GarminUseCase
		logbook         *usecase.Logbook
		dashboard       DashboardUseCase
		exporter        ExporterUseCase
		dates           DateResolver
		cache           usecase.SummaryCache
		databaseAdapter usecase.DatabaseAdapter
		logger          *zap.Logger
	}

	// UseCases the business layer served by the API
	UseCases struct {
		Users     UserUseCase
		Garmin    GarminUseCase
		Logbook   *usecase.Logbook
		Dashboard DashboardUseCase
		Exporter  ExporterUseCase
		Dates     DateResolver
		// Cache flushed after every successful change of the stored data
		Cache usecase.SummaryCache
	}
)

const (
	// listLookbackDays default range of the listings which do not default to today
	listLookbackDays = 30
	syncLogLimit     = 50
)

var (
	errorStatusCheck = common.DetailedError{Status: http.StatusInternalServerError, Code: "data_status_check", Message: "checking of the status endpoint showed an error"}
	errorLoadingJSON = common.DetailedError{Status: http.StatusInternalServerError, Code: "json_marshal_error", Message: "internal server error"}
	errorNoRoute     = common.DetailedError{Status: http.StatusNotFound, Code: "not_found", Message: "Not Found"}
	errorInvalidDate = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_date", Message: "invalid date format, expected YYYY-MM-DD"}
)

func InitAPI(uc UseCases, dbAdapter usecase.DatabaseAdapter, logger *zap.Logger) *API {
	cache := uc.Cache
	if cache == nil {
		cache = usecase.NoopCache()
	}
	return &API{
		users:           uc.Users,
		garmin:          uc.Garmin,
		logbook:         uc.Logbook,
		dashboard:       uc.Dashboard,
		exporter:        uc.Exporter,
		dates:           uc.Dates,
		cache:           cache,
		databaseAdapter: dbAdapter,
		logger:          logger,
	}
}

// SetHandlers set the API routes
func (a *API) SetHandlers(prefix string, rtr *mux.Router) {
	a.setHandlers(prefix+"/v1", rtr)

	rtr.HandleFunc("/status", a.getStatus).Methods(http.MethodGet)
}

func (a *API) setHandlers(prefix string, rtr *mux.Router) {
	a.setUserHandlers(prefix, rtr)
	a.setGarminHandlers(prefix, rtr)
	a.setFoodHandlers(prefix, rtr)
	a.setMedicationHandlers(prefix, rtr)
	a.setLogbookHandlers(prefix, rtr)
	a.setNotesHandlers(prefix, rtr)
	a.setDashboardHandlers(prefix, rtr)
	a.setExportHandlers(prefix, rtr)
	rtr.PathPrefix(prefix + "/").Handler(a.middlewareV1(a.getNotFound))
}

func (a *API) getNotFound(ctx context.Context, res *common.HttpResponseWriter) error {
	e := errorNoRoute
	return res.WriteError(&e)
}

// @Summary Get the api status
// @Description Get the api status
// @ID health-tracker-api-getstatus
// @Produce json
// @Success 200 {object} status.ApiStatus
// @Failure 500 {object} status.ApiStatus
// @Router /status [get]
func (a *API) getStatus(res http.ResponseWriter, req *http.Request) {
	start := time.Now()
	var s status.ApiStatus
	if err := a.databaseAdapter.Ping(); err != nil {
		errorLog := errorStatusCheck.SetInternalMessage(err)
		a.logError(&errorLog, start)
		s = status.NewApiStatus(errorLog.Status, err.Error())
	} else {
		s = status.NewApiStatus(http.StatusOK, "OK")
	}
	if jsonDetails, err := json.Marshal(s); err != nil {
		a.jsonError(res, errorLoadingJSON.SetInternalMessage(err), start)
	} else {
		res.Header().Add("content-type", "application/json")
		res.WriteHeader(s.Status.Code)
		res.Write(jsonDetails)
	}
}

// log error detail and write as application/json
func (a *API) jsonError(res http.ResponseWriter, err common.DetailedError, startedAt time.Time) {
	a.logError(&err, startedAt)
	jsonErr, _ := json.Marshal(err)

	res.Header().Add("content-type", "application/json")
	res.WriteHeader(err.Status)
	res.Write(jsonErr)
}

func (a *API) logError(err *common.DetailedError, startedAt time.Time) {
	err.ID = uuid.New().String()
	a.logger.Error("request_failed",
		zap.String("trace_id", err.ID),
		zap.String("code", err.Code),
		zap.Float64("duration_s", time.Since(startedAt).Seconds()),
		zap.String("message", err.Message),
		zap.String("internal", err.InternalMessage),
	)
}
