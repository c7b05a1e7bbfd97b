package api

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/mdblp/health-tracker/common"
	"github.com/mdblp/health-tracker/schema"
)

var errorReadExport = common.DetailedError{Status: http.StatusInternalServerError, Code: "export_read_error", Message: "internal server error"}

func (a *API) setExportHandlers(prefix string, rtr *mux.Router) {
	rtr.HandleFunc(prefix+"/export/", a.middlewareV1(a.exportData)).Methods(http.MethodPost)
	rtr.HandleFunc(prefix+"/export/download/{filename}", a.middlewareV1(a.downloadExport)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/export/summary", a.middlewareV1(a.getAnalysis)).Methods(http.MethodGet)
	rtr.HandleFunc(prefix+"/export/ai-prompt", a.middlewareV1(a.getAIPrompt)).Methods(http.MethodGet)
}

// exportData
// @Summary Export the health data of a date range.
// @Description Write the selected data as json, csv, parquet or xlsx in the export directory.
// Multi file formats are zipped. When a bucket is configured the artifact is uploaded too.
// @ID health-tracker-export
// @Accept json
// @Produce json
// @Success 200 {object} schema.ExportResponse
// @Failure 400 {object} common.DetailedError
// @Failure 500 {object} common.DetailedError
// @Router /v1/export/ [post]
func (a *API) exportData(ctx context.Context, res *common.HttpResponseWriter) error {
	var req schema.ExportRequest
	if derr := decodeBody(res, &req); derr != nil {
		return res.WriteError(derr)
	}
	result, derr := a.exporter.Export(ctx, &req)
	return writeResult(res, http.StatusOK, result, derr)
}

// @Summary Download an export artifact
// @ID health-tracker-export-download
// @Produce octet-stream
// @Param filename path string true "file name returned by the export"
// @Success 200
// @Failure 404 {object} common.DetailedError
// @Router /v1/export/download/{filename} [get]
func (a *API) downloadExport(ctx context.Context, res *common.HttpResponseWriter) error {
	filename := res.VARS["filename"]
	path, derr := a.exporter.DownloadPath(filename)
	if derr != nil {
		return res.WriteError(derr)
	}
	common.TimeIt(ctx, "readExport")
	content, err := os.ReadFile(path)
	common.TimeEnd(ctx, "readExport")
	if err != nil {
		return res.WriteError(errorReadExport.Wrap(err))
	}
	res.ContentType = "application/octet-stream"
	res.Disposition = fmt.Sprintf("attachment; filename=%q", filename)
	return res.Write(content)
}

// getAnalysis the range defaults to the last 30 days
func (a *API) getAnalysis(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, listLookbackDays)
	if derr != nil {
		return res.WriteError(derr)
	}
	summary, derr := a.dashboard.Analysis(ctx, dates)
	return writeResult(res, http.StatusOK, summary, derr)
}

func (a *API) getAIPrompt(ctx context.Context, res *common.HttpResponseWriter) error {
	dates, derr := a.queryDates(res, listLookbackDays)
	if derr != nil {
		return res.WriteError(derr)
	}
	prompt, derr := a.dashboard.AIPrompt(ctx, dates)
	return writeResult(res, http.StatusOK, prompt, derr)
}
