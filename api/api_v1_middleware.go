package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mdblp/health-tracker/common"
)

// HandlerLoggerFunc expose our httpResponseWriter API
type HandlerLoggerFunc func(context.Context, *common.HttpResponseWriter) error

const (
	traceHeader  = "x-tidepool-trace-session"
	maxBodyBytes = 4 << 20
)

var errorReadBody = common.DetailedError{Status: http.StatusBadRequest, Code: "invalid_body", Message: "the request body could not be read"}

// middlewareV1 middleware to log received requests
func (a *API) middlewareV1(fn HandlerLoggerFunc) http.HandlerFunc {
	// The mux handler func:
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now().UTC()

		// It is recommended by go to get the request information before writing
		// So get theses now
		fields := make([]zap.Field, 0, 12)
		fields = append(fields,
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("method", r.Method),
			zap.String("url", r.URL.String()),
		)

		traceID := r.Header.Get(traceHeader)
		if !common.IsValidUUID(traceID) {
			// We want a trace id, but we do not enforce it
			if traceID != "" {
				fields = append(fields, zap.String("no_trace", traceID))
			}
			traceID = uuid.New().String()
		}

		// Make our context
		ctx := common.WithTraceID(common.TimeItContext(r.Context()), traceID)

		res := common.HttpResponseWriter{
			Header:     r.Header.Clone(), // Clone the header, to be sure
			URL:        r.URL,
			VARS:       mux.Vars(r),
			TraceID:    traceID,
			Method:     r.Method,
			StatusCode: http.StatusOK, // Default status
			Err:        nil,
		}

		if r.Body != nil {
			body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				res.WriteError(errorReadBody.Wrap(err))
			}
			res.Body = body
		}

		// Mainteners: No read from the request below this point!

		if res.Err == nil {
			if err := fn(ctx, &res); err != nil {
				fields = append(fields, zap.NamedError("efn", err))
			}
		}

		if res.IsMutation() && !res.Failed() {
			if err := a.cache.Flush(ctx); err != nil {
				fields = append(fields, zap.NamedError("cache_flush", err))
			}
		}

		contentType := res.ContentType
		if contentType == "" {
			contentType = "application/json"
		}
		w.Header().Add("Content-Type", contentType)
		if res.Disposition != "" {
			w.Header().Add("Content-Disposition", res.Disposition)
		}
		w.Header().Add(traceHeader, traceID)
		w.WriteHeader(res.StatusCode)
		if res.StatusCode != http.StatusNoContent {
			if _, err := io.WriteString(w, res.WriteBuffer.String()); err != nil {
				fields = append(fields, zap.NamedError("eww", err))
			}
		}

		// Log errors management
		if res.Err != nil {
			if res.Err.Code != "" {
				fields = append(fields, zap.String("code", res.Err.Code))
			}
			if res.Err.InternalMessage != "" {
				fields = append(fields, zap.String("err", res.Err.InternalMessage))
			}
		}

		dur := time.Now().UTC().Sub(start).Milliseconds()
		if timerResults := common.TimeResults(ctx); len(timerResults) > 0 {
			fields = append(fields, zap.String("timers", fmt.Sprintf("{%s}", timerResults)))
		}
		fields = append(fields,
			zap.String("trace_id", traceID),
			zap.Int("status", res.StatusCode),
			zap.Int64("duration_ms", dur),
			zap.Int("size", res.Size),
		)
		if res.StatusCode >= http.StatusInternalServerError {
			a.logger.Error("request", fields...)
			return
		}
		a.logger.Info("request", fields...)
	}
}
