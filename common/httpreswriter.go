package common

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

type (
	// HttpResponseWriter used for middleware api functions.
	//
	// Use a string builder, so we can send back a valid error response
	// even if an error occurred after the first write
	//
	// - Uppercase fields are for the handlers functions
	//
	// - Lowercase for the middleware (~private)
	HttpResponseWriter struct {
		URL         *url.URL
		VARS        map[string]string
		TraceID     string
		Method      string
		Header      http.Header
		Body        []byte
		WriteBuffer strings.Builder
		StatusCode  int
		Err         *DetailedError
		Size        int
		// ContentType defaults to application/json
		ContentType string
		// Disposition set the Content-Disposition response header when not empty
		Disposition string
	}
)

func (res *HttpResponseWriter) Grow(n int) {
	if n > 0 { // Avoid Grow panic()
		res.WriteBuffer.Grow(n)
	} else {
		res.Err = &DetailedError{
			Status:          http.StatusInternalServerError,
			Code:            "write_error",
			Message:         "Internal Server Error",
			InternalMessage: "Grow(): invalid size",
			ID:              res.TraceID,
		}
	}
}

func (res *HttpResponseWriter) Write(v []byte) error {
	size, err := res.WriteBuffer.Write(v)
	res.Size += size
	return err
}

func (res *HttpResponseWriter) WriteString(s string) error {
	size, err := res.WriteBuffer.WriteString(s)
	res.Size += size
	return err
}

// WriteJSON marshal v as the response body
func (res *HttpResponseWriter) WriteJSON(statusCode int, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return res.WriteError(&DetailedError{
			Status:          http.StatusInternalServerError,
			Code:            "json_marshal_error",
			Message:         "internal server error",
			InternalMessage: err.Error(),
		})
	}
	res.WriteHeader(statusCode)
	return res.Write(body)
}

// DecodeBody unmarshal the request body into v
func (res *HttpResponseWriter) DecodeBody(v interface{}) error {
	if len(res.Body) == 0 {
		return json.Unmarshal([]byte("{}"), v)
	}
	return json.Unmarshal(res.Body, v)
}

// WriteError final writing to the response
func (res *HttpResponseWriter) WriteError(err *DetailedError) error {
	if err == nil {
		err = &DetailedError{
			Status:          http.StatusInternalServerError,
			Code:            "unknown_error",
			Message:         "Unknown error",
			InternalMessage: "WriteError() with nil error",
		}
	}

	res.Err = err
	res.Err.ID = res.TraceID

	// Discard the previous content write, so we ends up with
	// a valid json returned to the client
	res.WriteBuffer.Reset()
	res.Size = 0
	res.ContentType = ""
	res.Disposition = ""

	jsonErr, _ := json.Marshal(err)
	res.WriteHeader(err.Status)
	return res.Write(jsonErr)
}

func (res *HttpResponseWriter) WriteHeader(statusCode int) {
	res.StatusCode = statusCode
}

// Query shortcut on the request query values
func (res *HttpResponseWriter) Query() url.Values {
	if res.URL == nil {
		return url.Values{}
	}
	return res.URL.Query()
}

// Failed true when the handler wrote an error or a non 2xx status
func (res *HttpResponseWriter) Failed() bool {
	return res.Err != nil || res.StatusCode >= http.StatusBadRequest
}

// IsMutation true for methods which change the stored data
func (res *HttpResponseWriter) IsMutation() bool {
	return strings.EqualFold(res.Method, http.MethodPost) ||
		strings.EqualFold(res.Method, http.MethodPut) ||
		strings.EqualFold(res.Method, http.MethodDelete)
}
