package network

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"

	"boscoin.io/agora/lib/metrics"
	"boscoin.io/agora/lib/network/httputils"
)

// VerboseLogs also prints the stack trace when a handler panics.
var VerboseLogs bool

func RecoverMiddleware(logger logging.Logger) mux.MiddlewareFunc {
	if logger == nil {
		logger = log
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("panic: %v", rec)
					}
					httputils.WriteJSONError(w, err)
					logger.Error("recover an panic", "err", err)
					if VerboseLogs {
						debug.PrintStack()
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware tags the response with a `X-Request-Id` header so that
// client reports can be matched with the server logs. The id of the request
// is reused when the client already set one.
func RequestIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-Id")
			if len(id) < 1 {
				id = uuid.New().String()
			}
			w.Header().Set("X-Request-Id", id)
			next.ServeHTTP(w, r)
		})
	}
}

// statusResponseWriter remembers the status code written by the handler. It
// keeps `http.Flusher` working so that event stream handlers are unaffected.
type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// MetricsMiddleware measures every request with the route template as the
// `endpoint` label. Streaming requests are observed when the client goes away.
func MetricsMiddleware(apiMetrics *metrics.APIMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			begin := time.Now()

			endpoint := r.URL.Path
			if route := mux.CurrentRoute(r); route != nil {
				if tpl, err := route.GetPathTemplate(); err == nil {
					endpoint = tpl
				}
			}

			sw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			status := strconv.Itoa(sw.status)
			apiMetrics.RequestsTotal.With("endpoint", endpoint, "method", r.Method, "status", status).Add(1)
			if sw.status >= http.StatusBadRequest {
				apiMetrics.RequestErrorsTotal.With("endpoint", endpoint, "method", r.Method, "status", status).Add(1)
			}
			apiMetrics.RequestDurationSeconds.With("endpoint", endpoint, "method", r.Method, "status", status).Observe(time.Since(begin).Seconds())
		})
	}
}
