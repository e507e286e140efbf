package middlewares

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestRecorder observes served requests.
type RequestRecorder interface {
	ObserveHTTPRequest(method, route string, status int, elapsed time.Duration)
}

// RequestID reuses the caller's X-Request-ID or assigns a new UUID, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), RequestIDContextKey, id)))
	})
}

// RequestIDFromContext returns the id assigned by RequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

// RequestObserver logs every request once and records it by chi route pattern.
type RequestObserver struct {
	recorder RequestRecorder
	logger   *slog.Logger
	now      func() time.Time
}

func NewRequestObserver(recorder RequestRecorder, logger *slog.Logger) *RequestObserver {
	return &RequestObserver{recorder: recorder, logger: logger, now: time.Now}
}

func (o *RequestObserver) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := o.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := o.now().Sub(start)
		route := routePattern(r)

		o.recorder.ObserveHTTPRequest(r.Method, route, status, elapsed)
		o.logger.InfoContext(
			r.Context(),
			"http_request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// routePattern keeps metric labels bounded: unmatched paths collapse to one value.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
