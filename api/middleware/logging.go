package middleware

import (
	"net/http"
	"time"

	"github.com/closetly/closetly-backend/pkg/logger"
)

// statusWriter remembers the status code a handler wrote so the logging and
// metrics middleware can report it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

func (sw *statusWriter) statusOrOK() int {
	if sw.status == 0 {
		return http.StatusOK
	}
	return sw.status
}

// Logging emits a start and completion line per request with method, path,
// status, and duration; the request id comes along via the context logger.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if logg == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			logg.Info(ctx, "request.start")

			sw := &statusWriter{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(sw, r.WithContext(ctx))

			ctx = logg.WithFields(ctx, map[string]any{
				"status":      sw.statusOrOK(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			logg.Info(ctx, "request.complete")
		})
	}
}
