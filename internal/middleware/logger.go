package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// RequestRecorder receives one observation per served request.
type RequestRecorder interface {
	RecordHTTPRequest(method string, statusCode int, elapsed time.Duration)
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Logger logs every request and forwards its outcome to rec when set.
func Logger(l zerolog.Logger, rec RequestRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)
			elapsed := time.Since(start)
			if rec != nil {
				rec.RecordHTTPRequest(r.Method, rw.status, elapsed)
			}
			l.Info().
				Str("request_id", RequestIDFromContext(r.Context())).
				Msgf("%s %s %d %s", r.Method, r.URL.Path, rw.status, elapsed)
		})
	}
}
