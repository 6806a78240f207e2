package log

import (
	"net"
	"net/http"
	"time"

	"log/slog"
)

// statusRecorder captures the response status for the completion log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestMiddleware tags every request with a generated request ID and
// logs its start and completion with method, path, status and duration.
// 4xx responses log at Warn, 5xx at Error.
func RequestMiddleware(logger *Logger) func(http.Handler) http.Handler {
	httpLogger := logger.WithComponent(ComponentHTTP)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := NewRequestID()
			ctx := WithRequestID(r.Context(), requestID)
			r = r.WithContext(ctx)

			httpLogger.Logger.InfoContext(ctx, "HTTP request started",
				FieldRequestID, requestID,
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
				FieldQuery, r.URL.RawQuery,
				FieldClientIP, clientIP(r),
				FieldUserAgent, r.Header.Get("User-Agent"),
			)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}

			httpLogger.Logger.Log(ctx, level, "HTTP request completed",
				FieldRequestID, requestID,
				FieldMethod, r.Method,
				FieldPath, r.URL.Path,
				FieldQuery, r.URL.RawQuery,
				FieldStatusCode, rec.status,
				FieldDuration, time.Since(start).Milliseconds(),
				FieldSuccess, rec.status < 400,
			)
		})
	}
}

// clientIP returns the peer address without the port. Forwarding
// headers are not consulted; the server is expected to sit behind a
// trusted listener.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
