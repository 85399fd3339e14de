package logging

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// quietPaths are probed by monitoring and stay out of the request log
var quietPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// LoggingMiddleware logs one structured record per dashboard request
func LoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			logger.Log(r.Context(), levelFor(status), "HTTP request", requestAttrs(r, status, ww.BytesWritten(), time.Since(start))...)
		})
	}
}

func requestAttrs(r *http.Request, status, written int, elapsed time.Duration) []any {
	requestID, ok := r.Context().Value(middleware.RequestIDKey).(string)
	if !ok || requestID == "" {
		requestID = "unknown"
	}

	attrs := []any{
		"request_id", requestID,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if r.URL.RawQuery != "" {
		attrs = append(attrs, "query", r.URL.RawQuery)
	}
	return append(attrs,
		"remote_addr", r.RemoteAddr,
		"status_code", status,
		"bytes_written", written,
		"duration_ms", elapsed.Milliseconds(),
	)
}

// levelFor logs server errors as errors and throttled clients as warnings
func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status == http.StatusTooManyRequests:
		return slog.LevelWarn
	}
	return slog.LevelInfo
}
