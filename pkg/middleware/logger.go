package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// NewStructuredLogger returns a chi middleware that logs one structured line
// per request. Server errors are logged at error level; everything else,
// including client errors, at info.
func NewStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			start := time.Now()
			defer func() {
				status := ww.Status()

				attrs := []any{
					slog.Group("request",
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("remote_addr", r.RemoteAddr),
					),
					slog.Group("response",
						slog.Int("status", status),
						slog.Int("bytes", ww.BytesWritten()),
						slog.Duration("elapsed", time.Since(start)),
					),
				}

				if status >= 500 {
					logger.Error("server error", attrs...)
				} else {
					logger.Info("request completed", attrs...)
				}
			}()

			next.ServeHTTP(ww, r)
		}
		return http.HandlerFunc(fn)
	}
}
