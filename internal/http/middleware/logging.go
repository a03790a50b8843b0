package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/rogerio-castellano/financial-planner-server/internal/log"
)

// RequestLogger puts a request-scoped logger in the context and logs every
// completed request. 4xx responses log at warn, 5xx at error.
func RequestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	httpLogger := logger.WithComponent(log.ComponentHTTP)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			clientIP := ClientIP(r)

			reqLogger := httpLogger
			if id := chimw.GetReqID(r.Context()); id != "" {
				reqLogger = reqLogger.With(log.FieldRequestID, id)
			}
			ctx := log.NewContext(r.Context(), reqLogger)

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			fields := log.NewFields().
				WithHTTPRequest(r.Method, r.URL.Path, r.UserAgent(), clientIP).
				WithHTTPResponse(status, time.Since(start).Milliseconds())
			reqLogger.Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
		})
	}
}
