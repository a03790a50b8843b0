package middleware

import (
	"net"
	"net/http"

	rl "github.com/rogerio-castellano/financial-planner-server/internal/http/rate_limiter"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
)

// RateLimit answers 429 once a client IP exhausts its token bucket.
func RateLimit(visitors *rl.Visitors) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			if !visitors.Allow(ip) {
				log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).
					WarnContext(r.Context(), "rate limit exceeded", log.FieldClientIP, ip, log.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP is the host part of RemoteAddr. Forwarded headers are resolved
// earlier by chi's RealIP middleware.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
