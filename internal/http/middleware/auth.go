package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rogerio-castellano/financial-planner-server/internal/auth"
	"github.com/rogerio-castellano/financial-planner-server/internal/log"
)

type contextKey string

const userIDKey = contextKey("user_id")

// Auth rejects requests without a valid bearer token and stores the token
// subject in the request context.
func Auth(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := auth.BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			userID, err := verifier.ParseToken(tokenStr)
			if err != nil {
				log.FromContext(r.Context()).WithComponent(log.ComponentAuth).
					DebugContext(r.Context(), "token rejected", log.FieldError, err.Error())
				writeError(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
				return
			}

			ctx := WithUserID(r.Context(), userID)
			ctx = log.NewContext(ctx, log.FromContext(ctx).With(log.FieldUserID, userID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserID returns the authenticated user id, or "" outside Auth.
func GetUserID(r *http.Request) string {
	if val, ok := r.Context().Value(userIDKey).(string); ok {
		return val
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
