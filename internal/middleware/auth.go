package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/linkstash/linkstash/internal/auth"
)

// Auth returns a middleware that authenticates requests via a Bearer
// session token. On success the principal id is placed on the request
// context; handlers read it with auth.UserIDFromContext.
func Auth(secret []byte, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeAuthError(w, "Missing Authorization header")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeAuthError(w, "Authorization header must be a Bearer token")
				return
			}

			userID, err := auth.VerifyToken(token, secret)
			if err != nil {
				logger.Warn("token verification failed",
					slog.String("request_id", GetRequestID(r.Context())),
					slog.String("remote_addr", r.RemoteAddr),
				)
				writeAuthError(w, "Invalid or expired token")
				return
			}

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"` + message + `"}}`))
}
