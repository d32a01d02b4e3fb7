package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/cloo-solutions/jobfinder/internal/api"
)

type contextKey string

const BearerTokenKey contextKey = "bearer_token"

// RequireBearer rejects requests without a "Bearer <token>" Authorization
// header. The token is not validated here; the backend does that.
func RequireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			api.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			api.Error(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), BearerTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HasBearer reports whether RequireBearer accepted the request.
func HasBearer(ctx context.Context) bool {
	token, _ := ctx.Value(BearerTokenKey).(string)
	return token != ""
}
