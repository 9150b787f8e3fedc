package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/vpetrenko/realhome/internal/common"
	"github.com/vpetrenko/realhome/internal/logging"
	"github.com/vpetrenko/realhome/internal/server/auth"
)

// AccessTokenCookie is the session cookie name.
const AccessTokenCookie = "access_token"

type contextKey string

const userIDKey contextKey = "userID"

// UserIDFromContext returns the authenticated user id set by requireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// requireAuth verifies the session cookie and injects the user id into the
// request context.
func requireAuth(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AccessTokenCookie)
		if err != nil {
			writeError(w, common.ErrorUnauthorized)
			return
		}

		userID, err := auth.GetUserIDFromToken(cookie.Value, secret)
		if err != nil {
			writeError(w, common.ErrInvalidToken)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// withLogging records each request with its duration.
func withLogging(logger logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}
