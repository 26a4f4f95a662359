package middleware

import (
	"context"
	"net/http"

	"github.com/plarkin/chatline/internal/auth"
)

type contextKey string

const UsernameKey contextKey = "username"

// Auth resolves the session cookie to a username and injects it into the
// request context. Everything behind it operates on that principal only.
func Auth(sessions auth.Sessions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(auth.CookieName)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			username, ok := sessions.Lookup(cookie.Value)
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username returns the authenticated principal set by Auth, or "" when the
// request never passed through it.
func Username(r *http.Request) string {
	if v, ok := r.Context().Value(UsernameKey).(string); ok {
		return v
	}
	return ""
}
