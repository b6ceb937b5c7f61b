package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

// ErrInvalidSession is returned by UserResolver for tokens that fail
// verification or name a user that does not exist. The two cases are not
// distinguished.
var ErrInvalidSession = errors.New("invalid session")

// UserResolver resolves a session cookie's token to a user id.
// Implementations must return ErrInvalidSession (or a wrapped form) for
// unusable tokens.
type UserResolver interface {
	ResolveUserID(ctx context.Context, token string) (int64, error)
}

type SessionAuth struct {
	resolver   UserResolver
	cookieName string
}

func NewSessionAuth(resolver UserResolver, cookieName string) *SessionAuth {
	return &SessionAuth{resolver: resolver, cookieName: cookieName}
}

// Middleware resolves the session cookie into a request-scoped user id.
// /health passes through untouched. Under /auth/ identity is optional: a
// missing cookie means an anonymous request, but a cookie that fails to
// resolve is still rejected. Everywhere else a resolvable cookie is
// required.
func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cleanPath := path.Clean(r.URL.Path)
		if cleanPath == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		optional := strings.HasPrefix(cleanPath, "/auth")

		cookie, err := r.Cookie(a.cookieName)
		if err != nil {
			if optional {
				next.ServeHTTP(w, r)
				return
			}
			writeJSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "session cookie required")
			return
		}

		userID, err := a.resolver.ResolveUserID(r.Context(), cookie.Value)
		if err != nil {
			if errors.Is(err, ErrInvalidSession) {
				writeJSONError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid session")
			} else {
				slog.ErrorContext(r.Context(), "session resolution failed", "error", err)
				writeJSONError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			return
		}

		ctx := SetUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
