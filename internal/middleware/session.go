package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/grocerhq/storefront/internal/session"
	"github.com/grocerhq/storefront/internal/store"
)

// SessionHeader carries the client's session identifier.
const SessionHeader = "X-Session-ID"

type sessionCtxKey struct{}

// Session resolves the X-Session-ID header into a live store and puts
// it on the request context. Requests without a valid session are
// rejected before reaching the handler.
func Session(manager *session.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				http.Error(w, "Bad Request: session ID required", http.StatusBadRequest)
				return
			}

			s, err := manager.Get(id)
			if err != nil {
				if errors.Is(err, session.ErrSessionNotFound) {
					http.Error(w, "Not Found: unknown session", http.StatusNotFound)
					return
				}
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), sessionCtxKey{}, s)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StoreFrom returns the session store placed on the context by Session.
// It is nil on requests that did not pass through the middleware.
func StoreFrom(ctx context.Context) *store.Store {
	s, _ := ctx.Value(sessionCtxKey{}).(*store.Store)
	return s
}
