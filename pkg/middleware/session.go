package middleware

import (
	"context"
	"net/http"

	"github.com/foodfleet/api/pkg/httputil"
)

type sessionIDKey struct{}

// RequireSession rejects requests that do not carry the X-Session-ID header
// and stores the session ID in the request context for handlers.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := r.Header.Get(SessionHeader)
		if sessionID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:    "INVALID_INPUT",
					Message: SessionHeader + " header is required",
				},
			})
			return
		}

		ctx := context.WithValue(r.Context(), sessionIDKey{}, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionID returns the session ID stored by RequireSession, or "" when the
// middleware did not run.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
