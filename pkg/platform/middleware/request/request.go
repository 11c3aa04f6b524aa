// Package request carries per-request metadata through the context: a
// correlation ID assigned at the edge and echoed in logs and responses.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKeyRequestID struct{}

// HeaderRequestID is the inbound/outbound correlation header.
const HeaderRequestID = "X-Request-Id"

// GetRequestID retrieves the request ID from the context, or "" when the
// middleware did not run.
func GetRequestID(ctx context.Context) string {
	id, ok := ctx.Value(contextKeyRequestID{}).(string)
	if !ok {
		return ""
	}
	return id
}

// WithRequestID returns a context carrying the given request ID. Exposed for
// tests and background workers that fabricate their own correlation IDs.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID{}, id)
}

// RequestID assigns a request ID to every inbound request, honoring one
// supplied by an upstream proxy, and echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(WithRequestID(r.Context(), id)))
	})
}
