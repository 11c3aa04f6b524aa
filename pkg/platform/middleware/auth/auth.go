package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	request "apotheca/pkg/platform/middleware/request"
)

// IdentityResolver turns the raw Authorization header value into a verified
// identity. It is the single choke point: no handler below this middleware
// ever sees a raw token.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, bearerHeaderValue string) (Identity, error)
}

// Identity is the canonical authenticated caller: the provider uid, the
// email the token was issued for, and the role embedded at login time.
type Identity struct {
	UID   string
	Email string
	Role  string
}

type contextKeyIdentity struct{}

// ContextKeyIdentity is exported for use in handlers and test helpers.
var ContextKeyIdentity = contextKeyIdentity{}

// GetIdentity retrieves the authenticated identity from the context. The
// second return is false on unauthenticated requests.
func GetIdentity(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(ContextKeyIdentity).(Identity)
	return ident, ok
}

// writeJSONError writes a JSON error response with the given status code and
// error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth resolves the bearer credential on every request and stores the
// resulting identity in the context. Requests without a resolvable identity
// are rejected with a generic 401; the underlying cause is only logged.
func RequireAuth(resolver IdentityResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			ident, err := resolver.ResolveIdentity(ctx, authHeader)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, ContextKeyIdentity, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
