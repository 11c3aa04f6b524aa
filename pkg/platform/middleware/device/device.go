// Package device derives a coarse device summary from the User-Agent header
// so audit events can record what kind of client performed an identity
// action. No fingerprinting; just browser and OS names.
package device

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mssola/useragent"
)

type contextKeyDevice struct{}

// FromContext retrieves the device summary, or "" when the middleware did
// not run.
func FromContext(ctx context.Context) string {
	d, ok := ctx.Value(contextKeyDevice{}).(string)
	if !ok {
		return ""
	}
	return d
}

// WithDevice returns a context carrying the given device summary.
func WithDevice(ctx context.Context, summary string) context.Context {
	return context.WithValue(ctx, contextKeyDevice{}, summary)
}

// Summarize parses a User-Agent value into "Browser version on OS".
func Summarize(uaHeader string) string {
	if uaHeader == "" {
		return "unknown"
	}
	ua := useragent.New(uaHeader)
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	os := ua.OS()
	if os == "" {
		return fmt.Sprintf("%s %s", name, version)
	}
	return fmt.Sprintf("%s %s on %s", name, version, os)
}

// Collect stores the request's device summary in the context.
func Collect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithDevice(r.Context(), Summarize(r.UserAgent()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
