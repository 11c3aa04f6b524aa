// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services and never embed business logic; identity flows in exclusively via
// the auth middleware.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authmw "apotheca/pkg/platform/middleware/auth"
	"apotheca/pkg/platform/middleware/device"
	"apotheca/pkg/platform/middleware/logging"
	"apotheca/pkg/platform/middleware/request"
)

const requestTimeout = 30 * time.Second

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth       *AuthHandler
	Favorites  *FavoritesHandler
	Comments   *CommentsHandler
	Pharmacies *PharmaciesHandler
	Resolver   authmw.IdentityResolver
	Logger     *slog.Logger
}

// NewRouter wires all endpoints. Reads on the pharmacy directory are public;
// every mutation of user-owned state sits behind RequireAuth.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(request.RequestID)
	r.Use(device.Collect)
	r.Use(logging.AccessLog(h.Logger))
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/health", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(public chi.Router) {
		h.Auth.Register(public)
		h.Pharmacies.RegisterPublic(public)
		h.Comments.RegisterPublic(public)
	})

	r.Group(func(protected chi.Router) {
		protected.Use(authmw.RequireAuth(h.Resolver, h.Logger))
		h.Favorites.Register(protected)
		h.Comments.RegisterProtected(protected)
		h.Pharmacies.RegisterProtected(protected)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
