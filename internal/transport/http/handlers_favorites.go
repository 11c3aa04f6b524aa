package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"apotheca/internal/transport/http/shared"
	dErrors "apotheca/pkg/domain-errors"
	authmw "apotheca/pkg/platform/middleware/auth"
)

// FavoritesService mutates the caller's own favorites list. The uid always
// comes from the verified identity in the request context.
type FavoritesService interface {
	Add(ctx context.Context, uid string, ids []string) ([]string, error)
	Remove(ctx context.Context, uid string, ids []string) ([]string, error)
	Get(ctx context.Context, uid string) ([]string, error)
}

type favoritesRequest struct {
	Favorites []string `json:"favorites"`
}

type favoritesResponse struct {
	Favorites []string `json:"favorites"`
}

type FavoritesHandler struct {
	favorites FavoritesService
	logger    *slog.Logger
}

func NewFavoritesHandler(favorites FavoritesService, logger *slog.Logger) *FavoritesHandler {
	return &FavoritesHandler{favorites: favorites, logger: logger}
}

// Register mounts the routes. The caller wraps them in RequireAuth.
func (h *FavoritesHandler) Register(r chi.Router) {
	r.Get("/favorites", h.handleGet)
	r.Post("/favorites", h.handleAdd)
	r.Delete("/favorites", h.handleRemove)
}

func (h *FavoritesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ident, ok := authmw.GetIdentity(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	favorites, err := h.favorites.Get(r.Context(), ident.UID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, favoritesResponse{Favorites: favorites})
}

func (h *FavoritesHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.favorites.Add)
}

func (h *FavoritesHandler) handleRemove(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, h.favorites.Remove)
}

func (h *FavoritesHandler) mutate(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, uid string, ids []string) ([]string, error)) {
	ident, ok := authmw.GetIdentity(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req favoritesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	favorites, err := op(r.Context(), ident.UID, req.Favorites)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, favoritesResponse{Favorites: favorites})
}
