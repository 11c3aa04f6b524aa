package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"apotheca/internal/pharmacy"
	"apotheca/internal/transport/http/shared"
	dErrors "apotheca/pkg/domain-errors"
	authmw "apotheca/pkg/platform/middleware/auth"
)

// PharmacyService serves the directory listing and admin-only creation.
type PharmacyService interface {
	List(ctx context.Context) ([]pharmacy.Pharmacy, error)
	Get(ctx context.Context, id string) (pharmacy.Pharmacy, error)
	Create(ctx context.Context, role string, p pharmacy.Pharmacy) (pharmacy.Pharmacy, error)
}

type createPharmacyRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type PharmaciesHandler struct {
	pharmacies PharmacyService
	logger     *slog.Logger
}

func NewPharmaciesHandler(pharmacies PharmacyService, logger *slog.Logger) *PharmaciesHandler {
	return &PharmaciesHandler{pharmacies: pharmacies, logger: logger}
}

func (h *PharmaciesHandler) RegisterPublic(r chi.Router) {
	r.Get("/pharmacies", h.handleList)
	r.Get("/pharmacies/{pharmacyID}", h.handleGet)
}

func (h *PharmaciesHandler) RegisterProtected(r chi.Router) {
	r.Post("/pharmacies", h.handleCreate)
}

func (h *PharmaciesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.pharmacies.List(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

func (h *PharmaciesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	p, err := h.pharmacies.Get(r.Context(), chi.URLParam(r, "pharmacyID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, p)
}

func (h *PharmaciesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := authmw.GetIdentity(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req createPharmacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.pharmacies.Create(r.Context(), ident.Role, pharmacy.Pharmacy{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}
