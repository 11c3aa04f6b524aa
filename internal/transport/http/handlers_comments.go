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

// CommentsService manages comment subcollections under pharmacies.
type CommentsService interface {
	Create(ctx context.Context, pharmacyID, uid, text string, stars int) (pharmacy.Comment, error)
	List(ctx context.Context, pharmacyID string) ([]pharmacy.Comment, error)
	Delete(ctx context.Context, pharmacyID, commentID, uid string) error
}

type createCommentRequest struct {
	Comment string `json:"comment"`
	Stars   int    `json:"stars"`
}

type CommentsHandler struct {
	comments CommentsService
	logger   *slog.Logger
}

func NewCommentsHandler(comments CommentsService, logger *slog.Logger) *CommentsHandler {
	return &CommentsHandler{comments: comments, logger: logger}
}

// RegisterPublic mounts the read-only routes.
func (h *CommentsHandler) RegisterPublic(r chi.Router) {
	r.Get("/pharmacies/{pharmacyID}/comments", h.handleList)
}

// RegisterProtected mounts the mutating routes. The caller wraps them in
// RequireAuth.
func (h *CommentsHandler) RegisterProtected(r chi.Router) {
	r.Post("/pharmacies/{pharmacyID}/comments", h.handleCreate)
	r.Delete("/pharmacies/{pharmacyID}/comments/{commentID}", h.handleDelete)
}

func (h *CommentsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.comments.List(r.Context(), chi.URLParam(r, "pharmacyID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, list)
}

func (h *CommentsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ident, ok := authmw.GetIdentity(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	created, err := h.comments.Create(r.Context(), chi.URLParam(r, "pharmacyID"), ident.UID, req.Comment, req.Stars)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, created)
}

func (h *CommentsHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ident, ok := authmw.GetIdentity(r.Context())
	if !ok {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	err := h.comments.Delete(r.Context(), chi.URLParam(r, "pharmacyID"), chi.URLParam(r, "commentID"), ident.UID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
