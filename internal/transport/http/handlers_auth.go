package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/asaskevich/govalidator"
	"github.com/go-chi/chi/v5"

	"apotheca/internal/auth"
	"apotheca/internal/transport/http/shared"
	dErrors "apotheca/pkg/domain-errors"
	"apotheca/pkg/platform/middleware/request"
)

//go:generate mockgen -source=handlers_auth.go -destination=mocks/auth_service.go -package=mocks

// AuthService is the credential and token gateway as seen by transport.
type AuthService interface {
	Register(ctx context.Context, req auth.RegisterRequest) (auth.MessageResponse, error)
	Login(ctx context.Context, creds auth.Credentials) (auth.AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) auth.MessageResponse
	ResetPassword(ctx context.Context, token, newPassword string) (auth.MessageResponse, error)
}

type AuthHandler struct {
	auth   AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)
	r.Post("/auth/forgot-password", h.handleForgotPassword)
	r.Post("/auth/reset-password", h.handleResetPassword)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req auth.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := validateRegisterRequest(req); err != nil {
		shared.WriteError(w, err)
		return
	}

	resp, err := h.auth.Register(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "registration rejected",
			"request_id", request.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var creds auth.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.IsEmail(creds.Email) || creds.Password == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "email and password are required"))
		return
	}

	resp, err := h.auth.Login(ctx, creds)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if !govalidator.IsEmail(req.Email) {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid email"))
		return
	}

	resp := h.auth.ForgotPassword(r.Context(), req.Email)
	shared.WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Token == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "token is required"))
		return
	}
	if !govalidator.StringLength(req.NewPassword, "6", "128") {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "password must be between 6 and 128 characters"))
		return
	}

	resp, err := h.auth.ResetPassword(r.Context(), req.Token, req.NewPassword)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, resp)
}

func validateRegisterRequest(req auth.RegisterRequest) error {
	if !govalidator.StringLength(req.Email, "1", "255") || !govalidator.IsEmail(req.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "invalid email")
	}
	if !govalidator.StringLength(req.Password, "6", "128") {
		return dErrors.New(dErrors.CodeInvalidInput, "password must be between 6 and 128 characters")
	}
	if len(req.Name) > 100 {
		return dErrors.New(dErrors.CodeInvalidInput, "name too long")
	}
	return nil
}
