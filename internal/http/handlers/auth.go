package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imtiaz478/Sellora-full/internal/auth"
	"github.com/imtiaz478/Sellora-full/internal/http/respond"
	"github.com/imtiaz478/Sellora-full/internal/models"
	"github.com/imtiaz478/Sellora-full/internal/models/dto"
)

// AuthService is the subset of auth.Service the handlers depend on.
type AuthService interface {
	Register(ctx context.Context, username, email, password string) (models.User, error)
	Login(ctx context.Context, email, password string) (auth.IssuedToken, error)
	Logout(ctx context.Context, id auth.Identity) error
}

// AuthHandler owns the register, login and logout endpoints.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Routes attaches auth routes. Logout sits behind requireAuth.
func (h *AuthHandler) Routes(r chi.Router, requireAuth func(http.Handler) http.Handler) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.With(requireAuth).Post("/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info("user registered", "user_id", user.ID)
	respond.JSON(w, http.StatusCreated, dto.RegisterResponse{
		Message: "User registered successfully",
		UserID:  user.ID,
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, h.logger, err)
		return
	}

	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.LoginResponse{Token: token.Value, ExpiresAt: token.ExpiresAt})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, auth.ErrUnauthorized)
		return
	}
	if err := h.svc.Logout(r.Context(), id); err != nil {
		writeError(w, h.logger, err)
		return
	}
	respond.Message(w, http.StatusOK, "Logged out successfully")
}
