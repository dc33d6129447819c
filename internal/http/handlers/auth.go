package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hongminglow/vault-auth/internal/auth"
	"github.com/hongminglow/vault-auth/internal/http/respond"
	"github.com/hongminglow/vault-auth/internal/middleware"
	"github.com/hongminglow/vault-auth/internal/models"
	"github.com/hongminglow/vault-auth/internal/models/dto"
)

const maxBodyBytes = 1 << 20

// AuthService is the core the handlers delegate to.
type AuthService interface {
	Register(ctx context.Context, username, loginPassword, withdrawPassword string) (models.Profile, error)
	Login(ctx context.Context, username, password string) (string, error)
	VerifyToken(token string) (models.Identity, error)
	Profile(ctx context.Context, username string) (models.Profile, error)
}

// AuthHandler owns the register, login and profile endpoints.
type AuthHandler struct {
	svc    AuthService
	logger *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc AuthService, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{svc: svc, logger: logger}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/register", h.handleRegister)
	mux.HandleFunc("/api/login", h.handleLogin)
	mux.Handle("/api/profile", middleware.RequireAuth(h.svc, http.HandlerFunc(h.handleProfile)))
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.RegisterRequest
	if !decode(w, r, &req) {
		return
	}

	profile, err := h.svc.Register(r.Context(), req.Username, req.LoginPassword, req.WithdrawPassword)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, "User created successfully", dto.RegisterResponse{Username: profile.Username})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req dto.LoginRequest
	if !decode(w, r, &req) {
		return
	}

	token, err := h.svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{Token: token})
}

func (h *AuthHandler) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respond.Fail(w, auth.ErrNoToken)
		return
	}

	profile, err := h.svc.Profile(r.Context(), identity.Username)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, "profile", dto.ProfileResponse{Profile: profile})
}

// writeError answers with the status of err's kind and logs anything that
// ends up as a 500.
func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if respond.Fail(w, err) == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}
