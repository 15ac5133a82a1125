package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/middleware"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handler struct {
	svc Service
	log *slog.Logger
}

func NewHandler(svc Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		api.Fail(w, http.StatusBadRequest, "Email, password, and name are required")
		return
	}
	user, token, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			api.Fail(w, http.StatusBadRequest, "Invalid email format")
		case errors.Is(err, ErrPasswordTooShort):
			api.Fail(w, http.StatusBadRequest, "Password must be at least 6 characters")
		case errors.Is(err, ErrDuplicateEmail):
			api.Fail(w, http.StatusBadRequest, "Email already registered")
		case errors.Is(err, ErrInvalidRole):
			api.Fail(w, http.StatusBadRequest, "Invalid role")
		default:
			h.log.Error("register failed", "error", err)
			api.Fail(w, http.StatusInternalServerError, "Registration failed")
		}
		return
	}
	api.OK(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	}, "Registration successful!")
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		api.Fail(w, http.StatusBadRequest, "Email and password are required")
		return
	}
	user, token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("login failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Login failed")
		return
	}
	api.OK(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	}, "")
}

// GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	api.OK(w, http.StatusOK, user, "")
}
