package users

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/models"
)

// TransactionLister exposes the caller's ledger history.
type TransactionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CreditTransaction, error)
}

type Handler struct {
	repo         *Repository
	transactions TransactionLister
	log          *slog.Logger
}

func NewHandler(repo *Repository, transactions TransactionLister, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repo: repo, transactions: transactions, log: log}
}

type profileResponse struct {
	*models.User
	*models.UserStats
}

// GET /api/users/{id}
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	user, stats, err := h.repo.GetProfile(r.Context(), userID)
	if err != nil {
		h.log.Error("get profile failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}
	if user == nil {
		api.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	api.OK(w, http.StatusOK, profileResponse{User: user, UserStats: stats}, "")
}

// PUT /api/users/{id}
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if caller == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	if caller.ID != userID {
		api.Fail(w, http.StatusForbidden, "Forbidden")
		return
	}
	var body struct {
		Name               *string `json:"name"`
		Bio                *string `json:"bio"`
		AvatarURL          *string `json:"avatar_url"`
		LanguagePreference *string `json:"language_preference"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if err := h.repo.UpdateProfile(r.Context(), userID, body.Name, body.Bio, body.AvatarURL, body.LanguagePreference); err != nil {
		h.log.Error("update profile failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}
	api.OK(w, http.StatusOK, nil, "Profile updated successfully")
}

// GET /api/users/{id}/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if caller == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	if caller.ID != userID {
		api.Fail(w, http.StatusForbidden, "Forbidden")
		return
	}
	list, err := h.transactions.ListByUser(r.Context(), userID, 50)
	if err != nil {
		h.log.Error("list transactions failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load transactions")
		return
	}
	api.OK(w, http.StatusOK, list, "")
}
