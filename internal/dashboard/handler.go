package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/models"
)

const (
	upcomingLimit     = 5
	transactionsLimit = 5
	recommendedLimit  = 6
)

type TransactionLister interface {
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CreditTransaction, error)
}

type ContentRecommender interface {
	Recommended(ctx context.Context, limit int) ([]*models.LearningContent, error)
}

type Handler struct {
	repo         *Repository
	transactions TransactionLister
	content      ContentRecommender
	log          *slog.Logger
}

func NewHandler(repo *Repository, transactions TransactionLister, content ContentRecommender, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repo: repo, transactions: transactions, content: content, log: log}
}

// GET /api/dashboard
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if caller == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	ctx := r.Context()

	upcoming, err := h.repo.UpcomingSessions(ctx, caller.ID, upcomingLimit)
	if err != nil {
		h.log.Error("dashboard upcoming sessions failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	recent, err := h.transactions.ListByUser(ctx, caller.ID, transactionsLimit)
	if err != nil {
		h.log.Error("dashboard transactions failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	recommended, err := h.content.Recommended(ctx, recommendedLimit)
	if err != nil {
		h.log.Error("dashboard recommended content failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	stats, err := h.repo.Stats(ctx, caller.ID)
	if err != nil {
		h.log.Error("dashboard stats failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	api.OK(w, http.StatusOK, map[string]any{
		"user":                caller,
		"upcoming_sessions":   upcoming,
		"recent_transactions": recent,
		"recommended_content": recommended,
		"stats":               stats,
	}, "")
}

// GET /api/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		api.Fail(w, http.StatusBadRequest, "Search query required")
		return
	}
	res, err := h.repo.Search(r.Context(), q, r.URL.Query().Get("type"))
	if err != nil {
		h.log.Error("search failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Search failed")
		return
	}
	api.OK(w, http.StatusOK, res, "")
}
