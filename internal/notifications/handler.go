package notifications

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/middleware"
)

const listLimit = 50

type Handler struct {
	repo *Repository
	log  *slog.Logger
}

func NewHandler(repo *Repository, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repo: repo, log: log}
}

// GET /api/notifications
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if caller == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	list, err := h.repo.ListByUser(r.Context(), caller.ID, listLimit)
	if err != nil {
		h.log.Error("list notifications failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}
	unread, err := h.repo.UnreadCount(r.Context(), caller.ID)
	if err != nil {
		h.log.Error("unread count failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load notifications")
		return
	}
	api.OK(w, http.StatusOK, map[string]any{
		"notifications": list,
		"unread_count":  unread,
	}, "")
}

// PATCH /api/notifications/{id}
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if caller == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "Notification not found")
		return
	}
	ok, err := h.repo.MarkRead(r.Context(), id, caller.ID)
	if err != nil {
		h.log.Error("mark notification read failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	if !ok {
		api.Fail(w, http.StatusNotFound, "Notification not found")
		return
	}
	api.OK(w, http.StatusOK, nil, "Notification marked as read")
}
