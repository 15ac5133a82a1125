package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/validation"
)

type Notifier interface {
	Insert(ctx context.Context, n *models.Notification) error
}

type CreateReviewRequest struct {
	SessionID string `json:"session_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type Handler struct {
	repo      *Repository
	notifier  Notifier
	validator *validation.Validator
	log       *slog.Logger
}

func NewHandler(repo *Repository, notifier Notifier, validator *validation.Validator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repo: repo, notifier: notifier, validator: validator, log: log}
}

// POST /api/reviews
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller := middleware.UserFromCtx(r.Context())
	if caller == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if err := h.validator.Validate(validation.SchemaCreateReview, body); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var req CreateReviewRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid session_id")
		return
	}

	sess, err := h.repo.GetCompleted(r.Context(), sessionID)
	if err != nil {
		h.log.Error("load session for review failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create review")
		return
	}
	if sess == nil {
		api.Fail(w, http.StatusNotFound, "Session not found or not completed")
		return
	}

	var revieweeID uuid.UUID
	switch caller.ID {
	case sess.TeacherID:
		revieweeID = sess.LearnerID
	case sess.LearnerID:
		revieweeID = sess.TeacherID
	default:
		api.Fail(w, http.StatusNotFound, "Session not found or not completed")
		return
	}

	rev := &models.Review{
		SessionID:  sessionID,
		ReviewerID: caller.ID,
		RevieweeID: revieweeID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := h.repo.Create(r.Context(), rev); err != nil {
		h.log.Error("create review failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to create review")
		return
	}

	n := &models.Notification{
		UserID:        revieweeID,
		Title:         "New Review Received",
		Message:       fmt.Sprintf("You received a %d-star review", req.Rating),
		Type:          models.NotificationTypeReview,
		ReferenceType: "review",
		ReferenceID:   &rev.ID,
	}
	if err := h.notifier.Insert(r.Context(), n); err != nil {
		h.log.Error("review notification failed", "review_id", rev.ID, "error", err)
	}

	api.OK(w, http.StatusOK, rev, "Review submitted successfully!")
}

// GET /api/users/{id}/reviews
func (h *Handler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	list, err := h.repo.ListByReviewee(r.Context(), userID)
	if err != nil {
		h.log.Error("list reviews failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load reviews")
		return
	}
	api.OK(w, http.StatusOK, list, "")
}
