package content

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/validation"
)

type CreateContentRequest struct {
	SkillID         string `json:"skill_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ContentType     string `json:"content_type"`
	ContentURL      string `json:"content_url"`
	ThumbnailURL    string `json:"thumbnail_url"`
	DurationMinutes *int   `json:"duration_minutes"`
	DifficultyLevel string `json:"difficulty_level"`
	IsPremium       bool   `json:"is_premium"`
}

type ModerateContentRequest struct {
	Action string `json:"action"`
}

type Handler struct {
	repo      *Repository
	validator *validation.Validator
	log       *slog.Logger
}

func NewHandler(repo *Repository, validator *validation.Validator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{repo: repo, validator: validator, log: log}
}

// GET /api/content
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := intQuery(q.Get("page"), 1)
	limit := intQuery(q.Get("limit"), 12)
	if limit > 50 {
		limit = 50
	}

	var skillID *uuid.UUID
	if raw := q.Get("skill_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "Invalid skill_id")
			return
		}
		skillID = &id
	}

	list, total, err := h.repo.ListApproved(r.Context(), skillID, q.Get("difficulty"), limit, (page-1)*limit)
	if err != nil {
		h.log.Error("list content failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load content")
		return
	}
	api.OKPage(w, list, api.NewPagination(page, limit, total))
}

// GET /api/content/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "Content not found")
		return
	}
	c, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.log.Error("get content failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load content")
		return
	}
	if c == nil {
		api.Fail(w, http.StatusNotFound, "Content not found")
		return
	}
	api.OK(w, http.StatusOK, c, "")
}

// POST /api/content
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
	if err := h.validator.Validate(validation.SchemaCreateContent, body); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var req CreateContentRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid skill_id")
		return
	}

	c := &models.LearningContent{
		CreatorID:       caller.ID,
		SkillID:         skillID,
		Title:           req.Title,
		Description:     req.Description,
		ContentType:     req.ContentType,
		ContentURL:      req.ContentURL,
		ThumbnailURL:    req.ThumbnailURL,
		DurationMinutes: req.DurationMinutes,
		DifficultyLevel: req.DifficultyLevel,
		IsPremium:       req.IsPremium,
	}
	if err := h.repo.Create(r.Context(), c); err != nil {
		h.log.Error("create content failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to submit content")
		return
	}
	api.OK(w, http.StatusOK, c, "Content submitted for review")
}

// GET /api/admin/content/pending
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	list, err := h.repo.ListPending(r.Context())
	if err != nil {
		h.log.Error("list pending content failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load content")
		return
	}
	api.OK(w, http.StatusOK, list, "")
}

// PATCH /api/admin/content/{id}
func (h *Handler) Moderate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "Content not found")
		return
	}
	var req ModerateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	var (
		ok  bool
		msg string
	)
	switch req.Action {
	case "approve":
		ok, err = h.repo.SetApproved(r.Context(), id)
		msg = "Content approved"
	case "reject":
		ok, err = h.repo.Delete(r.Context(), id)
		msg = "Content rejected"
	default:
		api.Fail(w, http.StatusBadRequest, "Action must be approve or reject")
		return
	}
	if err != nil {
		h.log.Error("moderate content failed", "content_id", id, "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to update content")
		return
	}
	if !ok {
		api.Fail(w, http.StatusNotFound, "Content not found")
		return
	}
	api.OK(w, http.StatusOK, nil, msg)
}

func intQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
