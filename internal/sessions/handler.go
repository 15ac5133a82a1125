package sessions

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/ledger"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/validation"
)

type CreateSessionRequest struct {
	TeacherID       string `json:"teacher_id"`
	SkillID         string `json:"skill_id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ScheduledDate   string `json:"scheduled_date"`
	DurationMinutes int    `json:"duration_minutes"`
}

type UpdateSessionRequest struct {
	Status      string  `json:"status"`
	MeetingLink *string `json:"meeting_link"`
	Notes       *string `json:"notes"`
}

type Handler struct {
	svc       Service
	validator *validation.Validator
	log       *slog.Logger
}

func NewHandler(svc Service, validator *validation.Validator, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, validator: validator, log: log}
}

// POST /api/sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if err := h.validator.Validate(validation.SchemaCreateSession, body); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var req CreateSessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	teacherID, err := uuid.Parse(req.TeacherID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid teacher_id")
		return
	}
	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid skill_id")
		return
	}
	scheduled, err := time.Parse(time.RFC3339, req.ScheduledDate)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid scheduled_date")
		return
	}

	sess, err := h.svc.Book(r.Context(), user.ID, BookingInput{
		TeacherID:       teacherID,
		SkillID:         skillID,
		Title:           req.Title,
		Description:     req.Description,
		ScheduledDate:   scheduled,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNoTeachListing):
			api.Fail(w, http.StatusBadRequest, "Teacher does not teach this skill")
		case errors.Is(err, ledger.ErrInsufficientCredits):
			api.Fail(w, http.StatusBadRequest, "Insufficient credits")
		default:
			h.log.Error("create session failed", "error", err)
			api.Fail(w, http.StatusInternalServerError, "Failed to create session")
		}
		return
	}
	api.OK(w, http.StatusOK, map[string]any{
		"session_id":  sess.ID,
		"credit_cost": sess.CreditCost,
	}, "Session request sent successfully!")
}

// PATCH /api/sessions/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "Session not found")
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if err := h.validator.Validate(validation.SchemaUpdateSession, body); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var req UpdateSessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	err = h.svc.Transition(r.Context(), user.ID, sessionID, TransitionInput{
		Status:      req.Status,
		MeetingLink: req.MeetingLink,
		Notes:       req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			api.Fail(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, ErrForbidden):
			api.Fail(w, http.StatusForbidden, "Forbidden")
		case errors.Is(err, ErrInvalidTransition):
			api.Fail(w, http.StatusConflict, "Invalid status transition")
		case errors.Is(err, ledger.ErrInsufficientCredits):
			api.Fail(w, http.StatusBadRequest, "Insufficient credits")
		default:
			h.log.Error("session transition failed", "session_id", sessionID, "error", err)
			api.Fail(w, http.StatusInternalServerError, "Failed to update session")
		}
		return
	}
	api.OK(w, http.StatusOK, nil, "Session updated successfully")
}

// GET /api/sessions/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sessionID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "Session not found")
		return
	}
	sess, err := h.svc.Get(r.Context(), user.ID, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			api.Fail(w, http.StatusNotFound, "Session not found")
		case errors.Is(err, ErrForbidden):
			api.Fail(w, http.StatusForbidden, "Forbidden")
		default:
			h.log.Error("get session failed", "error", err)
			api.Fail(w, http.StatusInternalServerError, "Failed to load session")
		}
		return
	}
	api.OK(w, http.StatusOK, sess, "")
}

// GET /api/sessions
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromCtx(r.Context())
	if user == nil {
		api.Fail(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	q := r.URL.Query()
	page := intQuery(q.Get("page"), 1)
	limit := intQuery(q.Get("limit"), 10)

	list, total, err := h.svc.List(r.Context(), user.ID, q.Get("status"), q.Get("role"), page, limit)
	if err != nil {
		h.log.Error("list sessions failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load sessions")
		return
	}
	api.OKPage(w, list, api.NewPagination(page, limit, total))
}

func intQuery(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
