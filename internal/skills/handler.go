package skills

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/skillswap/backend/internal/api"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/validation"
)

type AddUserSkillRequest struct {
	SkillID          string `json:"skill_id"`
	SkillType        string `json:"skill_type"`
	ProficiencyLevel string `json:"proficiency_level"`
	HourlyCreditRate *int   `json:"hourly_credit_rate"`
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

// GET /api/skills
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.repo.List(r.Context(), q.Get("category"), q.Get("search"))
	if err != nil {
		h.log.Error("list skills failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load skills")
		return
	}
	api.OK(w, http.StatusOK, list, "")
}

// GET /api/skills/{id}/teachers
func (h *Handler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	skillID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "Skill not found")
		return
	}
	list, err := h.repo.ListTeachers(r.Context(), skillID)
	if err != nil {
		h.log.Error("list teachers failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load teachers")
		return
	}
	api.OK(w, http.StatusOK, list, "")
}

// GET /api/users/{id}/skills
func (h *Handler) ListUserSkills(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "User not found")
		return
	}
	list, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		h.log.Error("list user skills failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to load skills")
		return
	}
	api.OK(w, http.StatusOK, list, "")
}

// POST /api/users/{id}/skills
func (h *Handler) AddUserSkill(w http.ResponseWriter, r *http.Request) {
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
	body, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Failed to read body")
		return
	}
	if err := h.validator.Validate(validation.SchemaAddUserSkill, body); err != nil {
		api.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	var req AddUserSkillRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "Invalid skill_id")
		return
	}
	if req.SkillType == models.SkillTypeTeach && req.HourlyCreditRate == nil {
		api.Fail(w, http.StatusBadRequest, "hourly_credit_rate is required for teach listings")
		return
	}

	us := &models.UserSkill{
		UserID:           userID,
		SkillID:          skillID,
		SkillType:        req.SkillType,
		ProficiencyLevel: req.ProficiencyLevel,
		HourlyCreditRate: req.HourlyCreditRate,
	}
	if err := h.repo.AddUserSkill(r.Context(), us); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			api.Fail(w, http.StatusBadRequest, "Skill already listed")
			return
		}
		h.log.Error("add user skill failed", "error", err)
		api.Fail(w, http.StatusInternalServerError, "Failed to add skill")
		return
	}
	api.OK(w, http.StatusOK, us, "Skill added successfully")
}
