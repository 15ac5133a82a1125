package skills

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// List returns active catalog skills, optionally filtered by category and a
// name/description search term.
func (r *Repository) List(ctx context.Context, category, search string) ([]*models.Skill, error) {
	sql := `SELECT id, name, category, COALESCE(description, ''), COALESCE(icon, ''), is_active, created_at
		FROM skills WHERE is_active = TRUE`
	var args []any
	if category != "" {
		args = append(args, category)
		sql += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		sql += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	sql += " ORDER BY name"

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Skill
	for rows.Next() {
		var s models.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.Icon, &s.IsActive, &s.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Teacher is a teach listing joined with the teacher's public profile and
// rating aggregates.
type Teacher struct {
	UserID           uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Bio              string    `json:"bio,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	IsPremium        bool      `json:"is_premium"`
	ProficiencyLevel string    `json:"proficiency_level,omitempty"`
	HourlyCreditRate int       `json:"hourly_credit_rate"`
	AverageRating    *float64  `json:"average_rating,omitempty"`
	TotalSessions    int       `json:"total_sessions"`
}

// ListTeachers returns active teachers for the skill, best rated first.
func (r *Repository) ListTeachers(ctx context.Context, skillID uuid.UUID) ([]*Teacher, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.name, COALESCE(u.bio, ''), COALESCE(u.avatar_url, ''), u.is_premium,
			COALESCE(us.proficiency_level, ''), us.hourly_credit_rate,
			(SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE reviewee_id = u.id) AS average_rating,
			(SELECT COUNT(*) FROM sessions WHERE teacher_id = u.id AND status = 'completed') AS total_sessions
		FROM user_skills us
		JOIN users u ON us.user_id = u.id
		WHERE us.skill_id = $1 AND us.skill_type = 'teach' AND u.is_active = TRUE
		ORDER BY average_rating DESC NULLS LAST, total_sessions DESC
	`, skillID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*Teacher
	for rows.Next() {
		var t Teacher
		if err := rows.Scan(&t.UserID, &t.Name, &t.Bio, &t.AvatarURL, &t.IsPremium,
			&t.ProficiencyLevel, &t.HourlyCreditRate, &t.AverageRating, &t.TotalSessions); err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// ListByUser returns all of a user's skill listings with catalog fields.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.UserSkill, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT us.id, us.user_id, us.skill_id, us.skill_type, COALESCE(us.proficiency_level, ''),
			us.hourly_credit_rate, us.created_at, s.name, s.category, COALESCE(s.icon, '')
		FROM user_skills us
		JOIN skills s ON us.skill_id = s.id
		WHERE us.user_id = $1
		ORDER BY us.skill_type, s.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.UserSkill
	for rows.Next() {
		var us models.UserSkill
		if err := rows.Scan(&us.ID, &us.UserID, &us.SkillID, &us.SkillType, &us.ProficiencyLevel,
			&us.HourlyCreditRate, &us.CreatedAt, &us.SkillName, &us.SkillCategory, &us.SkillIcon); err != nil {
			return nil, err
		}
		list = append(list, &us)
	}
	return list, rows.Err()
}

// AddUserSkill inserts a listing. The (user_id, skill_id, skill_type)
// unique constraint rejects duplicates.
func (r *Repository) AddUserSkill(ctx context.Context, us *models.UserSkill) error {
	if us.ID == uuid.Nil {
		us.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO user_skills (id, user_id, skill_id, skill_type, proficiency_level, hourly_credit_rate)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		RETURNING created_at
	`, us.ID, us.UserID, us.SkillID, us.SkillType, us.ProficiencyLevel, us.HourlyCreditRate).Scan(&us.CreatedAt)
}
