package sessions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/backend/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

func (r *Repository) Create(ctx context.Context, s *models.Session) error {
	return r.pool.QueryRow(ctx, `
		INSERT INTO sessions (id, teacher_id, learner_id, skill_id, title, description, status, scheduled_date, duration_minutes, credit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, s.ID, s.TeacherID, s.LearnerID, s.SkillID, s.Title, s.Description, s.Status, s.ScheduledDate, s.DurationMinutes, s.CreditCost).
		Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetForUpdate locks the session row for the duration of the transaction
// so concurrent transitions serialize.
func (r *Repository) GetForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*models.Session, error) {
	var s models.Session
	err := tx.QueryRow(ctx, `
		SELECT id, teacher_id, learner_id, skill_id, title, COALESCE(description, ''), status,
			scheduled_date, duration_minutes, credit_cost, COALESCE(meeting_link, ''), COALESCE(notes, ''),
			created_at, updated_at
		FROM sessions WHERE id = $1 FOR UPDATE
	`, id).Scan(&s.ID, &s.TeacherID, &s.LearnerID, &s.SkillID, &s.Title, &s.Description, &s.Status,
		&s.ScheduledDate, &s.DurationMinutes, &s.CreditCost, &s.MeetingLink, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStatusTx updates the session status and optional fields inside the
// caller's transaction. Nil keeps the existing value.
func (r *Repository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, status string, meetingLink, notes *string) error {
	_, err := tx.Exec(ctx, `
		UPDATE sessions
		SET status = $2, meeting_link = COALESCE($3, meeting_link), notes = COALESCE($4, notes), updated_at = now()
		WHERE id = $1
	`, id, status, meetingLink, notes)
	return err
}

// GetDetail returns a session with participant and skill display fields.
func (r *Repository) GetDetail(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var s models.Session
	err := r.pool.QueryRow(ctx, `
		SELECT s.id, s.teacher_id, s.learner_id, s.skill_id, s.title, COALESCE(s.description, ''), s.status,
			s.scheduled_date, s.duration_minutes, s.credit_cost, COALESCE(s.meeting_link, ''), COALESCE(s.notes, ''),
			s.created_at, s.updated_at,
			t.name, COALESCE(t.avatar_url, ''), l.name, COALESCE(l.avatar_url, ''),
			sk.name, COALESCE(sk.icon, '')
		FROM sessions s
		JOIN users t ON s.teacher_id = t.id
		JOIN users l ON s.learner_id = l.id
		JOIN skills sk ON s.skill_id = sk.id
		WHERE s.id = $1
	`, id).Scan(&s.ID, &s.TeacherID, &s.LearnerID, &s.SkillID, &s.Title, &s.Description, &s.Status,
		&s.ScheduledDate, &s.DurationMinutes, &s.CreditCost, &s.MeetingLink, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt,
		&s.TeacherName, &s.TeacherAvatar, &s.LearnerName, &s.LearnerAvatar,
		&s.SkillName, &s.SkillIcon)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns the user's sessions, newest scheduled first, with optional
// status and role filters, plus the unpaginated total for the envelope.
func (r *Repository) List(ctx context.Context, userID uuid.UUID, status, role string, page, limit int) ([]*models.Session, int, error) {
	where := `WHERE (s.teacher_id = $1 OR s.learner_id = $1)`
	args := []any{userID}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND s.status = $%d", len(args))
	}
	switch role {
	case "teacher":
		where += " AND s.teacher_id = $1"
	case "learner":
		where += " AND s.learner_id = $1"
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sessions s `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, (page-1)*limit)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT s.id, s.teacher_id, s.learner_id, s.skill_id, s.title, COALESCE(s.description, ''), s.status,
			s.scheduled_date, s.duration_minutes, s.credit_cost, COALESCE(s.meeting_link, ''), COALESCE(s.notes, ''),
			s.created_at, s.updated_at,
			t.name, COALESCE(t.avatar_url, ''), l.name, COALESCE(l.avatar_url, ''),
			sk.name, COALESCE(sk.icon, '')
		FROM sessions s
		JOIN users t ON s.teacher_id = t.id
		JOIN users l ON s.learner_id = l.id
		JOIN skills sk ON s.skill_id = sk.id
		%s
		ORDER BY s.scheduled_date DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []*models.Session
	for rows.Next() {
		var s models.Session
		err := rows.Scan(&s.ID, &s.TeacherID, &s.LearnerID, &s.SkillID, &s.Title, &s.Description, &s.Status,
			&s.ScheduledDate, &s.DurationMinutes, &s.CreditCost, &s.MeetingLink, &s.Notes,
			&s.CreatedAt, &s.UpdatedAt,
			&s.TeacherName, &s.TeacherAvatar, &s.LearnerName, &s.LearnerAvatar,
			&s.SkillName, &s.SkillIcon)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, &s)
	}
	return list, total, rows.Err()
}

// TeachRate returns the teacher's hourly credit rate for the skill, or nil
// when no teach listing exists.
func (r *Repository) TeachRate(ctx context.Context, teacherID, skillID uuid.UUID) (*int, error) {
	var rate int
	err := r.pool.QueryRow(ctx, `
		SELECT hourly_credit_rate FROM user_skills
		WHERE user_id = $1 AND skill_id = $2 AND skill_type = 'teach'
	`, teacherID, skillID).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// UserBalance reads the user's current credit balance.
func (r *Repository) UserBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	var balance int
	err := r.pool.QueryRow(ctx, `SELECT credit_balance FROM users WHERE id = $1`, userID).Scan(&balance)
	return balance, err
}
