package dashboard

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

// Stats are the dashboard counters.
type Stats struct {
	UpcomingSessions  int `json:"upcoming_sessions"`
	CompletedSessions int `json:"completed_sessions"`
	UnreadMessages    int `json:"unread_notifications"`
	SkillsListed      int `json:"skills_listed"`
}

// UpcomingSessions returns the user's next pending or confirmed sessions,
// soonest first.
func (r *Repository) UpcomingSessions(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Session, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT se.id, se.teacher_id, se.learner_id, se.skill_id, se.title,
		       COALESCE(se.description, ''), se.status, se.scheduled_date,
		       se.duration_minutes, se.credit_cost, COALESCE(se.meeting_link, ''),
		       COALESCE(se.notes, ''), se.created_at, se.updated_at,
		       t.name, l.name, sk.name
		FROM sessions se
		JOIN users t ON t.id = se.teacher_id
		JOIN users l ON l.id = se.learner_id
		JOIN skills sk ON sk.id = se.skill_id
		WHERE (se.teacher_id = $1 OR se.learner_id = $1)
		  AND se.status IN ('pending', 'confirmed')
		  AND se.scheduled_date >= NOW()
		ORDER BY se.scheduled_date ASC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("upcoming sessions: %w", err)
	}
	defer rows.Close()

	var list []*models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(
			&s.ID, &s.TeacherID, &s.LearnerID, &s.SkillID, &s.Title,
			&s.Description, &s.Status, &s.ScheduledDate,
			&s.DurationMinutes, &s.CreditCost, &s.MeetingLink,
			&s.Notes, &s.CreatedAt, &s.UpdatedAt,
			&s.TeacherName, &s.LearnerName, &s.SkillName,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Stats gathers the dashboard counters in one round trip.
func (r *Repository) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	var st Stats
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions
			 WHERE (teacher_id = $1 OR learner_id = $1)
			   AND status IN ('pending', 'confirmed')
			   AND scheduled_date >= NOW()),
			(SELECT COUNT(*) FROM sessions
			 WHERE (teacher_id = $1 OR learner_id = $1) AND status = 'completed'),
			(SELECT COUNT(*) FROM notifications
			 WHERE user_id = $1 AND is_read = FALSE),
			(SELECT COUNT(*) FROM user_skills WHERE user_id = $1)`,
		userID,
	).Scan(&st.UpcomingSessions, &st.CompletedSessions, &st.UnreadMessages, &st.SkillsListed)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return &st, nil
}

// SearchResult groups the cross-entity search hits.
type SearchResult struct {
	Skills  []*models.Skill           `json:"skills"`
	Users   []*models.User            `json:"users"`
	Content []*models.LearningContent `json:"content"`
}

const searchLimit = 10

// Search runs a case-insensitive substring search over skills, users, and
// approved content. typeFilter narrows the search to one entity; empty means
// all three.
func (r *Repository) Search(ctx context.Context, query, typeFilter string) (*SearchResult, error) {
	res := &SearchResult{
		Skills:  []*models.Skill{},
		Users:   []*models.User{},
		Content: []*models.LearningContent{},
	}
	pattern := "%" + query + "%"

	if typeFilter == "" || typeFilter == "skills" {
		rows, err := r.pool.Query(ctx, `
			SELECT id, name, category, COALESCE(description, ''), COALESCE(icon, '')
			FROM skills
			WHERE is_active = TRUE AND (name ILIKE $1 OR description ILIKE $1)
			ORDER BY name ASC
			LIMIT $2`, pattern, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search skills: %w", err)
		}
		for rows.Next() {
			var s models.Skill
			if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.Icon); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan skill: %w", err)
			}
			res.Skills = append(res.Skills, &s)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	if typeFilter == "" || typeFilter == "users" {
		rows, err := r.pool.Query(ctx, `
			SELECT id, name, COALESCE(bio, ''), COALESCE(avatar_url, ''), role
			FROM users
			WHERE is_active = TRUE AND (name ILIKE $1 OR bio ILIKE $1)
			ORDER BY name ASC
			LIMIT $2`, pattern, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search users: %w", err)
		}
		for rows.Next() {
			var u models.User
			if err := rows.Scan(&u.ID, &u.Name, &u.Bio, &u.AvatarURL, &u.Role); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan user: %w", err)
			}
			res.Users = append(res.Users, &u)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	if typeFilter == "" || typeFilter == "content" {
		rows, err := r.pool.Query(ctx, `
			SELECT id, creator_id, skill_id, title, COALESCE(description, ''),
			       content_type, content_url, view_count
			FROM learning_content
			WHERE is_approved = TRUE AND (title ILIKE $1 OR description ILIKE $1)
			ORDER BY view_count DESC
			LIMIT $2`, pattern, searchLimit)
		if err != nil {
			return nil, fmt.Errorf("search content: %w", err)
		}
		for rows.Next() {
			var c models.LearningContent
			if err := rows.Scan(&c.ID, &c.CreatorID, &c.SkillID, &c.Title, &c.Description,
				&c.ContentType, &c.ContentURL, &c.ViewCount); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan content: %w", err)
			}
			res.Content = append(res.Content, &c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	return res, nil
}
