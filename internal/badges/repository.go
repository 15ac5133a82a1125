package badges

import (
	"context"

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

func (r *Repository) ListBadges(ctx context.Context) ([]*models.Badge, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(icon, ''), requirement_type, requirement_value, created_at
		FROM badges ORDER BY requirement_value
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.Icon, &b.RequirementType, &b.RequirementValue, &b.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}

// SessionCounts returns the user's completed-session counters used by
// badge requirements.
func (r *Repository) SessionCounts(ctx context.Context, userID uuid.UUID) (taught, learned int, err error) {
	err = r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sessions WHERE teacher_id = $1 AND status = 'completed'),
			(SELECT COUNT(*) FROM sessions WHERE learner_id = $1 AND status = 'completed')
	`, userID).Scan(&taught, &learned)
	return taught, learned, err
}

// Award inserts a user_badges row. Idempotent: a duplicate award is a
// no-op and reported as awarded=false, so River retries stay safe.
func (r *Repository) Award(ctx context.Context, userID, badgeID uuid.UUID) (awarded bool, err error) {
	tag, err := r.pool.Exec(ctx, `
		INSERT INTO user_badges (id, user_id, badge_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, badge_id) DO NOTHING
	`, uuid.New(), userID, badgeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
