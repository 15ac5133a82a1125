package reviews

import (
	"context"
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

// completedSession holds the participants of a completed session.
type completedSession struct {
	TeacherID uuid.UUID
	LearnerID uuid.UUID
}

// GetCompleted returns the session's participants if and only if the session
// exists and is completed. Returns nil when it does not qualify.
func (r *Repository) GetCompleted(ctx context.Context, sessionID uuid.UUID) (*completedSession, error) {
	var s completedSession
	err := r.pool.QueryRow(ctx, `
		SELECT teacher_id, learner_id
		FROM sessions
		WHERE id = $1 AND status = 'completed'`,
		sessionID,
	).Scan(&s.TeacherID, &s.LearnerID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completed session: %w", err)
	}
	return &s, nil
}

func (r *Repository) Create(ctx context.Context, rev *models.Review) error {
	rev.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO reviews (id, session_id, reviewer_id, reviewee_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rev.ID, rev.SessionID, rev.ReviewerID, rev.RevieweeID, rev.Rating, rev.Comment,
	).Scan(&rev.CreatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListByReviewee returns reviews received by a user, newest first, with the
// reviewer's display name and the session title joined in.
func (r *Repository) ListByReviewee(ctx context.Context, userID uuid.UUID) ([]*models.Review, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rv.id, rv.session_id, rv.reviewer_id, rv.reviewee_id, rv.rating,
		       COALESCE(rv.comment, ''), rv.created_at,
		       u.name, COALESCE(u.avatar_url, ''), s.title
		FROM reviews rv
		JOIN users u ON u.id = rv.reviewer_id
		JOIN sessions s ON s.id = rv.session_id
		WHERE rv.reviewee_id = $1
		ORDER BY rv.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var list []*models.Review
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(
			&rv.ID, &rv.SessionID, &rv.ReviewerID, &rv.RevieweeID, &rv.Rating,
			&rv.Comment, &rv.CreatedAt,
			&rv.ReviewerName, &rv.ReviewerAvatar, &rv.SessionTitle,
		); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		list = append(list, &rv)
	}
	return list, rows.Err()
}
