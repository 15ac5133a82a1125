package content

import (
	"context"
	"fmt"
	"strconv"

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

const contentColumns = `
	c.id, c.creator_id, c.skill_id, c.title, COALESCE(c.description, ''),
	c.content_type, c.content_url, COALESCE(c.thumbnail_url, ''),
	c.duration_minutes, COALESCE(c.difficulty_level, ''), c.is_premium,
	c.view_count, c.is_approved, c.created_at,
	u.name, COALESCE(u.avatar_url, ''), s.name, COALESCE(s.icon, '')`

func scanContent(row pgx.Row) (*models.LearningContent, error) {
	var c models.LearningContent
	err := row.Scan(
		&c.ID, &c.CreatorID, &c.SkillID, &c.Title, &c.Description,
		&c.ContentType, &c.ContentURL, &c.ThumbnailURL,
		&c.DurationMinutes, &c.DifficultyLevel, &c.IsPremium,
		&c.ViewCount, &c.IsApproved, &c.CreatedAt,
		&c.CreatorName, &c.CreatorAvatar, &c.SkillName, &c.SkillIcon,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListApproved returns approved content with optional skill and difficulty
// filters, newest first, alongside the total matching count.
func (r *Repository) ListApproved(ctx context.Context, skillID *uuid.UUID, difficulty string, limit, offset int) ([]*models.LearningContent, int, error) {
	where := "WHERE c.is_approved = TRUE"
	args := []any{}
	idx := 1
	if skillID != nil {
		where += " AND c.skill_id = $" + strconv.Itoa(idx)
		args = append(args, *skillID)
		idx++
	}
	if difficulty != "" {
		where += " AND c.difficulty_level = $" + strconv.Itoa(idx)
		args = append(args, difficulty)
		idx++
	}

	var total int
	countQ := "SELECT COUNT(*) FROM learning_content c " + where
	if err := r.pool.QueryRow(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count content: %w", err)
	}

	q := fmt.Sprintf(`
		SELECT %s
		FROM learning_content c
		JOIN users u ON u.id = c.creator_id
		JOIN skills s ON s.id = c.skill_id
		%s
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d`, contentColumns, where, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}
	defer rows.Close()

	var list []*models.LearningContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan content: %w", err)
		}
		list = append(list, c)
	}
	return list, total, rows.Err()
}

// Get returns one content item and bumps its view counter. Nil when absent.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.LearningContent, error) {
	c, err := scanContent(r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s
		FROM learning_content c
		JOIN users u ON u.id = c.creator_id
		JOIN skills s ON s.id = c.skill_id
		WHERE c.id = $1`, contentColumns), id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get content: %w", err)
	}
	if _, err := r.pool.Exec(ctx, `
		UPDATE learning_content SET view_count = view_count + 1 WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("bump view count: %w", err)
	}
	c.ViewCount++
	return c, nil
}

func (r *Repository) Create(ctx context.Context, c *models.LearningContent) error {
	c.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO learning_content
			(id, creator_id, skill_id, title, description, content_type, content_url,
			 thumbnail_url, duration_minutes, difficulty_level, is_premium, is_approved)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9, NULLIF($10, ''), $11, FALSE)
		RETURNING created_at`,
		c.ID, c.CreatorID, c.SkillID, c.Title, c.Description, c.ContentType,
		c.ContentURL, c.ThumbnailURL, c.DurationMinutes, c.DifficultyLevel, c.IsPremium,
	).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	return nil
}

// ListPending returns unapproved content, oldest first, for moderation.
func (r *Repository) ListPending(ctx context.Context) ([]*models.LearningContent, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM learning_content c
		JOIN users u ON u.id = c.creator_id
		JOIN skills s ON s.id = c.skill_id
		WHERE c.is_approved = FALSE
		ORDER BY c.created_at ASC`, contentColumns))
	if err != nil {
		return nil, fmt.Errorf("list pending content: %w", err)
	}
	defer rows.Close()

	var list []*models.LearningContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// SetApproved approves a pending item. Returns false when no row matched.
func (r *Repository) SetApproved(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE learning_content SET is_approved = TRUE WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("approve content: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a rejected item. Returns false when no row matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM learning_content WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete content: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Recommended returns the most viewed approved content for the dashboard.
func (r *Repository) Recommended(ctx context.Context, limit int) ([]*models.LearningContent, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT %s
		FROM learning_content c
		JOIN users u ON u.id = c.creator_id
		JOIN skills s ON s.id = c.skill_id
		WHERE c.is_approved = TRUE
		ORDER BY c.view_count DESC, c.created_at DESC
		LIMIT $1`, contentColumns), limit)
	if err != nil {
		return nil, fmt.Errorf("recommended content: %w", err)
	}
	defer rows.Close()

	var list []*models.LearningContent
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
