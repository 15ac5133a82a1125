package users

import (
	"context"
	"errors"

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

const userColumns = `id, email, password_hash, name, COALESCE(bio, ''), COALESCE(avatar_url, ''), role,
	credit_balance, is_premium, is_admin, is_active, language_preference, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Bio, &u.AvatarURL, &u.Role,
		&u.CreditBalance, &u.IsPremium, &u.IsAdmin, &u.IsActive, &u.LanguagePreference, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user or nil when no row exists.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// GetProfile returns an active user together with the aggregates shown on
// the public profile. Ratings are computed on read, never stored.
func (r *Repository) GetProfile(ctx context.Context, id uuid.UUID) (*models.User, *models.UserStats, error) {
	var u models.User
	var stats models.UserStats
	err := r.pool.QueryRow(ctx, `
		SELECT u.id, u.email, u.name, COALESCE(u.bio, ''), COALESCE(u.avatar_url, ''), u.role,
			u.credit_balance, u.is_premium, u.is_admin, u.is_active, u.language_preference, u.last_login, u.created_at, u.updated_at,
			(SELECT COUNT(*) FROM sessions WHERE teacher_id = u.id AND status = 'completed'),
			(SELECT COUNT(*) FROM sessions WHERE learner_id = u.id AND status = 'completed'),
			(SELECT ROUND(AVG(rating)::numeric, 1) FROM reviews WHERE reviewee_id = u.id),
			(SELECT COUNT(*) FROM reviews WHERE reviewee_id = u.id),
			(SELECT COUNT(*) FROM user_badges WHERE user_id = u.id)
		FROM users u
		WHERE u.id = $1 AND u.is_active = TRUE
	`, id).Scan(&u.ID, &u.Email, &u.Name, &u.Bio, &u.AvatarURL, &u.Role,
		&u.CreditBalance, &u.IsPremium, &u.IsAdmin, &u.IsActive, &u.LanguagePreference, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
		&stats.SessionsTaught, &stats.SessionsLearned, &stats.AverageRating, &stats.TotalReviews, &stats.BadgesEarned)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &u, &stats, nil
}

// UpdateProfile applies a partial update. Nil fields keep their value.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, name, bio, avatarURL, languagePreference *string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
			bio = COALESCE($3, bio),
			avatar_url = COALESCE($4, avatar_url),
			language_preference = COALESCE($5, language_preference),
			updated_at = now()
		WHERE id = $1
	`, id, name, bio, avatarURL, languagePreference)
	return err
}
