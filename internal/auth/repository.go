package auth

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

func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// CreateUser inserts a new user inside the given transaction. The welcome
// balance is written here so the paired bonus ledger entry commits with it.
func (r *Repository) CreateUser(ctx context.Context, tx pgx.Tx, email, passwordHash, name, role string) (*models.User, error) {
	u := &models.User{
		ID:                 uuid.New(),
		Email:              email,
		PasswordHash:       passwordHash,
		Name:               name,
		Role:               role,
		CreditBalance:      0,
		IsActive:           true,
		LanguagePreference: "en",
	}
	err := tx.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, credit_balance, is_active, language_preference)
		VALUES ($1, $2, $3, $4, $5, 0, TRUE, $6)
		RETURNING created_at, updated_at
	`, u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.LanguagePreference).Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetActiveByEmail returns the active user with the given email, or nil.
func (r *Repository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, name, COALESCE(bio, ''), COALESCE(avatar_url, ''), role, credit_balance,
			is_premium, is_admin, is_active, language_preference, last_login, created_at, updated_at
		FROM users WHERE email = $1 AND is_active = TRUE
	`, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Bio, &u.AvatarURL, &u.Role, &u.CreditBalance,
		&u.IsPremium, &u.IsAdmin, &u.IsActive, &u.LanguagePreference, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = now() WHERE id = $1`, id)
	return err
}
