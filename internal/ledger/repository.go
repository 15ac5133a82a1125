package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skillswap/backend/internal/models"
)

var errInsufficientCredits = errors.New("insufficient credits")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Begin(ctx context.Context) (pgx.Tx, error) {
	return r.pool.Begin(ctx)
}

// DeductCredits atomically deducts amount from the user if balance >= amount.
// Returns errInsufficientCredits when the conditional update matches no row.
func (r *Repository) DeductCredits(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (newBalance int, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE users SET credit_balance = credit_balance - $1, updated_at = now()
		WHERE id = $2 AND credit_balance >= $1
		RETURNING credit_balance
	`, amount, userID).Scan(&newBalance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, errInsufficientCredits
	}
	return newBalance, err
}

// AddCredits adds amount to the user's balance and returns the new balance.
func (r *Repository) AddCredits(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (newBalance int, err error) {
	err = tx.QueryRow(ctx, `
		UPDATE users SET credit_balance = credit_balance + $1, updated_at = now()
		WHERE id = $2
		RETURNING credit_balance
	`, amount, userID).Scan(&newBalance)
	return newBalance, err
}

// InsertEntry appends a ledger row inside the given transaction.
func (r *Repository) InsertEntry(ctx context.Context, tx pgx.Tx, c *models.CreditTransaction) error {
	return tx.QueryRow(ctx, `
		INSERT INTO credit_transactions (id, user_id, amount, transaction_type, reference_type, reference_id, description, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, c.ID, c.UserID, c.Amount, c.TransactionType, c.ReferenceType, c.ReferenceID, c.Description, c.BalanceAfter).Scan(&c.CreatedAt)
}

// ListByUser returns the user's most recent ledger entries, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*models.CreditTransaction, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, amount, transaction_type, reference_type, reference_id, description, balance_after, created_at
		FROM credit_transactions WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []*models.CreditTransaction
	for rows.Next() {
		var c models.CreditTransaction
		if err := rows.Scan(&c.ID, &c.UserID, &c.Amount, &c.TransactionType, &c.ReferenceType, &c.ReferenceID, &c.Description, &c.BalanceAfter, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
