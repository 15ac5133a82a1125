package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/skillswap/backend/internal/models"
)

// ErrInsufficientCredits is returned when a conditional debit finds the
// balance below the requested amount.
var ErrInsufficientCredits = errInsufficientCredits

// Store is the minimal persistence interface the ledger service needs.
type Store interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	DeductCredits(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (int, error)
	AddCredits(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int) (int, error)
	InsertEntry(ctx context.Context, tx pgx.Tx, c *models.CreditTransaction) error
}

// Service moves credits. Every balance mutation and its ledger row run in
// one transaction, so users.credit_balance always equals the sum of the
// user's credit_transactions.amount.
type Service interface {
	Spend(ctx context.Context, tx pgx.Tx, userID, sessionID uuid.UUID, amount int, description string) error
	Earn(ctx context.Context, tx pgx.Tx, userID, sessionID uuid.UUID, amount int, description string) error
	Refund(ctx context.Context, tx pgx.Tx, userID, sessionID uuid.UUID, amount int, description string) error
	Bonus(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int, description string) error
	Purchase(ctx context.Context, userID uuid.UUID, amount int) (newBalance int, err error)
}

type service struct {
	store Store
}

func NewService(store Store) Service {
	return &service{store: store}
}

var _ Service = (*service)(nil)

// Spend conditionally debits the user and appends a 'spent' entry with the
// post-debit balance. Returns ErrInsufficientCredits without writing
// anything if the balance is too low.
func (s *service) Spend(ctx context.Context, tx pgx.Tx, userID, sessionID uuid.UUID, amount int, description string) error {
	newBalance, err := s.store.DeductCredits(ctx, tx, userID, amount)
	if err != nil {
		return err
	}
	return s.store.InsertEntry(ctx, tx, &models.CreditTransaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          -amount,
		TransactionType: models.CreditTxSpent,
		ReferenceType:   "session",
		ReferenceID:     &sessionID,
		Description:     description,
		BalanceAfter:    newBalance,
	})
}

// Earn credits the user and appends an 'earned' entry.
func (s *service) Earn(ctx context.Context, tx pgx.Tx, userID, sessionID uuid.UUID, amount int, description string) error {
	newBalance, err := s.store.AddCredits(ctx, tx, userID, amount)
	if err != nil {
		return err
	}
	return s.store.InsertEntry(ctx, tx, &models.CreditTransaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          amount,
		TransactionType: models.CreditTxEarned,
		ReferenceType:   "session",
		ReferenceID:     &sessionID,
		Description:     description,
		BalanceAfter:    newBalance,
	})
}

// Refund returns previously spent credits to the user.
func (s *service) Refund(ctx context.Context, tx pgx.Tx, userID, sessionID uuid.UUID, amount int, description string) error {
	newBalance, err := s.store.AddCredits(ctx, tx, userID, amount)
	if err != nil {
		return err
	}
	return s.store.InsertEntry(ctx, tx, &models.CreditTransaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          amount,
		TransactionType: models.CreditTxRefund,
		ReferenceType:   "session",
		ReferenceID:     &sessionID,
		Description:     description,
		BalanceAfter:    newBalance,
	})
}

// Bonus grants credits with no session reference (welcome bonus).
// Runs inside the caller's transaction.
func (s *service) Bonus(ctx context.Context, tx pgx.Tx, userID uuid.UUID, amount int, description string) error {
	newBalance, err := s.store.AddCredits(ctx, tx, userID, amount)
	if err != nil {
		return err
	}
	return s.store.InsertEntry(ctx, tx, &models.CreditTransaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          amount,
		TransactionType: models.CreditTxBonus,
		Description:     description,
		BalanceAfter:    newBalance,
	})
}

// Purchase tops up the user's balance in its own transaction and returns
// the new balance. Payment verification is out of scope: the caller-supplied
// amount is trusted (payment gateway placeholder).
func (s *service) Purchase(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	tx, err := s.store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)
	newBalance, err := s.store.AddCredits(ctx, tx, userID, amount)
	if err != nil {
		return 0, err
	}
	err = s.store.InsertEntry(ctx, tx, &models.CreditTransaction{
		ID:              uuid.New(),
		UserID:          userID,
		Amount:          amount,
		TransactionType: models.CreditTxPurchase,
		Description:     "Purchased credits",
		BalanceAfter:    newBalance,
	})
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return newBalance, nil
}
