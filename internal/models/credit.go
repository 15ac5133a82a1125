package models

import (
	"time"

	"github.com/google/uuid"
)

// Credit transaction type enums.
const (
	CreditTxPurchase        = "purchase"
	CreditTxEarned          = "earned"
	CreditTxSpent           = "spent"
	CreditTxRefund          = "refund"
	CreditTxBonus           = "bonus"
	CreditTxAdminAdjustment = "admin_adjustment"
)

// CreditTransaction is an append-only ledger entry. Amount is signed:
// negative for spent, positive otherwise. BalanceAfter is the user's
// balance in the same transaction that applied the amount.
type CreditTransaction struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Amount          int        `json:"amount"`
	TransactionType string     `json:"transaction_type"`
	ReferenceType   string     `json:"reference_type,omitempty"`
	ReferenceID     *uuid.UUID `json:"reference_id,omitempty"`
	Description     string     `json:"description,omitempty"`
	BalanceAfter    int        `json:"balance_after"`
	CreatedAt       time.Time  `json:"created_at"`
}
