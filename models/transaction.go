package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	DepositTransaction    TransactionType = "deposit"
	WithdrawalTransaction TransactionType = "withdrawal"
	EntryFeeTransaction   TransactionType = "entry_fee"
	RefundTransaction     TransactionType = "refund"
	PayoutTransaction     TransactionType = "payout"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

// Transaction is one entry in the append-only wallet ledger. Amount is signed:
// deposits, refunds and payouts are positive, entry fees and withdrawals
// negative. The user's cached Balance must always equal the sum of their
// completed transaction amounts.
type Transaction struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserID      uint              `gorm:"index" json:"userID"`
	Type        TransactionType   `json:"type"`
	Amount      decimal.Decimal   `gorm:"type:numeric" json:"amount"`
	Status      TransactionStatus `json:"status"`
	BoardID     *uint             `json:"boardId,omitempty"`
	Reference   string            `gorm:"uniqueIndex" json:"reference"` // idempotency key
	Description string            `json:"description"`
	Currency    string            `json:"currency"`
	CreatedAt   time.Time         `json:"timestamp"`
}
