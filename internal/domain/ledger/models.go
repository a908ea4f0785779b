package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"ownerId"`
	Name           string          `json:"name"`
	Kind           string          `json:"kind"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"`
	IsArchived     bool            `json:"isArchived"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// Transaction amounts are signed: income positive, spending negative.
type Transaction struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"accountId"`
	OwnerID    string          `json:"ownerId"`
	Amount     decimal.Decimal `json:"amount"`
	Category   string          `json:"category"`
	Memo       string          `json:"memo,omitempty"`
	OccurredOn time.Time       `json:"occurredOn"`
	CreatedAt  time.Time       `json:"createdAt"`
}

type TransactionFilter struct {
	AccountID string
	Category  string
	From      time.Time
	To        time.Time
	Limit     int
	Offset    int
}

type MonthlyCashflow struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Net     decimal.Decimal `json:"net"`
}
