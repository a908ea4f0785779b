package goals

import (
	"time"

	"github.com/shopspring/decimal"
)

type SavingsGoal struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"ownerId"`
	Name         string          `json:"name"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	FundedAmount decimal.Decimal `json:"fundedAmount"`
	TargetDate   *time.Time      `json:"targetDate,omitempty"`
	Status       GoalStatus      `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Remaining is how much is still missing to reach the target. Never negative.
func (g SavingsGoal) Remaining() decimal.Decimal {
	r := g.TargetAmount.Sub(g.FundedAmount)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

type FundingRule struct {
	ID              string          `json:"id"`
	GoalID          string          `json:"goalId"`
	OwnerID         string          `json:"ownerId"`
	Trigger         Trigger         `json:"trigger"`
	AllocationType  AllocationType  `json:"allocationType"`
	AllocationValue decimal.Decimal `json:"allocationValue"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Allocation is the outcome of evaluating one funding rule against an income amount.
type Allocation struct {
	GoalID string          `json:"goalId"`
	RuleID string          `json:"ruleId"`
	Amount decimal.Decimal `json:"amount"`
}
