package goals

import (
	"context"

	"github.com/shopspring/decimal"
)

type StoreAPI interface {
	ListGoals(ctx context.Context, ownerID string) ([]SavingsGoal, error)
	GetGoal(ctx context.Context, ownerID, goalID string) (SavingsGoal, error)
	CreateGoal(ctx context.Context, g SavingsGoal) (SavingsGoal, error)
	UpdateGoal(ctx context.Context, g SavingsGoal) (SavingsGoal, error)

	ListRules(ctx context.Context, ownerID string) ([]FundingRule, error)
	CreateRule(ctx context.Context, r FundingRule) (FundingRule, error)
	UpdateRule(ctx context.Context, r FundingRule) (FundingRule, error)
	DeleteRule(ctx context.Context, ownerID, ruleID string) error

	// AddFunding increments funded_amount and flips status to reached when the
	// target is met. Returns the updated goal.
	AddFunding(ctx context.Context, ownerID, goalID string, amount decimal.Decimal) (SavingsGoal, error)
}
