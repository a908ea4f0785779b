package goals

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListGoals(ctx context.Context, ownerID string) ([]SavingsGoal, error) {
	return s.store.ListGoals(ctx, ownerID)
}

func (s *Service) GetGoal(ctx context.Context, ownerID, goalID string) (SavingsGoal, error) {
	return s.store.GetGoal(ctx, ownerID, goalID)
}

func (s *Service) CreateGoal(ctx context.Context, g SavingsGoal) (SavingsGoal, error) {
	if err := validateGoal(g); err != nil {
		return SavingsGoal{}, err
	}
	return s.store.CreateGoal(ctx, g)
}

func (s *Service) UpdateGoal(ctx context.Context, g SavingsGoal) (SavingsGoal, error) {
	if err := validateGoal(g); err != nil {
		return SavingsGoal{}, err
	}
	if !g.Status.Valid() {
		return SavingsGoal{}, fmt.Errorf("%w: unknown status %q", ErrInvalidGoal, g.Status)
	}
	return s.store.UpdateGoal(ctx, g)
}

func (s *Service) ListRules(ctx context.Context, ownerID string) ([]FundingRule, error) {
	return s.store.ListRules(ctx, ownerID)
}

func (s *Service) CreateRule(ctx context.Context, r FundingRule) (FundingRule, error) {
	if err := validateRule(r); err != nil {
		return FundingRule{}, err
	}
	if _, err := s.store.GetGoal(ctx, r.OwnerID, r.GoalID); err != nil {
		return FundingRule{}, err
	}
	return s.store.CreateRule(ctx, r)
}

func (s *Service) UpdateRule(ctx context.Context, r FundingRule) (FundingRule, error) {
	if err := validateRule(r); err != nil {
		return FundingRule{}, err
	}
	return s.store.UpdateRule(ctx, r)
}

func (s *Service) DeleteRule(ctx context.Context, ownerID, ruleID string) error {
	return s.store.DeleteRule(ctx, ownerID, ruleID)
}

// ApplyIncome runs every active income rule against an income amount and
// funds the matching goals. Returns the allocations that were applied.
func (s *Service) ApplyIncome(ctx context.Context, ownerID string, income decimal.Decimal) ([]Allocation, error) {
	rules, err := s.store.ListRules(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	goalList, err := s.store.ListGoals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	goalByID := make(map[string]SavingsGoal, len(goalList))
	for _, g := range goalList {
		goalByID[g.ID] = g
	}

	allocations := AllocateFunding(rules, goalByID, income)
	for _, alloc := range allocations {
		if _, err := s.store.AddFunding(ctx, ownerID, alloc.GoalID, alloc.Amount); err != nil {
			return nil, fmt.Errorf("fund goal %s: %w", alloc.GoalID, err)
		}
	}
	return allocations, nil
}

func validateGoal(g SavingsGoal) error {
	if strings.TrimSpace(g.OwnerID) == "" || strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: owner and name are required", ErrInvalidGoal)
	}
	if !g.TargetAmount.IsPositive() {
		return fmt.Errorf("%w: target amount must be positive", ErrInvalidGoal)
	}
	return nil
}

func validateRule(r FundingRule) error {
	if strings.TrimSpace(r.OwnerID) == "" || strings.TrimSpace(r.GoalID) == "" {
		return fmt.Errorf("%w: owner and goal are required", ErrInvalidRule)
	}
	if !r.Trigger.Valid() {
		return fmt.Errorf("%w: unknown trigger %q", ErrInvalidRule, r.Trigger)
	}
	if !r.AllocationType.Valid() {
		return fmt.Errorf("%w: unknown allocation type %q", ErrInvalidRule, r.AllocationType)
	}
	if r.AllocationValue.IsNegative() || r.AllocationValue.IsZero() {
		return fmt.Errorf("%w: allocation value must be positive", ErrInvalidRule)
	}
	if r.AllocationType == AllocationPercentage && r.AllocationValue.GreaterThan(hundred) {
		return fmt.Errorf("%w: percentage cannot exceed 100", ErrInvalidRule)
	}
	return nil
}
