package goals

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const goalColumns = `id, owner_id, name, target_amount, funded_amount, target_date, status, created_at, updated_at`

func (s *Store) ListGoals(ctx context.Context, ownerID string) ([]SavingsGoal, error) {
	return s.queryGoals(ctx, fmt.Sprintf(
		"SELECT %s FROM savings_goals WHERE owner_id = $1 ORDER BY created_at", goalColumns), ownerID)
}

func (s *Store) GetGoal(ctx context.Context, ownerID, goalID string) (SavingsGoal, error) {
	goals, err := s.queryGoals(ctx, fmt.Sprintf(
		"SELECT %s FROM savings_goals WHERE owner_id = $1 AND id = $2", goalColumns), ownerID, goalID)
	if err != nil {
		return SavingsGoal{}, err
	}
	if len(goals) == 0 {
		return SavingsGoal{}, ErrGoalNotFound
	}
	return goals[0], nil
}

func (s *Store) CreateGoal(ctx context.Context, g SavingsGoal) (SavingsGoal, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO savings_goals (owner_id, name, target_amount, funded_amount, target_date, status)
    VALUES ($1,$2,$3,0,$4,$5)
    RETURNING id, funded_amount, created_at, updated_at
  `, g.OwnerID, g.Name, g.TargetAmount, g.TargetDate, StatusActive).
		Scan(&g.ID, &g.FundedAmount, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return SavingsGoal{}, err
	}
	g.Status = StatusActive
	return g, nil
}

func (s *Store) UpdateGoal(ctx context.Context, g SavingsGoal) (SavingsGoal, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE savings_goals
    SET name = $1, target_amount = $2, target_date = $3, status = $4, updated_at = now()
    WHERE owner_id = $5 AND id = $6
    RETURNING funded_amount, created_at, updated_at
  `, g.Name, g.TargetAmount, g.TargetDate, g.Status, g.OwnerID, g.ID).
		Scan(&g.FundedAmount, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SavingsGoal{}, ErrGoalNotFound
	}
	if err != nil {
		return SavingsGoal{}, err
	}
	return g, nil
}

func (s *Store) AddFunding(ctx context.Context, ownerID, goalID string, amount decimal.Decimal) (SavingsGoal, error) {
	var g SavingsGoal
	err := s.DB.QueryRow(ctx, `
    UPDATE savings_goals
    SET funded_amount = funded_amount + $1,
        status = CASE WHEN funded_amount + $1 >= target_amount THEN 'reached' ELSE status END,
        updated_at = now()
    WHERE owner_id = $2 AND id = $3 AND status = 'active'
    RETURNING `+goalColumns+`
  `, amount, ownerID, goalID).
		Scan(&g.ID, &g.OwnerID, &g.Name, &g.TargetAmount, &g.FundedAmount,
			&g.TargetDate, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := s.GetGoal(ctx, ownerID, goalID); getErr != nil {
			return SavingsGoal{}, getErr
		}
		return SavingsGoal{}, ErrGoalClosed
	}
	if err != nil {
		return SavingsGoal{}, err
	}
	return g, nil
}

func (s *Store) queryGoals(ctx context.Context, query string, args ...any) ([]SavingsGoal, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []SavingsGoal
	for rows.Next() {
		var g SavingsGoal
		if err := rows.Scan(&g.ID, &g.OwnerID, &g.Name, &g.TargetAmount, &g.FundedAmount,
			&g.TargetDate, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

const ruleColumns = `id, goal_id, owner_id, trigger_kind, allocation_type, allocation_value, is_active, created_at`

func (s *Store) ListRules(ctx context.Context, ownerID string) ([]FundingRule, error) {
	rows, err := s.DB.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM goal_funding_rules WHERE owner_id = $1 ORDER BY created_at", ruleColumns), ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []FundingRule
	for rows.Next() {
		var r FundingRule
		if err := rows.Scan(&r.ID, &r.GoalID, &r.OwnerID, &r.Trigger, &r.AllocationType,
			&r.AllocationValue, &r.IsActive, &r.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) CreateRule(ctx context.Context, r FundingRule) (FundingRule, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO goal_funding_rules (goal_id, owner_id, trigger_kind, allocation_type, allocation_value, is_active)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, r.GoalID, r.OwnerID, r.Trigger, r.AllocationType, r.AllocationValue, r.IsActive).
		Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		return FundingRule{}, err
	}
	return r, nil
}

func (s *Store) UpdateRule(ctx context.Context, r FundingRule) (FundingRule, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE goal_funding_rules
    SET trigger_kind = $1, allocation_type = $2, allocation_value = $3, is_active = $4
    WHERE owner_id = $5 AND id = $6
    RETURNING goal_id, created_at
  `, r.Trigger, r.AllocationType, r.AllocationValue, r.IsActive, r.OwnerID, r.ID).
		Scan(&r.GoalID, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return FundingRule{}, ErrRuleNotFound
	}
	if err != nil {
		return FundingRule{}, err
	}
	return r, nil
}

func (s *Store) DeleteRule(ctx context.Context, ownerID, ruleID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM goal_funding_rules WHERE owner_id = $1 AND id = $2", ownerID, ruleID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}
