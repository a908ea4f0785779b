package goals

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func goal(id string, target, funded int64) SavingsGoal {
	return SavingsGoal{
		ID:           id,
		Name:         "goal " + id,
		TargetAmount: decimal.NewFromInt(target),
		FundedAmount: decimal.NewFromInt(funded),
		Status:       StatusActive,
	}
}

func rule(id, goalID string, kind AllocationType, value int64) FundingRule {
	return FundingRule{
		ID:              id,
		GoalID:          goalID,
		Trigger:         TriggerIncome,
		AllocationType:  kind,
		AllocationValue: decimal.NewFromInt(value),
		IsActive:        true,
	}
}

func TestAllocateFundingFixedAndPercentage(t *testing.T) {
	goals := map[string]SavingsGoal{
		"g1": goal("g1", 1000, 0),
		"g2": goal("g2", 1000, 0),
	}
	rules := []FundingRule{
		rule("r1", "g1", AllocationFixed, 100),
		rule("r2", "g2", AllocationPercentage, 10),
	}

	allocations := AllocateFunding(rules, goals, decimal.NewFromInt(500))
	require.Len(t, allocations, 2)
	assert.True(t, allocations[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.True(t, allocations[1].Amount.Equal(decimal.NewFromInt(50)))
}

func TestAllocateFundingCapsAtRemaining(t *testing.T) {
	goals := map[string]SavingsGoal{"g1": goal("g1", 1000, 950)}
	rules := []FundingRule{rule("r1", "g1", AllocationFixed, 200)}

	allocations := AllocateFunding(rules, goals, decimal.NewFromInt(1000))
	require.Len(t, allocations, 1)
	assert.True(t, allocations[0].Amount.Equal(decimal.NewFromInt(50)))
}

func TestAllocateFundingSkipsClosedAndFundedGoals(t *testing.T) {
	reached := goal("g1", 1000, 1000)
	abandoned := goal("g2", 1000, 0)
	abandoned.Status = StatusAbandoned
	goals := map[string]SavingsGoal{"g1": reached, "g2": abandoned}
	rules := []FundingRule{
		rule("r1", "g1", AllocationFixed, 100),
		rule("r2", "g2", AllocationFixed, 100),
	}

	assert.Empty(t, AllocateFunding(rules, goals, decimal.NewFromInt(500)))
}

func TestAllocateFundingSkipsInactiveAndScheduleRules(t *testing.T) {
	goals := map[string]SavingsGoal{"g1": goal("g1", 1000, 0)}

	inactive := rule("r1", "g1", AllocationFixed, 100)
	inactive.IsActive = false
	scheduled := rule("r2", "g1", AllocationFixed, 100)
	scheduled.Trigger = TriggerSchedule

	assert.Empty(t, AllocateFunding([]FundingRule{inactive, scheduled}, goals, decimal.NewFromInt(500)))
}

func TestAllocateFundingNonPositiveIncome(t *testing.T) {
	goals := map[string]SavingsGoal{"g1": goal("g1", 1000, 0)}
	rules := []FundingRule{rule("r1", "g1", AllocationPercentage, 10)}

	assert.Empty(t, AllocateFunding(rules, goals, decimal.Zero))
	assert.Empty(t, AllocateFunding(rules, goals, decimal.NewFromInt(-100)))
}

func TestAllocateFundingUnknownGoal(t *testing.T) {
	rules := []FundingRule{rule("r1", "missing", AllocationFixed, 100)}
	assert.Empty(t, AllocateFunding(rules, map[string]SavingsGoal{}, decimal.NewFromInt(500)))
}
