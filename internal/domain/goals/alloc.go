package goals

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// AllocateFunding evaluates active income-triggered rules against an income amount.
// Each allocation is capped at the remaining amount of its goal; goals that are not
// active or already fully funded are skipped. The income itself is not a budget:
// rules are independent and may together allocate more than the income amount, the
// caller decides whether to honour all of them.
func AllocateFunding(rules []FundingRule, goalByID map[string]SavingsGoal, income decimal.Decimal) []Allocation {
	if income.IsNegative() || income.IsZero() {
		return nil
	}

	var out []Allocation
	for _, rule := range rules {
		if !rule.IsActive || rule.Trigger != TriggerIncome {
			continue
		}
		goal, ok := goalByID[rule.GoalID]
		if !ok || goal.Status != StatusActive {
			continue
		}
		remaining := goal.Remaining()
		if remaining.IsZero() {
			continue
		}

		var amount decimal.Decimal
		switch rule.AllocationType {
		case AllocationFixed:
			amount = rule.AllocationValue
		case AllocationPercentage:
			amount = income.Mul(rule.AllocationValue).Div(hundred)
		default:
			continue
		}
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		if amount.IsPositive() {
			out = append(out, Allocation{GoalID: goal.ID, RuleID: rule.ID, Amount: amount})
		}
	}
	return out
}
