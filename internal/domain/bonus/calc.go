package bonus

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Calculate evaluates one config against the period metrics and produces the
// bonus amount plus an audit trail. It is pure: identical input yields an
// identical Calculation, however often it is called.
func Calculate(cfg Config, m Metrics, baseSalary decimal.Decimal, periodStart, periodEnd time.Time) Calculation {
	value, known := m.Value(cfg.MetricType)
	met := known && EvaluateThreshold(value, cfg.ThresholdValue, cfg.ThresholdOperator)

	amount := decimal.Zero
	formula := "threshold not met"
	if met {
		switch cfg.BonusType {
		case BonusFixedAmount:
			amount = cfg.BonusValue
			formula = fmt.Sprintf("fixed amount %s", amount)
		case BonusPercentage:
			amount = baseSalary.Mul(cfg.BonusValue).Div(hundred)
			formula = fmt.Sprintf("%s * %s%% = %s", baseSalary, cfg.BonusValue, amount)
		default:
			met = false
			formula = "threshold not met"
		}
	}
	if met && cfg.MaxBonusAmount.Valid && amount.GreaterThan(cfg.MaxBonusAmount.Decimal) {
		amount = cfg.MaxBonusAmount.Decimal
		formula = fmt.Sprintf("%s, capped at %s", formula, amount)
	}

	return Calculation{
		Config:           cfg,
		Metrics:          m,
		PeriodStart:      periodStart,
		PeriodEnd:        periodEnd,
		ThresholdMet:     met,
		CalculatedAmount: amount,
		Details: CalculationDetails{
			MetricType:        cfg.MetricType,
			MetricValue:       value,
			ThresholdValue:    cfg.ThresholdValue,
			ThresholdOperator: cfg.ThresholdOperator,
			BonusType:         cfg.BonusType,
			Formula:           formula,
		},
	}
}
