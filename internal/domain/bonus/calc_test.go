package bonus

import (
	"testing"

	"github.com/shopspring/decimal"
)

func fixedConfig() Config {
	return Config{
		Name:              "attendance bonus",
		MetricType:        MetricAttendance,
		ThresholdValue:    90,
		ThresholdOperator: OpGreaterOrEqual,
		BonusType:         BonusFixedAmount,
		BonusValue:        decimal.NewFromInt(50),
	}
}

func TestCalculateFixedAmount(t *testing.T) {
	m := Metrics{AttendanceRate: 100}
	calc := Calculate(fixedConfig(), m, decimal.NewFromInt(3000), date(2024, 1, 1), date(2024, 1, 31))

	if !calc.ThresholdMet {
		t.Fatal("expected threshold met")
	}
	if !calc.CalculatedAmount.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected amount 50, got %s", calc.CalculatedAmount)
	}
	if calc.Details.MetricValue != 100 {
		t.Fatalf("expected metric value 100 in details, got %v", calc.Details.MetricValue)
	}
}

func TestCalculatePercentageCapped(t *testing.T) {
	cfg := Config{
		Name:              "low overtime bonus",
		MetricType:        MetricOvertimeRatio,
		ThresholdValue:    0.1,
		ThresholdOperator: OpLess,
		BonusType:         BonusPercentage,
		BonusValue:        decimal.NewFromInt(5),
		MaxBonusAmount:    decimal.NullDecimal{Decimal: decimal.NewFromInt(100), Valid: true},
	}
	m := Metrics{OvertimeRatio: 0.05}

	calc := Calculate(cfg, m, decimal.NewFromInt(3000), date(2024, 1, 1), date(2024, 1, 31))
	if !calc.ThresholdMet {
		t.Fatal("expected threshold met")
	}
	// 3000 * 5% = 150, capped at 100.
	if !calc.CalculatedAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected capped amount 100, got %s", calc.CalculatedAmount)
	}
}

func TestCalculatePercentageUncapped(t *testing.T) {
	cfg := Config{
		MetricType:        MetricHoursWorked,
		ThresholdValue:    40,
		ThresholdOperator: OpGreaterOrEqual,
		BonusType:         BonusPercentage,
		BonusValue:        decimal.NewFromInt(5),
		MaxBonusAmount:    decimal.NullDecimal{Decimal: decimal.NewFromInt(500), Valid: true},
	}
	calc := Calculate(cfg, Metrics{HoursWorked: 45}, decimal.NewFromInt(3000), date(2024, 1, 1), date(2024, 1, 31))
	if !calc.CalculatedAmount.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected 150 below the cap, got %s", calc.CalculatedAmount)
	}
}

func TestCalculateThresholdMiss(t *testing.T) {
	m := Metrics{AttendanceRate: 80}
	calc := Calculate(fixedConfig(), m, decimal.NewFromInt(3000), date(2024, 1, 1), date(2024, 1, 31))
	if calc.ThresholdMet {
		t.Fatal("expected threshold miss")
	}
	if !calc.CalculatedAmount.IsZero() {
		t.Fatalf("expected zero amount on miss, got %s", calc.CalculatedAmount)
	}
	if calc.Details.Formula != "threshold not met" {
		t.Fatalf("unexpected formula %q", calc.Details.Formula)
	}
}

func TestCalculateUnknownMetricNeverMatches(t *testing.T) {
	cfg := fixedConfig()
	cfg.MetricType = MetricType("velocity")
	calc := Calculate(cfg, Metrics{AttendanceRate: 100}, decimal.NewFromInt(3000), date(2024, 1, 1), date(2024, 1, 31))
	if calc.ThresholdMet {
		t.Fatal("unknown metric type must fail closed")
	}
}

func TestCalculateIsPure(t *testing.T) {
	cfg := fixedConfig()
	m := Metrics{AttendanceRate: 95}
	salary := decimal.NewFromInt(2500)
	start, end := date(2024, 1, 1), date(2024, 1, 31)

	first := Calculate(cfg, m, salary, start, end)
	for i := 0; i < 5; i++ {
		again := Calculate(cfg, m, salary, start, end)
		if !again.CalculatedAmount.Equal(first.CalculatedAmount) ||
			again.ThresholdMet != first.ThresholdMet ||
			again.Details != first.Details {
			t.Fatalf("calculation diverged on repeat call: %+v vs %+v", again, first)
		}
	}
}

func TestCalculateCapLaw(t *testing.T) {
	salaries := []int64{1000, 2000, 3000, 10000}
	cap := decimal.NewFromInt(120)
	for _, s := range salaries {
		cfg := Config{
			MetricType:        MetricHoursWorked,
			ThresholdValue:    0,
			ThresholdOperator: OpGreaterOrEqual,
			BonusType:         BonusPercentage,
			BonusValue:        decimal.NewFromInt(5),
			MaxBonusAmount:    decimal.NullDecimal{Decimal: cap, Valid: true},
		}
		salary := decimal.NewFromInt(s)
		calc := Calculate(cfg, Metrics{HoursWorked: 1}, salary, date(2024, 1, 1), date(2024, 1, 31))

		uncapped := salary.Mul(decimal.NewFromInt(5)).Div(decimal.NewFromInt(100))
		want := uncapped
		if want.GreaterThan(cap) {
			want = cap
		}
		if !calc.CalculatedAmount.Equal(want) {
			t.Fatalf("salary %d: expected min(%s, %s), got %s", s, uncapped, cap, calc.CalculatedAmount)
		}
	}
}
