package bonus

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	ID                string              `json:"id"`
	OwnerID           string              `json:"ownerId"`
	ContractID        string              `json:"contractId,omitempty"`
	Name              string              `json:"name"`
	MetricType        MetricType          `json:"metricType"`
	ThresholdValue    float64             `json:"thresholdValue"`
	ThresholdOperator Operator            `json:"thresholdOperator"`
	BonusType         BonusType           `json:"bonusType"`
	BonusValue        decimal.Decimal     `json:"bonusValue"`
	MaxBonusAmount    decimal.NullDecimal `json:"maxBonusAmount"`
	EvaluationPeriod  string              `json:"evaluationPeriod"`
	IsActive          bool                `json:"isActive"`
	CreatedAt         time.Time           `json:"createdAt"`
	UpdatedAt         time.Time           `json:"updatedAt"`
}

// TimeEntry is the read-only attendance record the engine consumes. StartTime
// is local 24-hour "HH:MM"; empty means no clock-in was recorded.
type TimeEntry struct {
	Date          time.Time
	StartTime     string
	RegularHours  float64
	OvertimeHours float64
}

// Metrics is a value object recomputed on every run; it has no identity.
type Metrics struct {
	HoursWorked            float64 `json:"hoursWorked"`
	PunctualityScore       float64 `json:"punctualityScore"`
	AttendanceRate         float64 `json:"attendanceRate"`
	OvertimeRatio          float64 `json:"overtimeRatio"`
	WeeklyConsistencyScore float64 `json:"weeklyConsistencyScore"`
}

// Value selects the metric for a config. The second return is false for a
// metric type outside the closed set, which callers treat as a failed match.
func (m Metrics) Value(t MetricType) (float64, bool) {
	switch t {
	case MetricHoursWorked:
		return m.HoursWorked, true
	case MetricPunctuality:
		return m.PunctualityScore, true
	case MetricAttendance:
		return m.AttendanceRate, true
	case MetricOvertimeRatio:
		return m.OvertimeRatio, true
	case MetricWeeklyConsistency:
		return m.WeeklyConsistencyScore, true
	}
	return 0, false
}

// CalculationDetails is stored verbatim with the result for audit.
type CalculationDetails struct {
	MetricType        MetricType `json:"metricType"`
	MetricValue       float64    `json:"metricValue"`
	ThresholdValue    float64    `json:"thresholdValue"`
	ThresholdOperator Operator   `json:"thresholdOperator"`
	BonusType         BonusType  `json:"bonusType"`
	Formula           string     `json:"formula"`
}

// Calculation is the transient outcome of evaluating one config against one
// set of metrics. Only threshold-met calculations ever reach the store.
type Calculation struct {
	Config           Config             `json:"config"`
	Metrics          Metrics            `json:"metrics"`
	PeriodStart      time.Time          `json:"periodStart"`
	PeriodEnd        time.Time          `json:"periodEnd"`
	ThresholdMet     bool               `json:"thresholdMet"`
	CalculatedAmount decimal.Decimal    `json:"calculatedAmount"`
	Details          CalculationDetails `json:"details"`
}

type Result struct {
	ID               string             `json:"id"`
	OwnerID          string             `json:"ownerId"`
	ContractID       string             `json:"contractId"`
	ConfigID         string             `json:"configId"`
	PeriodStart      time.Time          `json:"periodStart"`
	PeriodEnd        time.Time          `json:"periodEnd"`
	MetricValue      float64            `json:"metricValue"`
	ThresholdMet     bool               `json:"thresholdMet"`
	CalculatedAmount decimal.Decimal    `json:"calculatedAmount"`
	AppliedAmount    decimal.Decimal    `json:"appliedAmount"`
	Details          CalculationDetails `json:"details"`
	Status           ResultStatus       `json:"status"`
	AppliedAt        *time.Time         `json:"appliedAt,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt"`
}

// ResultFilter narrows ListResults. Zero-value fields are ignored.
type ResultFilter struct {
	ContractID string
	From       time.Time
	To         time.Time
	Status     ResultStatus
	Limit      int
	Offset     int
}
