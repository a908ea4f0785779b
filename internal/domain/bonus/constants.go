package bonus

type MetricType string

const (
	MetricHoursWorked       MetricType = "hours_worked"
	MetricPunctuality       MetricType = "punctuality"
	MetricAttendance        MetricType = "attendance"
	MetricOvertimeRatio     MetricType = "overtime_ratio"
	MetricWeeklyConsistency MetricType = "weekly_consistency"
)

type BonusType string

const (
	BonusFixedAmount BonusType = "fixed_amount"
	BonusPercentage  BonusType = "percentage"
)

type Operator string

const (
	OpGreaterOrEqual Operator = ">="
	OpGreater        Operator = ">"
	OpLessOrEqual    Operator = "<="
	OpLess           Operator = "<"
	OpEqual          Operator = "="
)

type ResultStatus string

const (
	StatusCalculated ResultStatus = "calculated"
	StatusApplied    ResultStatus = "applied"
	StatusCancelled  ResultStatus = "cancelled"
)

const (
	EvaluationWeekly    = "weekly"
	EvaluationMonthly   = "monthly"
	EvaluationQuarterly = "quarterly"
)

// A week counts as consistent when at least 4 of the 5 target weekdays were
// worked (80% of a five-day week).
const consistentWeekMinDays = 4

// Start hour at or before which an entry counts as punctual.
const punctualStartHour = 9

func (m MetricType) Valid() bool {
	switch m {
	case MetricHoursWorked, MetricPunctuality, MetricAttendance, MetricOvertimeRatio, MetricWeeklyConsistency:
		return true
	}
	return false
}

func (b BonusType) Valid() bool {
	return b == BonusFixedAmount || b == BonusPercentage
}

func (o Operator) Valid() bool {
	switch o {
	case OpGreaterOrEqual, OpGreater, OpLessOrEqual, OpLess, OpEqual:
		return true
	}
	return false
}

func (s ResultStatus) Valid() bool {
	return s == StatusCalculated || s == StatusApplied || s == StatusCancelled
}

func ValidEvaluationPeriod(p string) bool {
	return p == EvaluationWeekly || p == EvaluationMonthly || p == EvaluationQuarterly
}
