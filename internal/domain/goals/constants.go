package goals

type GoalStatus string

const (
	StatusActive    GoalStatus = "active"
	StatusReached   GoalStatus = "reached"
	StatusAbandoned GoalStatus = "abandoned"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusActive, StatusReached, StatusAbandoned:
		return true
	}
	return false
}

type Trigger string

const (
	TriggerIncome   Trigger = "income"
	TriggerSchedule Trigger = "schedule"
)

func (t Trigger) Valid() bool {
	return t == TriggerIncome || t == TriggerSchedule
}

type AllocationType string

const (
	AllocationFixed      AllocationType = "fixed_amount"
	AllocationPercentage AllocationType = "percentage"
)

func (a AllocationType) Valid() bool {
	return a == AllocationFixed || a == AllocationPercentage
}
