package goals

import "errors"

var (
	ErrGoalNotFound = errors.New("savings goal not found")
	ErrRuleNotFound = errors.New("funding rule not found")
	ErrInvalidGoal  = errors.New("invalid savings goal")
	ErrInvalidRule  = errors.New("invalid funding rule")
	ErrGoalClosed   = errors.New("savings goal is not active")
)
