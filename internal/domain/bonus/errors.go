package bonus

import "errors"

var (
	ErrInvalidConfig  = errors.New("invalid bonus config")
	ErrInvalidPeriod  = errors.New("evaluation period end before start")
	ErrConfigNotFound = errors.New("bonus config not found")
	ErrResultNotFound = errors.New("bonus result not found")
	ErrResultFinal    = errors.New("bonus result is already applied or cancelled")
	ErrConfigInUse    = errors.New("bonus config has results; deactivate it instead of deleting")
)
