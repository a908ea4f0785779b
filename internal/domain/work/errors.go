package work

import "errors"

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrEntryNotFound    = errors.New("time entry not found")
	ErrInvalidEntry     = errors.New("invalid time entry")
	ErrInvalidPolicy    = errors.New("invalid overtime policy")
)
