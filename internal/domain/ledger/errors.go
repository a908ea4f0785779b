package ledger

import "errors"

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAccount      = errors.New("invalid account")
	ErrAccountArchived     = errors.New("account is archived")
)
