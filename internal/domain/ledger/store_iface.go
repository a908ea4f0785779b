package ledger

import "context"

type StoreAPI interface {
	ListAccounts(ctx context.Context, ownerID string, includeArchived bool) ([]Account, error)
	GetAccount(ctx context.Context, ownerID, accountID string) (Account, error)
	CreateAccount(ctx context.Context, a Account) (Account, error)
	UpdateAccount(ctx context.Context, a Account) (Account, error)
	AccountArchived(ctx context.Context, ownerID, accountID string) (bool, error)

	ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]Transaction, error)
	CreateTransaction(ctx context.Context, t Transaction) (Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, txID string) error

	MonthlyCashflow(ctx context.Context, ownerID string, months int) ([]MonthlyCashflow, error)
}
