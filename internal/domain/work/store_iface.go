package work

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListContracts(ctx context.Context, ownerID string) ([]Contract, error)
	GetContract(ctx context.Context, ownerID, contractID string) (Contract, error)
	CreateContract(ctx context.Context, c Contract, salaryEnc []byte) (Contract, error)
	UpdateContract(ctx context.Context, c Contract, salaryEnc []byte) (Contract, error)
	DeleteContract(ctx context.Context, ownerID, contractID string) error
	ContractSalary(ctx context.Context, ownerID, contractID string) (plain *string, enc []byte, err error)

	ListEntries(ctx context.Context, ownerID, contractID string, from, to time.Time, limit, offset int) ([]TimeEntry, error)
	EntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]TimeEntry, error)
	CreateEntry(ctx context.Context, e TimeEntry) (TimeEntry, error)
	UpdateEntry(ctx context.Context, e TimeEntry) (TimeEntry, error)
	DeleteEntry(ctx context.Context, ownerID, entryID string) error

	GetPolicy(ctx context.Context, ownerID string) (OvertimePolicy, bool, error)
	UpsertPolicy(ctx context.Context, p OvertimePolicy) (OvertimePolicy, error)
}
