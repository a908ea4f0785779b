package ledger

import (
	"context"
	"fmt"
	"strings"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) ListAccounts(ctx context.Context, ownerID string, includeArchived bool) ([]Account, error) {
	return s.store.ListAccounts(ctx, ownerID, includeArchived)
}

func (s *Service) GetAccount(ctx context.Context, ownerID, accountID string) (Account, error) {
	return s.store.GetAccount(ctx, ownerID, accountID)
}

func (s *Service) CreateAccount(ctx context.Context, a Account) (Account, error) {
	if err := validateAccount(a); err != nil {
		return Account{}, err
	}
	return s.store.CreateAccount(ctx, a)
}

func (s *Service) UpdateAccount(ctx context.Context, a Account) (Account, error) {
	if err := validateAccount(a); err != nil {
		return Account{}, err
	}
	return s.store.UpdateAccount(ctx, a)
}

// ArchiveAccount hides the account from default listings. History is kept.
func (s *Service) ArchiveAccount(ctx context.Context, ownerID, accountID string) (Account, error) {
	a, err := s.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return Account{}, err
	}
	a.IsArchived = true
	return s.store.UpdateAccount(ctx, a)
}

func (s *Service) ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]Transaction, error) {
	return s.store.ListTransactions(ctx, ownerID, filter)
}

func (s *Service) CreateTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	if t.AccountID == "" || t.Category == "" || t.OccurredOn.IsZero() {
		return Transaction{}, fmt.Errorf("%w: account, category and date are required", ErrInvalidAccount)
	}
	archived, err := s.store.AccountArchived(ctx, t.OwnerID, t.AccountID)
	if err != nil {
		return Transaction{}, err
	}
	if archived {
		return Transaction{}, ErrAccountArchived
	}
	return s.store.CreateTransaction(ctx, t)
}

func (s *Service) DeleteTransaction(ctx context.Context, ownerID, txID string) error {
	return s.store.DeleteTransaction(ctx, ownerID, txID)
}

func (s *Service) MonthlyCashflow(ctx context.Context, ownerID string, months int) ([]MonthlyCashflow, error) {
	if months <= 0 {
		months = 12
	}
	return s.store.MonthlyCashflow(ctx, ownerID, months)
}

func validateAccount(a Account) error {
	if strings.TrimSpace(a.OwnerID) == "" || strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("%w: owner and name are required", ErrInvalidAccount)
	}
	if !ValidAccountKind(a.Kind) {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidAccount, a.Kind)
	}
	if len(a.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalidAccount)
	}
	return nil
}
