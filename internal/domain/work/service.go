package work

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	cryptoutil "hearth/internal/platform/crypto"
)

type Service struct {
	store  StoreAPI
	crypto *cryptoutil.Service
}

func NewService(store StoreAPI, crypto *cryptoutil.Service) *Service {
	return &Service{store: store, crypto: crypto}
}

func (s *Service) ListContracts(ctx context.Context, ownerID string) ([]Contract, error) {
	contracts, err := s.store.ListContracts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if s.encrypting() {
		for i := range contracts {
			salary, err := s.BaseSalary(ctx, ownerID, contracts[i].ID)
			if err != nil {
				return nil, err
			}
			contracts[i].BaseSalary = salary
		}
	}
	return contracts, nil
}

func (s *Service) GetContract(ctx context.Context, ownerID, contractID string) (Contract, error) {
	contract, err := s.store.GetContract(ctx, ownerID, contractID)
	if err != nil {
		return Contract{}, err
	}
	if s.encrypting() {
		salary, err := s.BaseSalary(ctx, ownerID, contractID)
		if err != nil {
			return Contract{}, err
		}
		contract.BaseSalary = salary
	}
	return contract, nil
}

func (s *Service) CreateContract(ctx context.Context, c Contract) (Contract, error) {
	enc, err := s.encryptSalary(c.BaseSalary)
	if err != nil {
		return Contract{}, err
	}
	return s.store.CreateContract(ctx, c, enc)
}

func (s *Service) UpdateContract(ctx context.Context, c Contract) (Contract, error) {
	enc, err := s.encryptSalary(c.BaseSalary)
	if err != nil {
		return Contract{}, err
	}
	return s.store.UpdateContract(ctx, c, enc)
}

func (s *Service) DeleteContract(ctx context.Context, ownerID, contractID string) error {
	return s.store.DeleteContract(ctx, ownerID, contractID)
}

// BaseSalary returns the contract's salary, decrypting the at-rest column
// when encryption is configured.
func (s *Service) BaseSalary(ctx context.Context, ownerID, contractID string) (decimal.Decimal, error) {
	plain, enc, err := s.store.ContractSalary(ctx, ownerID, contractID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(enc) > 0 && s.encrypting() {
		decrypted, err := s.crypto.DecryptString(enc)
		if err != nil {
			return decimal.Zero, fmt.Errorf("decrypt contract salary: %w", err)
		}
		return decimal.NewFromString(decrypted)
	}
	if plain != nil {
		return decimal.NewFromString(*plain)
	}
	return decimal.Zero, nil
}

func (s *Service) ListEntries(ctx context.Context, ownerID, contractID string, from, to time.Time, limit, offset int) ([]TimeEntry, error) {
	return s.store.ListEntries(ctx, ownerID, contractID, from, to, limit, offset)
}

func (s *Service) EntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]TimeEntry, error) {
	return s.store.EntriesInRange(ctx, ownerID, contractID, from, to)
}

func (s *Service) CreateEntry(ctx context.Context, e TimeEntry) (TimeEntry, error) {
	if err := ValidateEntry(e); err != nil {
		return TimeEntry{}, err
	}
	return s.store.CreateEntry(ctx, e)
}

func (s *Service) UpdateEntry(ctx context.Context, e TimeEntry) (TimeEntry, error) {
	if err := ValidateEntry(e); err != nil {
		return TimeEntry{}, err
	}
	return s.store.UpdateEntry(ctx, e)
}

func (s *Service) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	return s.store.DeleteEntry(ctx, ownerID, entryID)
}

func (s *Service) GetPolicy(ctx context.Context, ownerID string) (OvertimePolicy, bool, error) {
	return s.store.GetPolicy(ctx, ownerID)
}

func (s *Service) SavePolicy(ctx context.Context, p OvertimePolicy) (OvertimePolicy, error) {
	if err := ValidatePolicy(p); err != nil {
		return OvertimePolicy{}, err
	}
	return s.store.UpsertPolicy(ctx, p)
}

func (s *Service) encrypting() bool {
	return s.crypto != nil && s.crypto.Configured()
}

func (s *Service) encryptSalary(salary decimal.Decimal) ([]byte, error) {
	if !s.encrypting() {
		return nil, nil
	}
	return s.crypto.EncryptString(salary.String())
}
