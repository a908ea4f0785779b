package bonus

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeEntrySource feeds attendance records into the engine. Entries are
// consumed read-only; the engine never writes back.
type TimeEntrySource interface {
	EntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]TimeEntry, error)
}

// ContractSource resolves the base salary used for percentage bonuses.
type ContractSource interface {
	BaseSalary(ctx context.Context, ownerID, contractID string) (decimal.Decimal, error)
}

type Service struct {
	store     StoreAPI
	entries   TimeEntrySource
	contracts ContractSource
	now       func() time.Time
}

func NewService(store StoreAPI, entries TimeEntrySource, contracts ContractSource) *Service {
	return &Service{store: store, entries: entries, contracts: contracts, now: time.Now}
}

// Run evaluates every active config for the contract over [periodStart,
// periodEnd] and persists a result for each config whose threshold was met.
// Metrics are computed once and shared by all configs in the run. Misses are
// discarded without a record. Any store failure aborts the whole run; nothing
// is partially committed beyond results already inserted, and re-running the
// same period is safe because (config, period) results are unique.
func (s *Service) Run(ctx context.Context, ownerID, contractID string, periodStart, periodEnd time.Time) ([]Result, error) {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(contractID) == "" {
		return nil, fmt.Errorf("%w: owner and contract are required", ErrInvalidConfig)
	}
	if periodEnd.Before(periodStart) {
		return nil, ErrInvalidPeriod
	}

	configs, err := s.store.ActiveConfigs(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}
	if len(configs) == 0 {
		return nil, nil
	}

	entries, err := s.entries.EntriesInRange(ctx, ownerID, contractID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	metrics := ComputeMetrics(entries, periodStart, periodEnd)

	baseSalary, err := s.contracts.BaseSalary(ctx, ownerID, contractID)
	if err != nil {
		return nil, err
	}

	var created []Result
	for _, cfg := range configs {
		calc := Calculate(cfg, metrics, baseSalary, periodStart, periodEnd)
		if !calc.ThresholdMet {
			continue
		}
		res, inserted, err := s.store.InsertResult(ctx, resultFromCalculation(ownerID, contractID, calc))
		if err != nil {
			return nil, err
		}
		if !inserted {
			// This config/period pair was already evaluated by an earlier
			// or concurrent run.
			continue
		}
		created = append(created, res)
	}
	return created, nil
}

func resultFromCalculation(ownerID, contractID string, calc Calculation) Result {
	return Result{
		OwnerID:          ownerID,
		ContractID:       contractID,
		ConfigID:         calc.Config.ID,
		PeriodStart:      calc.PeriodStart,
		PeriodEnd:        calc.PeriodEnd,
		MetricValue:      calc.Details.MetricValue,
		ThresholdMet:     calc.ThresholdMet,
		CalculatedAmount: calc.CalculatedAmount,
		AppliedAmount:    calc.CalculatedAmount,
		Details:          calc.Details,
		Status:           StatusCalculated,
	}
}

// Apply promotes a calculated result to applied and stamps applied_at.
// Applying an already applied or cancelled result fails with ErrResultFinal.
func (s *Service) Apply(ctx context.Context, ownerID, resultID string) (Result, error) {
	now := s.now().UTC()
	return s.store.TransitionResult(ctx, ownerID, resultID, StatusApplied, &now)
}

// Cancel moves a calculated result to cancelled. Terminal states stay put.
func (s *Service) Cancel(ctx context.Context, ownerID, resultID string) (Result, error) {
	return s.store.TransitionResult(ctx, ownerID, resultID, StatusCancelled, nil)
}

func (s *Service) ListResults(ctx context.Context, ownerID string, filter ResultFilter) ([]Result, error) {
	return s.store.ListResults(ctx, ownerID, filter)
}

func (s *Service) GetResult(ctx context.Context, ownerID, resultID string) (Result, error) {
	return s.store.GetResult(ctx, ownerID, resultID)
}

func (s *Service) ListConfigs(ctx context.Context, ownerID, contractID string) ([]Config, error) {
	return s.store.ListConfigs(ctx, ownerID, contractID)
}

func (s *Service) GetConfig(ctx context.Context, ownerID, configID string) (Config, error) {
	return s.store.GetConfig(ctx, ownerID, configID)
}

func (s *Service) CreateConfig(ctx context.Context, cfg Config) (Config, error) {
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return s.store.CreateConfig(ctx, cfg)
}

func (s *Service) UpdateConfig(ctx context.Context, cfg Config) (Config, error) {
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return s.store.UpdateConfig(ctx, cfg)
}

// DeleteConfig removes a config that never produced a result. Configs with
// history must be deactivated instead so past results keep their reference.
func (s *Service) DeleteConfig(ctx context.Context, ownerID, configID string) error {
	inUse, err := s.store.ConfigHasResults(ctx, configID)
	if err != nil {
		return err
	}
	if inUse {
		return ErrConfigInUse
	}
	return s.store.DeleteConfig(ctx, ownerID, configID)
}

// validateConfig rejects malformed configs before they become eligible for a
// run: unknown enum members and negative money fields never reach the store.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.OwnerID) == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidConfig)
	}
	if !cfg.MetricType.Valid() {
		return fmt.Errorf("%w: unknown metric type %q", ErrInvalidConfig, cfg.MetricType)
	}
	if !cfg.ThresholdOperator.Valid() {
		return fmt.Errorf("%w: unknown threshold operator %q", ErrInvalidConfig, cfg.ThresholdOperator)
	}
	if !cfg.BonusType.Valid() {
		return fmt.Errorf("%w: unknown bonus type %q", ErrInvalidConfig, cfg.BonusType)
	}
	if !ValidEvaluationPeriod(cfg.EvaluationPeriod) {
		return fmt.Errorf("%w: unknown evaluation period %q", ErrInvalidConfig, cfg.EvaluationPeriod)
	}
	if cfg.ThresholdValue < 0 {
		return fmt.Errorf("%w: threshold value must not be negative", ErrInvalidConfig)
	}
	if cfg.BonusValue.IsNegative() {
		return fmt.Errorf("%w: bonus value must not be negative", ErrInvalidConfig)
	}
	if cfg.MaxBonusAmount.Valid && cfg.MaxBonusAmount.Decimal.IsNegative() {
		return fmt.Errorf("%w: max bonus amount must not be negative", ErrInvalidConfig)
	}
	return nil
}
