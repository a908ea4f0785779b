package bonus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const configColumns = `id, owner_id, contract_id, name, metric_type, threshold_value,
  threshold_operator, bonus_type, bonus_value, max_bonus_amount, evaluation_period,
  is_active, created_at, updated_at`

func (s *Store) ListConfigs(ctx context.Context, ownerID, contractID string) ([]Config, error) {
	query := fmt.Sprintf(`
    SELECT %s
    FROM bonus_configs
    WHERE owner_id = $1
  `, configColumns)
	args := []any{ownerID}
	if contractID != "" {
		query += " AND (contract_id = $2 OR contract_id IS NULL)"
		args = append(args, contractID)
	}
	query += " ORDER BY created_at DESC"
	return s.queryConfigs(ctx, query, args...)
}

func (s *Store) ActiveConfigs(ctx context.Context, ownerID, contractID string) ([]Config, error) {
	return s.queryConfigs(ctx, fmt.Sprintf(`
    SELECT %s
    FROM bonus_configs
    WHERE owner_id = $1 AND is_active AND (contract_id = $2 OR contract_id IS NULL)
    ORDER BY created_at
  `, configColumns), ownerID, contractID)
}

func (s *Store) GetConfig(ctx context.Context, ownerID, configID string) (Config, error) {
	rows, err := s.queryConfigs(ctx, fmt.Sprintf(`
    SELECT %s
    FROM bonus_configs
    WHERE owner_id = $1 AND id = $2
  `, configColumns), ownerID, configID)
	if err != nil {
		return Config{}, err
	}
	if len(rows) == 0 {
		return Config{}, ErrConfigNotFound
	}
	return rows[0], nil
}

func (s *Store) CreateConfig(ctx context.Context, cfg Config) (Config, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO bonus_configs
      (owner_id, contract_id, name, metric_type, threshold_value, threshold_operator,
       bonus_type, bonus_value, max_bonus_amount, evaluation_period, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    RETURNING id, created_at, updated_at
  `, cfg.OwnerID, nullString(cfg.ContractID), cfg.Name, cfg.MetricType, cfg.ThresholdValue,
		cfg.ThresholdOperator, cfg.BonusType, cfg.BonusValue, cfg.MaxBonusAmount,
		cfg.EvaluationPeriod, cfg.IsActive).
		Scan(&cfg.ID, &cfg.CreatedAt, &cfg.UpdatedAt)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *Store) UpdateConfig(ctx context.Context, cfg Config) (Config, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE bonus_configs
    SET contract_id = $1, name = $2, metric_type = $3, threshold_value = $4,
        threshold_operator = $5, bonus_type = $6, bonus_value = $7,
        max_bonus_amount = $8, evaluation_period = $9, is_active = $10,
        updated_at = now()
    WHERE owner_id = $11 AND id = $12
    RETURNING created_at, updated_at
  `, nullString(cfg.ContractID), cfg.Name, cfg.MetricType, cfg.ThresholdValue,
		cfg.ThresholdOperator, cfg.BonusType, cfg.BonusValue, cfg.MaxBonusAmount,
		cfg.EvaluationPeriod, cfg.IsActive, cfg.OwnerID, cfg.ID).
		Scan(&cfg.CreatedAt, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Config{}, ErrConfigNotFound
	}
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *Store) DeleteConfig(ctx context.Context, ownerID, configID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM bonus_configs WHERE owner_id = $1 AND id = $2", ownerID, configID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrConfigNotFound
	}
	return nil
}

func (s *Store) ConfigHasResults(ctx context.Context, configID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM bonus_results WHERE config_id = $1)", configID).Scan(&exists)
	return exists, err
}

func (s *Store) queryConfigs(ctx context.Context, query string, args ...any) ([]Config, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		var cfg Config
		var contractID *string
		if err := rows.Scan(&cfg.ID, &cfg.OwnerID, &contractID, &cfg.Name, &cfg.MetricType,
			&cfg.ThresholdValue, &cfg.ThresholdOperator, &cfg.BonusType, &cfg.BonusValue,
			&cfg.MaxBonusAmount, &cfg.EvaluationPeriod, &cfg.IsActive,
			&cfg.CreatedAt, &cfg.UpdatedAt); err != nil {
			return nil, err
		}
		if contractID != nil {
			cfg.ContractID = *contractID
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

const resultColumns = `id, owner_id, contract_id, config_id, period_start, period_end,
  metric_value, threshold_met, calculated_amount, applied_amount, calculation_details,
  status, applied_at, created_at, updated_at`

func (s *Store) InsertResult(ctx context.Context, res Result) (Result, bool, error) {
	details, err := json.Marshal(res.Details)
	if err != nil {
		return Result{}, false, err
	}

	// The unique index on (config_id, period_start, period_end) makes runs
	// idempotent: a concurrent or repeated run for the same period writes at
	// most one result per config.
	err = s.DB.QueryRow(ctx, `
    INSERT INTO bonus_results
      (owner_id, contract_id, config_id, period_start, period_end, metric_value,
       threshold_met, calculated_amount, applied_amount, calculation_details, status)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
    ON CONFLICT (config_id, period_start, period_end) DO NOTHING
    RETURNING id, created_at, updated_at
  `, res.OwnerID, res.ContractID, res.ConfigID, res.PeriodStart, res.PeriodEnd,
		res.MetricValue, res.ThresholdMet, res.CalculatedAmount, res.AppliedAmount,
		details, res.Status).
		Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	return res, true, nil
}

func (s *Store) GetResult(ctx context.Context, ownerID, resultID string) (Result, error) {
	results, err := s.queryResults(ctx, fmt.Sprintf(`
    SELECT %s
    FROM bonus_results
    WHERE owner_id = $1 AND id = $2
  `, resultColumns), ownerID, resultID)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 0 {
		return Result{}, ErrResultNotFound
	}
	return results[0], nil
}

func (s *Store) ListResults(ctx context.Context, ownerID string, filter ResultFilter) ([]Result, error) {
	query := fmt.Sprintf(`
    SELECT %s
    FROM bonus_results
    WHERE owner_id = $1
  `, resultColumns)
	args := []any{ownerID}

	if filter.ContractID != "" {
		args = append(args, filter.ContractID)
		query += fmt.Sprintf(" AND contract_id = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND period_start >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND period_end <= $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY period_start DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return s.queryResults(ctx, query, args...)
}

func (s *Store) TransitionResult(ctx context.Context, ownerID, resultID string, to ResultStatus, appliedAt *time.Time) (Result, error) {
	results, err := s.queryResults(ctx, fmt.Sprintf(`
    UPDATE bonus_results
    SET status = $1, applied_at = COALESCE($2, applied_at), updated_at = now()
    WHERE owner_id = $3 AND id = $4 AND status = $5
    RETURNING %s
  `, resultColumns), to, appliedAt, ownerID, resultID, StatusCalculated)
	if err != nil {
		return Result{}, err
	}
	if len(results) == 1 {
		return results[0], nil
	}

	// No row moved: distinguish unknown id from a finished state machine.
	var status ResultStatus
	err = s.DB.QueryRow(ctx, "SELECT status FROM bonus_results WHERE owner_id = $1 AND id = $2", ownerID, resultID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return Result{}, ErrResultNotFound
	}
	if err != nil {
		return Result{}, err
	}
	return Result{}, ErrResultFinal
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]Result, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var res Result
		var details []byte
		if err := rows.Scan(&res.ID, &res.OwnerID, &res.ContractID, &res.ConfigID,
			&res.PeriodStart, &res.PeriodEnd, &res.MetricValue, &res.ThresholdMet,
			&res.CalculatedAmount, &res.AppliedAmount, &details, &res.Status,
			&res.AppliedAt, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, err
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &res.Details); err != nil {
				return nil, err
			}
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
