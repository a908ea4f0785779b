package work

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const contractColumns = `id, owner_id, employer, base_salary, currency, weekly_hours,
  start_date, end_date, is_active, created_at, updated_at`

func (s *Store) ListContracts(ctx context.Context, ownerID string) ([]Contract, error) {
	return s.queryContracts(ctx, fmt.Sprintf(`
    SELECT %s
    FROM contracts
    WHERE owner_id = $1
    ORDER BY start_date DESC
  `, contractColumns), ownerID)
}

func (s *Store) GetContract(ctx context.Context, ownerID, contractID string) (Contract, error) {
	contracts, err := s.queryContracts(ctx, fmt.Sprintf(`
    SELECT %s
    FROM contracts
    WHERE owner_id = $1 AND id = $2
  `, contractColumns), ownerID, contractID)
	if err != nil {
		return Contract{}, err
	}
	if len(contracts) == 0 {
		return Contract{}, ErrContractNotFound
	}
	return contracts[0], nil
}

func (s *Store) CreateContract(ctx context.Context, c Contract, salaryEnc []byte) (Contract, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO contracts
      (owner_id, employer, base_salary, base_salary_enc, currency, weekly_hours,
       start_date, end_date, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id, created_at, updated_at
  `, c.OwnerID, c.Employer, plainSalary(c.BaseSalary, salaryEnc), salaryEnc, c.Currency,
		c.WeeklyHours, c.StartDate, c.EndDate, c.IsActive).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Contract{}, err
	}
	return c, nil
}

func (s *Store) UpdateContract(ctx context.Context, c Contract, salaryEnc []byte) (Contract, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE contracts
    SET employer = $1, base_salary = $2, base_salary_enc = $3, currency = $4,
        weekly_hours = $5, start_date = $6, end_date = $7, is_active = $8,
        updated_at = now()
    WHERE owner_id = $9 AND id = $10
    RETURNING created_at, updated_at
  `, c.Employer, plainSalary(c.BaseSalary, salaryEnc), salaryEnc, c.Currency,
		c.WeeklyHours, c.StartDate, c.EndDate, c.IsActive, c.OwnerID, c.ID).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Contract{}, ErrContractNotFound
	}
	if err != nil {
		return Contract{}, err
	}
	return c, nil
}

func (s *Store) DeleteContract(ctx context.Context, ownerID, contractID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM contracts WHERE owner_id = $1 AND id = $2", ownerID, contractID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrContractNotFound
	}
	return nil
}

func (s *Store) ContractSalary(ctx context.Context, ownerID, contractID string) (*string, []byte, error) {
	var plain *string
	var enc []byte
	err := s.DB.QueryRow(ctx, `
    SELECT base_salary::text, base_salary_enc
    FROM contracts
    WHERE owner_id = $1 AND id = $2
  `, ownerID, contractID).Scan(&plain, &enc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrContractNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	return plain, enc, nil
}

func (s *Store) queryContracts(ctx context.Context, query string, args ...any) ([]Contract, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contracts []Contract
	for rows.Next() {
		var c Contract
		var salary decimal.NullDecimal
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Employer, &salary, &c.Currency,
			&c.WeeklyHours, &c.StartDate, &c.EndDate, &c.IsActive,
			&c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		if salary.Valid {
			c.BaseSalary = salary.Decimal
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

const entryColumns = `id, owner_id, contract_id, entry_date, start_time, regular_hours,
  overtime_hours, note, created_at`

func (s *Store) ListEntries(ctx context.Context, ownerID, contractID string, from, to time.Time, limit, offset int) ([]TimeEntry, error) {
	query := fmt.Sprintf(`
    SELECT %s
    FROM time_entries
    WHERE owner_id = $1
  `, entryColumns)
	args := []any{ownerID}
	if contractID != "" {
		args = append(args, contractID)
		query += fmt.Sprintf(" AND contract_id = $%d", len(args))
	}
	if !from.IsZero() {
		args = append(args, from)
		query += fmt.Sprintf(" AND entry_date >= $%d", len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += fmt.Sprintf(" AND entry_date <= $%d", len(args))
	}
	query += " ORDER BY entry_date DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return s.queryEntries(ctx, query, args...)
}

func (s *Store) EntriesInRange(ctx context.Context, ownerID, contractID string, from, to time.Time) ([]TimeEntry, error) {
	return s.queryEntries(ctx, fmt.Sprintf(`
    SELECT %s
    FROM time_entries
    WHERE owner_id = $1 AND contract_id = $2 AND entry_date BETWEEN $3 AND $4
    ORDER BY entry_date
  `, entryColumns), ownerID, contractID, from, to)
}

func (s *Store) CreateEntry(ctx context.Context, e TimeEntry) (TimeEntry, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO time_entries
      (owner_id, contract_id, entry_date, start_time, regular_hours, overtime_hours, note)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id, created_at
  `, e.OwnerID, e.ContractID, e.EntryDate, nullString(e.StartTime),
		e.RegularHours, e.OvertimeHours, nullString(e.Note)).
		Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return TimeEntry{}, err
	}
	return e, nil
}

func (s *Store) UpdateEntry(ctx context.Context, e TimeEntry) (TimeEntry, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE time_entries
    SET entry_date = $1, start_time = $2, regular_hours = $3, overtime_hours = $4, note = $5
    WHERE owner_id = $6 AND id = $7
    RETURNING contract_id, created_at
  `, e.EntryDate, nullString(e.StartTime), e.RegularHours, e.OvertimeHours,
		nullString(e.Note), e.OwnerID, e.ID).
		Scan(&e.ContractID, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TimeEntry{}, ErrEntryNotFound
	}
	if err != nil {
		return TimeEntry{}, err
	}
	return e, nil
}

func (s *Store) DeleteEntry(ctx context.Context, ownerID, entryID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM time_entries WHERE owner_id = $1 AND id = $2", ownerID, entryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]TimeEntry, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		var e TimeEntry
		var startTime, note *string
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.ContractID, &e.EntryDate, &startTime,
			&e.RegularHours, &e.OvertimeHours, &note, &e.CreatedAt); err != nil {
			return nil, err
		}
		if startTime != nil {
			e.StartTime = *startTime
		}
		if note != nil {
			e.Note = *note
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetPolicy(ctx context.Context, ownerID string) (OvertimePolicy, bool, error) {
	var p OvertimePolicy
	err := s.DB.QueryRow(ctx, `
    SELECT id, owner_id, max_weekly_hours, max_monthly_overtime, updated_at
    FROM overtime_policies
    WHERE owner_id = $1
  `, ownerID).Scan(&p.ID, &p.OwnerID, &p.MaxWeeklyHours, &p.MaxMonthlyOvertime, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return OvertimePolicy{}, false, nil
	}
	if err != nil {
		return OvertimePolicy{}, false, err
	}
	return p, true, nil
}

func (s *Store) UpsertPolicy(ctx context.Context, p OvertimePolicy) (OvertimePolicy, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO overtime_policies (owner_id, max_weekly_hours, max_monthly_overtime)
    VALUES ($1,$2,$3)
    ON CONFLICT (owner_id) DO UPDATE
      SET max_weekly_hours = EXCLUDED.max_weekly_hours,
          max_monthly_overtime = EXCLUDED.max_monthly_overtime,
          updated_at = now()
    RETURNING id, updated_at
  `, p.OwnerID, p.MaxWeeklyHours, p.MaxMonthlyOvertime).Scan(&p.ID, &p.UpdatedAt)
	if err != nil {
		return OvertimePolicy{}, err
	}
	return p, nil
}

func plainSalary(salary decimal.Decimal, enc []byte) any {
	if len(enc) > 0 {
		return nil
	}
	return salary
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
