package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{DB: pool}
}

const accountColumns = `a.id, a.owner_id, a.name, a.kind, a.currency, a.opening_balance,
  a.opening_balance + COALESCE(SUM(t.amount), 0) AS balance,
  a.is_archived, a.created_at, a.updated_at`

const accountQuery = `
  SELECT ` + accountColumns + `
  FROM accounts a
  LEFT JOIN transactions t ON t.account_id = a.id
`

func (s *Store) ListAccounts(ctx context.Context, ownerID string, includeArchived bool) ([]Account, error) {
	query := accountQuery + " WHERE a.owner_id = $1"
	if !includeArchived {
		query += " AND NOT a.is_archived"
	}
	query += " GROUP BY a.id ORDER BY a.name"
	return s.queryAccounts(ctx, query, ownerID)
}

func (s *Store) GetAccount(ctx context.Context, ownerID, accountID string) (Account, error) {
	accounts, err := s.queryAccounts(ctx, accountQuery+" WHERE a.owner_id = $1 AND a.id = $2 GROUP BY a.id", ownerID, accountID)
	if err != nil {
		return Account{}, err
	}
	if len(accounts) == 0 {
		return Account{}, ErrAccountNotFound
	}
	return accounts[0], nil
}

func (s *Store) CreateAccount(ctx context.Context, a Account) (Account, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO accounts (owner_id, name, kind, currency, opening_balance, is_archived)
    VALUES ($1,$2,$3,$4,$5,false)
    RETURNING id, created_at, updated_at
  `, a.OwnerID, a.Name, a.Kind, a.Currency, a.OpeningBalance).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Account{}, err
	}
	a.Balance = a.OpeningBalance
	return a, nil
}

func (s *Store) UpdateAccount(ctx context.Context, a Account) (Account, error) {
	err := s.DB.QueryRow(ctx, `
    UPDATE accounts
    SET name = $1, kind = $2, currency = $3, opening_balance = $4, is_archived = $5,
        updated_at = now()
    WHERE owner_id = $6 AND id = $7
    RETURNING created_at, updated_at
  `, a.Name, a.Kind, a.Currency, a.OpeningBalance, a.IsArchived, a.OwnerID, a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Account{}, ErrAccountNotFound
	}
	if err != nil {
		return Account{}, err
	}
	return s.GetAccount(ctx, a.OwnerID, a.ID)
}

func (s *Store) queryAccounts(ctx context.Context, query string, args ...any) ([]Account, error) {
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Kind, &a.Currency,
			&a.OpeningBalance, &a.Balance, &a.IsArchived, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (s *Store) AccountArchived(ctx context.Context, ownerID, accountID string) (bool, error) {
	var archived bool
	err := s.DB.QueryRow(ctx, "SELECT is_archived FROM accounts WHERE owner_id = $1 AND id = $2", ownerID, accountID).Scan(&archived)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrAccountNotFound
	}
	return archived, err
}

const txColumns = `id, account_id, owner_id, amount, category, memo, occurred_on, created_at`

func (s *Store) ListTransactions(ctx context.Context, ownerID string, filter TransactionFilter) ([]Transaction, error) {
	query := fmt.Sprintf("SELECT %s FROM transactions WHERE owner_id = $1", txColumns)
	args := []any{ownerID}
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		query += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += fmt.Sprintf(" AND occurred_on >= $%d", len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += fmt.Sprintf(" AND occurred_on <= $%d", len(args))
	}
	query += " ORDER BY occurred_on DESC, created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []Transaction
	for rows.Next() {
		var t Transaction
		var memo *string
		if err := rows.Scan(&t.ID, &t.AccountID, &t.OwnerID, &t.Amount, &t.Category,
			&memo, &t.OccurredOn, &t.CreatedAt); err != nil {
			return nil, err
		}
		if memo != nil {
			t.Memo = *memo
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func (s *Store) CreateTransaction(ctx context.Context, t Transaction) (Transaction, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO transactions (account_id, owner_id, amount, category, memo, occurred_on)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id, created_at
  `, t.AccountID, t.OwnerID, t.Amount, t.Category, nullString(t.Memo), t.OccurredOn).
		Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return Transaction{}, err
	}
	return t, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, ownerID, txID string) error {
	tag, err := s.DB.Exec(ctx, "DELETE FROM transactions WHERE owner_id = $1 AND id = $2", ownerID, txID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *Store) MonthlyCashflow(ctx context.Context, ownerID string, months int) ([]MonthlyCashflow, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT to_char(date_trunc('month', occurred_on), 'YYYY-MM') AS month,
           COALESCE(SUM(amount) FILTER (WHERE amount > 0), 0) AS income,
           COALESCE(SUM(-amount) FILTER (WHERE amount < 0), 0) AS expense
    FROM transactions
    WHERE owner_id = $1 AND occurred_on >= date_trunc('month', now()) - make_interval(months => $2)
    GROUP BY 1
    ORDER BY 1 DESC
  `, ownerID, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthlyCashflow
	for rows.Next() {
		var m MonthlyCashflow
		if err := rows.Scan(&m.Month, &m.Income, &m.Expense); err != nil {
			return nil, err
		}
		m.Net = m.Income.Sub(m.Expense)
		out = append(out, m)
	}
	return out, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
