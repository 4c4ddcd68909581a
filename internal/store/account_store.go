package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"zakatledger/internal/models"
	"zakatledger/internal/money"
)

type AccountStore struct {
	db DB
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// Ensure creates the account row with zero balances if it does not exist yet.
// Safe to call on every operation; existing rows are left untouched.
func (s *AccountStore) Ensure(ctx context.Context, tx Execer, userID string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	return err
}

// Get reads the account without locking. Unknown users get a zero-balance
// snapshot dated now; the row itself is only written by mutating operations.
func (s *AccountStore) Get(ctx context.Context, userID string) (models.Account, error) {
	var row models.Account
	err := s.db.GetContext(ctx, &row, `
		SELECT user_id, gold_balance, silver_balance, gold_charity_given, silver_charity_given, last_zakat_at, created_at
		FROM accounts
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{UserID: userID, CreatedAt: time.Now().UTC()}, nil
	}
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

// GetForUpdate locks the account row for the duration of the transaction.
func (s *AccountStore) GetForUpdate(ctx context.Context, tx Tx, userID string) (models.Account, error) {
	var row models.Account
	err := tx.GetContext(ctx, &row, `
		SELECT user_id, gold_balance, silver_balance, gold_charity_given, silver_charity_given, last_zakat_at, created_at
		FROM accounts
		WHERE user_id = $1
		FOR UPDATE
	`, userID)
	if err != nil {
		return models.Account{}, err
	}
	return row, nil
}

func (s *AccountStore) UpdateBalance(ctx context.Context, tx Execer, userID string, currency money.Currency, balance int64) error {
	query := `UPDATE accounts SET silver_balance = $1, updated_at = NOW() WHERE user_id = $2`
	if currency == money.Gold {
		query = `UPDATE accounts SET gold_balance = $1, updated_at = NOW() WHERE user_id = $2`
	}
	_, err := tx.ExecContext(ctx, query, balance, userID)
	return err
}

// AddCharityGiven bumps the lifetime charity counter; delta must be positive,
// the counter never decreases.
func (s *AccountStore) AddCharityGiven(ctx context.Context, tx Execer, userID string, currency money.Currency, delta int64) error {
	query := `UPDATE accounts SET silver_charity_given = silver_charity_given + $1, updated_at = NOW() WHERE user_id = $2`
	if currency == money.Gold {
		query = `UPDATE accounts SET gold_charity_given = gold_charity_given + $1, updated_at = NOW() WHERE user_id = $2`
	}
	_, err := tx.ExecContext(ctx, query, delta, userID)
	return err
}

func (s *AccountStore) SetZakatPaidAt(ctx context.Context, tx Execer, userID string, paidAt time.Time) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts SET last_zakat_at = $1, updated_at = NOW() WHERE user_id = $2
	`, paidAt.UTC(), userID)
	return err
}

// BalanceCheck compares the stored balance against the fold of the
// transaction log for one currency.
type BalanceCheck struct {
	UserID        string         `db:"user_id" json:"user_id"`
	Currency      money.Currency `db:"currency" json:"currency"`
	StoredBalance int64          `db:"stored_balance" json:"stored_balance"`
	LedgerSum     int64          `db:"ledger_sum" json:"ledger_sum"`
	Difference    int64          `db:"difference" json:"difference"`
}

// SelfCheck recomputes each currency balance from the transaction log and
// reports any drift from the stored value.
func (s *AccountStore) SelfCheck(ctx context.Context, userID string) ([]BalanceCheck, error) {
	var rows []BalanceCheck
	err := s.db.SelectContext(ctx, &rows, `
		SELECT a.user_id,
		       c.currency,
		       CASE WHEN c.currency = 'gold' THEN a.gold_balance ELSE a.silver_balance END AS stored_balance,
		       COALESCE(SUM(t.amount_minor), 0) AS ledger_sum,
		       (CASE WHEN c.currency = 'gold' THEN a.gold_balance ELSE a.silver_balance END
		        - COALESCE(SUM(t.amount_minor), 0)) AS difference
		FROM accounts a
		CROSS JOIN (VALUES ('gold'), ('silver')) AS c(currency)
		LEFT JOIN transactions t ON t.user_id = a.user_id AND t.currency = c.currency
		WHERE a.user_id = $1
		GROUP BY a.user_id, c.currency, a.gold_balance, a.silver_balance
		ORDER BY c.currency
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
