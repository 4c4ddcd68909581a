package store

import (
	"context"
	"time"

	"zakatledger/internal/models"
	"zakatledger/internal/money"
)

// TransactionStore is the append-only transaction log. Rows are never updated
// or deleted; ordering per account is the seq column.
type TransactionStore struct {
	db DB
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

type TransactionInput struct {
	ID               string
	UserID           string
	Kind             models.TransactionKind
	Currency         money.Currency
	AmountMinor      int64
	CounterpartyID   *string
	TransferID       *string
	ResultingBalance int64
}

// Append writes one record, assigning the next per-account sequence number.
// Callers must hold the account's write lock; the unique (user_id, seq)
// constraint rejects any interleaving that slips through.
func (s *TransactionStore) Append(ctx context.Context, tx Tx, input TransactionInput) (models.Transaction, error) {
	var seq int64
	if err := tx.GetContext(ctx, &seq, `
		SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions WHERE user_id = $1
	`, input.UserID); err != nil {
		return models.Transaction{}, err
	}
	record := models.Transaction{
		ID:               input.ID,
		UserID:           input.UserID,
		Seq:              seq,
		Kind:             input.Kind,
		Currency:         input.Currency,
		AmountMinor:      input.AmountMinor,
		CounterpartyID:   input.CounterpartyID,
		TransferID:       input.TransferID,
		ResultingBalance: input.ResultingBalance,
		CreatedAt:        time.Now().UTC(),
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, seq, kind, currency, amount_minor, counterparty_id, transfer_id, resulting_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, record.ID, record.UserID, record.Seq, record.Kind, record.Currency,
		record.AmountMinor, record.CounterpartyID, record.TransferID, record.ResultingBalance, record.CreatedAt)
	if err != nil {
		return models.Transaction{}, err
	}
	return record, nil
}

// ListForUser returns the account's full history in ascending seq order.
func (s *TransactionStore) ListForUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	var rows []models.Transaction
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, seq, kind, currency, amount_minor, counterparty_id, transfer_id, resulting_balance, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY seq ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// SumDeltas folds the log for one account and currency.
func (s *TransactionStore) SumDeltas(ctx context.Context, userID string, currency money.Currency) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount_minor), 0)
		FROM transactions
		WHERE user_id = $1 AND currency = $2
	`, userID, currency)
	return sum, err
}
