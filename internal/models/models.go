package models

import (
	"time"

	"zakatledger/internal/money"
)

// Account holds the current state for one user. Accounts are created lazily
// on first reference and never deleted; all mutation goes through the ledger
// engine.
type Account struct {
	UserID             string     `db:"user_id" json:"user_id"`
	GoldBalance        int64      `db:"gold_balance" json:"gold_balance"`
	SilverBalance      int64      `db:"silver_balance" json:"silver_balance"`
	GoldCharityGiven   int64      `db:"gold_charity_given" json:"gold_charity_given"`
	SilverCharityGiven int64      `db:"silver_charity_given" json:"silver_charity_given"`
	LastZakatAt        *time.Time `db:"last_zakat_at" json:"last_zakat_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// Balance returns the stored balance for one currency in minor units.
func (a Account) Balance(currency money.Currency) int64 {
	if currency == money.Gold {
		return a.GoldBalance
	}
	return a.SilverBalance
}

// CharityGiven returns the lifetime charity total for one currency.
func (a Account) CharityGiven(currency money.Currency) int64 {
	if currency == money.Gold {
		return a.GoldCharityGiven
	}
	return a.SilverCharityGiven
}

type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindTransfer   TransactionKind = "transfer"
	KindCharity    TransactionKind = "charity"
	KindZakat      TransactionKind = "zakat"
)

// Transaction is an immutable ledger record. AmountMinor is the signed delta
// applied to the account balance, so folding all of an account's records from
// zero reproduces its stored balance. Seq is strictly increasing per account.
type Transaction struct {
	ID               string          `db:"id" json:"id"`
	UserID           string          `db:"user_id" json:"user_id"`
	Seq              int64           `db:"seq" json:"seq"`
	Kind             TransactionKind `db:"kind" json:"kind"`
	Currency         money.Currency  `db:"currency" json:"currency"`
	AmountMinor      int64           `db:"amount_minor" json:"amount_minor"`
	CounterpartyID   *string         `db:"counterparty_id" json:"counterparty_id,omitempty"`
	TransferID       *string         `db:"transfer_id" json:"transfer_id,omitempty"`
	ResultingBalance int64           `db:"resulting_balance" json:"resulting_balance"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

type AuditEntry struct {
	ID        string    `db:"id" json:"id"`
	ActorID   string    `db:"actor_id" json:"actor_id"`
	Action    string    `db:"action" json:"action"`
	EntityID  string    `db:"entity_id" json:"entity_id"`
	Data      string    `db:"data" json:"data"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
