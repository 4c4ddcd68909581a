// Package ledger is the transactional core: every balance mutation runs under
// the owning user's lock, inside one database transaction that updates the
// account row and appends to the transaction log together.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"zakatledger/internal/db"
	"zakatledger/internal/ids"
	"zakatledger/internal/models"
	"zakatledger/internal/money"
	"zakatledger/internal/obs"
	"zakatledger/internal/store"
	"zakatledger/internal/websocket"
	"zakatledger/internal/zakat"
)

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
	ErrStoreUnavailable  = errors.New("store unavailable")
)

type AccountStore interface {
	Ensure(ctx context.Context, tx store.Execer, userID string) error
	Get(ctx context.Context, userID string) (models.Account, error)
	GetForUpdate(ctx context.Context, tx store.Tx, userID string) (models.Account, error)
	UpdateBalance(ctx context.Context, tx store.Execer, userID string, currency money.Currency, balance int64) error
	AddCharityGiven(ctx context.Context, tx store.Execer, userID string, currency money.Currency, delta int64) error
	SetZakatPaidAt(ctx context.Context, tx store.Execer, userID string, paidAt time.Time) error
}

type TransactionStore interface {
	Append(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error)
	ListForUser(ctx context.Context, userID string) ([]models.Transaction, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID, action, entityID, data string) error
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

type Engine struct {
	txRunner  db.TxRunner
	accounts  AccountStore
	log       TransactionStore
	audit     AuditStore
	hub       BalanceHub
	locks     *accountLocks
	params    zakat.Params
	opTimeout time.Duration
	now       func() time.Time
}

func New(txRunner db.TxRunner, accounts AccountStore, log TransactionStore, audit AuditStore, hub BalanceHub, params zakat.Params, opTimeout time.Duration) *Engine {
	if opTimeout <= 0 {
		opTimeout = 5 * time.Second
	}
	return &Engine{
		txRunner:  txRunner,
		accounts:  accounts,
		log:       log,
		audit:     audit,
		hub:       hub,
		locks:     newAccountLocks(),
		params:    params,
		opTimeout: opTimeout,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the engine clock. Intended for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Deposit credits the user's balance.
func (e *Engine) Deposit(ctx context.Context, userID string, amount money.Amount) (models.Transaction, error) {
	started := time.Now()
	record, err := e.singleAccountOp(ctx, userID, amount, models.KindDeposit)
	obs.ObserveOperation("deposit", outcome(err), started)
	return record, err
}

// Withdraw debits the user's balance, rejecting overdraw.
func (e *Engine) Withdraw(ctx context.Context, userID string, amount money.Amount) (models.Transaction, error) {
	started := time.Now()
	record, err := e.singleAccountOp(ctx, userID, amount, models.KindWithdrawal)
	obs.ObserveOperation("withdraw", outcome(err), started)
	return record, err
}

// PayCharity debits the balance and bumps the lifetime charity total.
func (e *Engine) PayCharity(ctx context.Context, userID string, amount money.Amount) (models.Transaction, error) {
	started := time.Now()
	record, err := e.singleAccountOp(ctx, userID, amount, models.KindCharity)
	obs.ObserveOperation("charity", outcome(err), started)
	return record, err
}

func (e *Engine) singleAccountOp(ctx context.Context, userID string, amount money.Amount, kind models.TransactionKind) (models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return models.Transaction{}, err
	}
	unlock := e.locks.lock(userID)
	defer unlock()

	opCtx, cancel := e.operationContext(ctx)
	defer cancel()

	var record models.Transaction
	var balances balancePair
	err := e.txRunner.WithTx(opCtx, func(tx *sqlx.Tx) error {
		if err := e.accounts.Ensure(opCtx, tx, userID); err != nil {
			return err
		}
		account, err := e.accounts.GetForUpdate(opCtx, tx, userID)
		if err != nil {
			return err
		}
		delta := amount.Minor
		if kind != models.KindDeposit {
			if account.Balance(amount.Currency) < amount.Minor {
				return ErrInsufficientFunds
			}
			delta = -amount.Minor
		}
		newBalance := account.Balance(amount.Currency) + delta
		if err := e.accounts.UpdateBalance(opCtx, tx, userID, amount.Currency, newBalance); err != nil {
			return err
		}
		if kind == models.KindCharity {
			if err := e.accounts.AddCharityGiven(opCtx, tx, userID, amount.Currency, amount.Minor); err != nil {
				return err
			}
		}
		record, err = e.log.Append(opCtx, tx, store.TransactionInput{
			ID:               ids.New(),
			UserID:           userID,
			Kind:             kind,
			Currency:         amount.Currency,
			AmountMinor:      delta,
			ResultingBalance: newBalance,
		})
		if err != nil {
			return err
		}
		balances = applyBalance(account, amount.Currency, newBalance)
		return e.auditOp(opCtx, tx, userID, string(kind), record)
	})
	if err != nil {
		return models.Transaction{}, e.classify(err)
	}
	e.broadcast(userID, balances, record.Seq)
	return record, nil
}

// TransferReceipt pairs the two records a transfer appends: one debit on the
// sender's log, one matching credit on the recipient's.
type TransferReceipt struct {
	TransferID string             `json:"transfer_id"`
	Out        models.Transaction `json:"out"`
	In         models.Transaction `json:"in"`
}

// Transfer atomically moves an amount between two users. Either both records
// commit or neither balance changes.
func (e *Engine) Transfer(ctx context.Context, fromID, toID string, amount money.Amount) (TransferReceipt, error) {
	started := time.Now()
	receipt, err := e.transfer(ctx, fromID, toID, amount)
	obs.ObserveOperation("transfer", outcome(err), started)
	return receipt, err
}

func (e *Engine) transfer(ctx context.Context, fromID, toID string, amount money.Amount) (TransferReceipt, error) {
	if err := validateAmount(amount); err != nil {
		return TransferReceipt{}, err
	}
	if fromID == toID {
		return TransferReceipt{}, ErrSameAccount
	}
	unlock := e.locks.lockPair(fromID, toID)
	defer unlock()

	opCtx, cancel := e.operationContext(ctx)
	defer cancel()

	var receipt TransferReceipt
	var fromBalances, toBalances balancePair
	err := e.txRunner.WithTx(opCtx, func(tx *sqlx.Tx) error {
		// Row locks in the same fixed order as the in-process locks.
		firstID, secondID := orderedIDs(fromID, toID)
		for _, id := range []string{firstID, secondID} {
			if err := e.accounts.Ensure(opCtx, tx, id); err != nil {
				return err
			}
		}
		first, err := e.accounts.GetForUpdate(opCtx, tx, firstID)
		if err != nil {
			return err
		}
		second, err := e.accounts.GetForUpdate(opCtx, tx, secondID)
		if err != nil {
			return err
		}
		from, to := first, second
		if fromID != firstID {
			from, to = second, first
		}

		if from.Balance(amount.Currency) < amount.Minor {
			return ErrInsufficientFunds
		}
		newFrom := from.Balance(amount.Currency) - amount.Minor
		newTo := to.Balance(amount.Currency) + amount.Minor
		if err := e.accounts.UpdateBalance(opCtx, tx, fromID, amount.Currency, newFrom); err != nil {
			return err
		}
		if err := e.accounts.UpdateBalance(opCtx, tx, toID, amount.Currency, newTo); err != nil {
			return err
		}

		transferID := uuid.NewString()
		out, err := e.log.Append(opCtx, tx, store.TransactionInput{
			ID:               ids.New(),
			UserID:           fromID,
			Kind:             models.KindTransfer,
			Currency:         amount.Currency,
			AmountMinor:      -amount.Minor,
			CounterpartyID:   &toID,
			TransferID:       &transferID,
			ResultingBalance: newFrom,
		})
		if err != nil {
			return err
		}
		in, err := e.log.Append(opCtx, tx, store.TransactionInput{
			ID:               ids.New(),
			UserID:           toID,
			Kind:             models.KindTransfer,
			Currency:         amount.Currency,
			AmountMinor:      amount.Minor,
			CounterpartyID:   &fromID,
			TransferID:       &transferID,
			ResultingBalance: newTo,
		})
		if err != nil {
			return err
		}
		receipt = TransferReceipt{TransferID: transferID, Out: out, In: in}
		fromBalances = applyBalance(from, amount.Currency, newFrom)
		toBalances = applyBalance(to, amount.Currency, newTo)
		return e.auditOp(opCtx, tx, fromID, "transfer", out)
	})
	if err != nil {
		return TransferReceipt{}, e.classify(err)
	}
	e.broadcast(fromID, fromBalances, receipt.Out.Seq)
	e.broadcast(toID, toBalances, receipt.In.Seq)
	return receipt, nil
}

// ZakatReceipt reports the evaluated obligation and, when eligible, the
// charity payments that settled it. Eligible=false is a normal outcome and
// carries no error.
type ZakatReceipt struct {
	Obligation zakat.Obligation     `json:"obligation"`
	Payments   []models.Transaction `json:"payments,omitempty"`
	PaidAt     *time.Time           `json:"paid_at,omitempty"`
}

// PayZakat evaluates the obligation and settles it as charity payments in one
// atomic unit, stamping the payment date. When nothing is due the account and
// log are left untouched.
func (e *Engine) PayZakat(ctx context.Context, userID string) (ZakatReceipt, error) {
	started := time.Now()
	receipt, err := e.payZakat(ctx, userID)
	obs.ObserveOperation("zakat", outcome(err), started)
	return receipt, err
}

func (e *Engine) payZakat(ctx context.Context, userID string) (ZakatReceipt, error) {
	unlock := e.locks.lock(userID)
	defer unlock()

	opCtx, cancel := e.operationContext(ctx)
	defer cancel()

	now := e.now()
	var receipt ZakatReceipt
	var balances balancePair
	var lastSeq int64
	err := e.txRunner.WithTx(opCtx, func(tx *sqlx.Tx) error {
		if err := e.accounts.Ensure(opCtx, tx, userID); err != nil {
			return err
		}
		account, err := e.accounts.GetForUpdate(opCtx, tx, userID)
		if err != nil {
			return err
		}
		receipt = ZakatReceipt{Obligation: zakat.ComputeObligation(account, now, e.params)}
		if !receipt.Obligation.Eligible() {
			return nil
		}
		balances = balancePair{gold: account.GoldBalance, silver: account.SilverBalance}
		for _, currency := range money.Currencies {
			due := receipt.Obligation.ForCurrency(currency)
			if !due.Eligible || due.DueMinor <= 0 {
				continue
			}
			newBalance := account.Balance(currency) - due.DueMinor
			if err := e.accounts.UpdateBalance(opCtx, tx, userID, currency, newBalance); err != nil {
				return err
			}
			if err := e.accounts.AddCharityGiven(opCtx, tx, userID, currency, due.DueMinor); err != nil {
				return err
			}
			record, err := e.log.Append(opCtx, tx, store.TransactionInput{
				ID:               ids.New(),
				UserID:           userID,
				Kind:             models.KindZakat,
				Currency:         currency,
				AmountMinor:      -due.DueMinor,
				ResultingBalance: newBalance,
			})
			if err != nil {
				return err
			}
			receipt.Payments = append(receipt.Payments, record)
			balances = applyBalanceMinor(balances, currency, newBalance)
			lastSeq = record.Seq
		}
		if err := e.accounts.SetZakatPaidAt(opCtx, tx, userID, now); err != nil {
			return err
		}
		receipt.PaidAt = &now
		data, _ := json.Marshal(map[string]any{"payments": len(receipt.Payments)})
		return e.audit.Log(opCtx, tx, userID, "zakat", userID, string(data))
	})
	if err != nil {
		return ZakatReceipt{}, e.classify(err)
	}
	if receipt.PaidAt != nil {
		for _, payment := range receipt.Payments {
			obs.AddZakatCollected(string(payment.Currency), -payment.AmountMinor)
		}
		e.broadcast(userID, balances, lastSeq)
	}
	return receipt, nil
}

// Obligation previews the zakat due without mutating anything.
func (e *Engine) Obligation(ctx context.Context, userID string) (zakat.Obligation, error) {
	account, err := e.accounts.Get(ctx, userID)
	if err != nil {
		return zakat.Obligation{}, e.classify(err)
	}
	return zakat.ComputeObligation(account, e.now(), e.params), nil
}

// Account returns the user's current state, a zero-balance snapshot for
// unknown users.
func (e *Engine) Account(ctx context.Context, userID string) (models.Account, error) {
	account, err := e.accounts.Get(ctx, userID)
	if err != nil {
		return models.Account{}, e.classify(err)
	}
	return account, nil
}

// History returns the account's transaction log in append order.
func (e *Engine) History(ctx context.Context, userID string) ([]models.Transaction, error) {
	records, err := e.log.ListForUser(ctx, userID)
	if err != nil {
		return nil, e.classify(err)
	}
	return records, nil
}

// operationContext detaches from the caller's cancellation so an in-flight
// mutation always runs to completion or rolls back, bounded by the
// configured store timeout instead.
func (e *Engine) operationContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), e.opTimeout)
}

func (e *Engine) auditOp(ctx context.Context, tx store.Execer, userID, action string, record models.Transaction) error {
	data, _ := json.Marshal(map[string]string{"transaction_id": record.ID})
	return e.audit.Log(ctx, tx, userID, action, record.ID, string(data))
}

// classify separates expected business outcomes from durability faults; the
// latter surface as retryable ErrStoreUnavailable.
func (e *Engine) classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrSameAccount),
		errors.Is(err, money.ErrUnknownCurrency),
		errors.Is(err, money.ErrCurrencyMismatch):
		return err
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}

func validateAmount(amount money.Amount) error {
	if !amount.Currency.Valid() {
		return money.ErrUnknownCurrency
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrStoreUnavailable):
		return "fault"
	default:
		return "rejected"
	}
}

type balancePair struct {
	gold   int64
	silver int64
}

func applyBalance(account models.Account, currency money.Currency, balance int64) balancePair {
	return applyBalanceMinor(balancePair{gold: account.GoldBalance, silver: account.SilverBalance}, currency, balance)
}

func applyBalanceMinor(balances balancePair, currency money.Currency, balance int64) balancePair {
	if currency == money.Gold {
		balances.gold = balance
	} else {
		balances.silver = balance
	}
	return balances
}

func (e *Engine) broadcast(userID string, balances balancePair, seq int64) {
	if e.hub == nil {
		return
	}
	e.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		UserID: userID,
		Gold:   money.FormatMinor(balances.gold),
		Silver: money.FormatMinor(balances.silver),
		Seq:    seq,
	})
}
