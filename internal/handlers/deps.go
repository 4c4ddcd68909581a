package handlers

import (
	"context"

	"zakatledger/internal/config"
	"zakatledger/internal/ledger"
	"zakatledger/internal/models"
	"zakatledger/internal/money"
	"zakatledger/internal/store"
	"zakatledger/internal/websocket"
	"zakatledger/internal/zakat"
)

type LedgerEngine interface {
	Deposit(ctx context.Context, userID string, amount money.Amount) (models.Transaction, error)
	Withdraw(ctx context.Context, userID string, amount money.Amount) (models.Transaction, error)
	PayCharity(ctx context.Context, userID string, amount money.Amount) (models.Transaction, error)
	Transfer(ctx context.Context, fromID, toID string, amount money.Amount) (ledger.TransferReceipt, error)
	PayZakat(ctx context.Context, userID string) (ledger.ZakatReceipt, error)
	Obligation(ctx context.Context, userID string) (zakat.Obligation, error)
	Account(ctx context.Context, userID string) (models.Account, error)
	History(ctx context.Context, userID string) ([]models.Transaction, error)
}

type AccountChecker interface {
	SelfCheck(ctx context.Context, userID string) ([]store.BalanceCheck, error)
}

type AuditLister interface {
	List(ctx context.Context, limit, offset int) ([]models.AuditEntry, error)
}

type Handler struct {
	cfg      config.Config
	engine   LedgerEngine
	accounts AccountChecker
	audit    AuditLister
	hub      *websocket.Hub
}

func New(cfg config.Config, engine LedgerEngine, accounts AccountChecker, audit AuditLister, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:      cfg,
		engine:   engine,
		accounts: accounts,
		audit:    audit,
		hub:      hub,
	}
}
