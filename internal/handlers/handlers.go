package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"zakatledger/internal/ledger"
	"zakatledger/internal/models"
	"zakatledger/internal/money"
	"zakatledger/internal/validator"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError maps the engine's typed failures onto HTTP statuses:
// validation problems are 400, business rules 422, durability faults 503.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrSameAccount),
		errors.Is(err, money.ErrUnknownCurrency),
		errors.Is(err, money.ErrCurrencyMismatch),
		errors.Is(err, money.ErrInvalidAmount),
		errors.Is(err, money.ErrTooManyDecimals),
		errors.Is(err, validator.ErrInvalidUserID):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ledger.ErrStoreUnavailable):
		respondError(w, http.StatusServiceUnavailable, "store unavailable, retry later")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func renderTransaction(record models.Transaction) map[string]any {
	payload := map[string]any{
		"id":                record.ID,
		"user_id":           record.UserID,
		"seq":               record.Seq,
		"kind":              record.Kind,
		"currency":          record.Currency,
		"amount":            money.FormatMinor(record.AmountMinor),
		"amount_minor":      record.AmountMinor,
		"resulting_balance": money.FormatMinor(record.ResultingBalance),
		"created_at":        record.CreatedAt,
	}
	if record.CounterpartyID != nil {
		payload["counterparty_id"] = *record.CounterpartyID
	}
	if record.TransferID != nil {
		payload["transfer_id"] = *record.TransferID
	}
	return payload
}

func renderAccount(account models.Account) map[string]any {
	return map[string]any{
		"user_id":              account.UserID,
		"gold_balance":         money.FormatMinor(account.GoldBalance),
		"silver_balance":       money.FormatMinor(account.SilverBalance),
		"gold_charity_given":   money.FormatMinor(account.GoldCharityGiven),
		"silver_charity_given": money.FormatMinor(account.SilverCharityGiven),
		"last_zakat_at":        account.LastZakatAt,
		"created_at":           account.CreatedAt,
	}
}
