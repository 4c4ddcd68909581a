package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"zakatledger/internal/models"
	"zakatledger/internal/money"
	"zakatledger/internal/validator"
)

type operationRequest struct {
	UserID   string `json:"user_id"`
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
}

type transferRequest struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Currency   string `json:"currency"`
	Amount     string `json:"amount"`
}

func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	h.singleAccountOp(w, r, h.engine.Deposit)
}

func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.singleAccountOp(w, r, h.engine.Withdraw)
}

func (h *Handler) PayCharity(w http.ResponseWriter, r *http.Request) {
	h.singleAccountOp(w, r, h.engine.PayCharity)
}

func (h *Handler) singleAccountOp(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID string, amount money.Amount) (models.Transaction, error)) {
	var req operationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	amount, err := parseOperationAmount(req.UserID, req.Currency, req.Amount)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	record, err := op(r.Context(), req.UserID, amount)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, renderTransaction(record))
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateUserID(req.ToUserID); err != nil {
		respondEngineError(w, err)
		return
	}
	amount, err := parseOperationAmount(req.FromUserID, req.Currency, req.Amount)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	receipt, err := h.engine.Transfer(r.Context(), req.FromUserID, req.ToUserID, amount)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"transfer_id": receipt.TransferID,
		"out":         renderTransaction(receipt.Out),
		"in":          renderTransaction(receipt.In),
	})
}
