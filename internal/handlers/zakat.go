package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zakatledger/internal/validator"
)

// GetObligation previews the zakat due for an account without paying it.
func (h *Handler) GetObligation(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := validator.ValidateUserID(userID); err != nil {
		respondEngineError(w, err)
		return
	}
	obligation, err := h.engine.Obligation(r.Context(), userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, obligation)
}

type zakatPayRequest struct {
	UserID string `json:"user_id"`
}

// PayZakat settles the current obligation. An ineligible account is a normal
// outcome: the response carries eligible=false and no payments.
func (h *Handler) PayZakat(w http.ResponseWriter, r *http.Request) {
	var req zakatPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateUserID(req.UserID); err != nil {
		respondEngineError(w, err)
		return
	}
	receipt, err := h.engine.PayZakat(r.Context(), req.UserID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	payments := make([]map[string]any, 0, len(receipt.Payments))
	for _, record := range receipt.Payments {
		payments = append(payments, renderTransaction(record))
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"eligible":   receipt.Obligation.Eligible(),
		"obligation": receipt.Obligation,
		"payments":   payments,
		"paid_at":    receipt.PaidAt,
	})
}
