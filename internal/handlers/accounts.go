package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"zakatledger/internal/validator"
)

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := validator.ValidateUserID(userID); err != nil {
		respondEngineError(w, err)
		return
	}
	account, err := h.engine.Account(r.Context(), userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, renderAccount(account))
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := validator.ValidateUserID(userID); err != nil {
		respondEngineError(w, err)
		return
	}
	records, err := h.engine.History(r.Context(), userID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	payload := make([]map[string]any, 0, len(records))
	for _, record := range records {
		payload = append(payload, renderTransaction(record))
	}
	respondJSON(w, http.StatusOK, payload)
}

// SelfCheck reports stored balances next to the fold of the transaction log;
// any non-zero difference means ledger drift.
func (h *Handler) SelfCheck(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if err := validator.ValidateUserID(userID); err != nil {
		respondEngineError(w, err)
		return
	}
	checks, err := h.accounts.SelfCheck(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to self-check")
		return
	}
	respondJSON(w, http.StatusOK, checks)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50)
	offset := parseQueryInt(r, "offset", 0)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	entries, err := h.audit.List(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to load audit logs")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
