package handlers

import (
	"encoding/json"
	"net/http"

	"zakatledger/internal/auth"
	"zakatledger/internal/validator"
	"zakatledger/internal/websocket"
)

type wsTokenRequest struct {
	UserID string `json:"user_id"`
}

// WSToken mints a short-lived token the dispatch layer hands to a user's
// browser client for the balance websocket.
func (h *Handler) WSToken(w http.ResponseWriter, r *http.Request) {
	var req wsTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validator.ValidateUserID(req.UserID); err != nil {
		respondEngineError(w, err)
		return
	}
	token, err := auth.IssueUserToken(h.cfg.JWTSecret, req.UserID, h.cfg.WSTokenTTL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// WSBalances upgrades the connection after validating the query token.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseUserToken(h.cfg.JWTSecret, r.URL.Query().Get("token"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
