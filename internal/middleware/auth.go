package middleware

import (
	"net/http"
	"strings"

	"zakatledger/internal/auth"
)

// ServiceAuth gates the ledger API behind the dispatch layer's service token,
// presented as a bearer credential.
func ServiceAuth(tokenHash, plainToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "invalid authorization header", http.StatusUnauthorized)
				return
			}
			if err := auth.VerifyServiceToken(tokenHash, plainToken, parts[1]); err != nil {
				http.Error(w, "invalid service token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
