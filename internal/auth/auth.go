// Package auth covers the two credentials the service accepts: the dispatch
// layer's long-lived service token, and short-lived per-user tokens minted
// for the balance websocket.
package auth

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidServiceToken = errors.New("invalid service token")
)

type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// IssueUserToken mints a short-lived token tied to one user ID, used by
// websocket clients that cannot send headers.
func IssueUserToken(secret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseUserToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// VerifyServiceToken checks a presented token against the configured bcrypt
// hash. When no hash is configured (development), it falls back to a
// constant-time comparison with the plain configured token.
func VerifyServiceToken(tokenHash, plainToken, presented string) error {
	if presented == "" {
		return ErrInvalidServiceToken
	}
	if tokenHash != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(presented)); err != nil {
			return ErrInvalidServiceToken
		}
		return nil
	}
	if plainToken == "" {
		return ErrInvalidServiceToken
	}
	if subtle.ConstantTimeCompare([]byte(plainToken), []byte(presented)) != 1 {
		return ErrInvalidServiceToken
	}
	return nil
}
