package validator

import (
	"errors"
	"regexp"
)

var ErrInvalidUserID = errors.New("invalid user id")

// User IDs are opaque, externally supplied identifiers (Discord snowflakes in
// practice). The ledger only constrains length and charset.
var userIDRegex = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)

func ValidateUserID(userID string) error {
	if !userIDRegex.MatchString(userID) {
		return ErrInvalidUserID
	}
	return nil
}
