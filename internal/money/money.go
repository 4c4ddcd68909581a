package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Currency is the closed set of ledger currencies. There is no dynamic
// extension: anything that is not gold or silver is rejected at the boundary.
type Currency string

const (
	Gold   Currency = "gold"
	Silver Currency = "silver"
)

// Currencies lists every supported currency in canonical order.
var Currencies = []Currency{Gold, Silver}

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrTooManyDecimals  = errors.New("amount has too many decimal places")
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

func ParseCurrency(raw string) (Currency, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gold", "dinar":
		return Gold, nil
	case "silver", "dirham":
		return Silver, nil
	}
	return "", ErrUnknownCurrency
}

func (c Currency) Valid() bool {
	return c == Gold || c == Silver
}

// Unit returns the traditional unit name for the currency.
func (c Currency) Unit() string {
	if c == Gold {
		return "dinar"
	}
	return "dirham"
}

// Amount is a fixed-point quantity of a single currency, held in minor units
// (two decimal places). Arithmetic across currencies is a typed error, never
// a silent coercion.
type Amount struct {
	Currency Currency
	Minor    int64
}

func New(currency Currency, minor int64) Amount {
	return Amount{Currency: currency, Minor: minor}
}

// Parse builds an Amount from raw currency and decimal-string inputs.
func Parse(currencyRaw, amountRaw string) (Amount, error) {
	currency, err := ParseCurrency(currencyRaw)
	if err != nil {
		return Amount{}, err
	}
	minor, err := ParseMinor(amountRaw)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Currency: currency, Minor: minor}, nil
}

func (a Amount) Add(b Amount) (Amount, error) {
	if a.Currency != b.Currency {
		return Amount{}, ErrCurrencyMismatch
	}
	return Amount{Currency: a.Currency, Minor: a.Minor + b.Minor}, nil
}

func (a Amount) Sub(b Amount) (Amount, error) {
	if a.Currency != b.Currency {
		return Amount{}, ErrCurrencyMismatch
	}
	return Amount{Currency: a.Currency, Minor: a.Minor - b.Minor}, nil
}

func (a Amount) IsPositive() bool { return a.Minor > 0 }
func (a Amount) IsNegative() bool { return a.Minor < 0 }

func (a Amount) String() string {
	return FormatMinor(a.Minor) + " " + string(a.Currency)
}

// ParseMinor parses a decimal string with at most two fractional digits into
// minor units.
func ParseMinor(input string) (int64, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return 0, ErrInvalidAmount
	}
	sign := int64(1)
	switch trimmed[0] {
	case '-':
		sign = -1
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}
	parts := strings.SplitN(trimmed, ".", 2)
	wholePart := parts[0]
	if wholePart == "" {
		wholePart = "0"
	}
	if !isDigits(wholePart) {
		return 0, ErrInvalidAmount
	}
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > 2 {
		return 0, ErrTooManyDecimals
	}
	if fracPart != "" && !isDigits(fracPart) {
		return 0, ErrInvalidAmount
	}
	whole, err := strconv.ParseInt(wholePart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	frac := int64(0)
	if len(fracPart) == 1 {
		frac = int64(fracPart[0]-'0') * 10
	} else if len(fracPart) == 2 {
		value, err := strconv.ParseInt(fracPart, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
		frac = value
	}
	minor := whole*100 + frac
	return sign * minor, nil
}

// FormatMinor renders minor units as a plain decimal string.
func FormatMinor(value int64) string {
	negative := value < 0
	if negative {
		value = -value
	}
	whole := value / 100
	frac := value % 100
	formatted := fmt.Sprintf("%d.%02d", whole, frac)
	if negative {
		return "-" + formatted
	}
	return formatted
}

func isDigits(value string) bool {
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
