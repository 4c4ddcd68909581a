// Package zakat computes zakat obligations from account state. The
// computation is a pure function of the account snapshot and the evaluation
// date, so identical inputs always produce identical results.
package zakat

import (
	"time"

	"github.com/shopspring/decimal"

	"zakatledger/internal/models"
	"zakatledger/internal/money"
)

// LunarYearDays is the hawl period used for eligibility. A fixed 354-day
// interval approximates the Islamic lunar year; the Gregorian calendar is
// deliberately not used.
const LunarYearDays = 354

// LunarYear is the hawl period as a duration.
const LunarYear = LunarYearDays * 24 * time.Hour

// Default nisab thresholds in minor units: 85 gold dinars, 595 silver
// dirhams.
const (
	DefaultNisabGoldMinor   = 8500
	DefaultNisabSilverMinor = 59500
)

// Params carries the configurable constants of the calculation. Rate is the
// zakat fraction of eligible wealth, canonically 2.5% (1/40).
type Params struct {
	NisabGoldMinor   int64
	NisabSilverMinor int64
	Rate             decimal.Decimal
}

func DefaultParams() Params {
	return Params{
		NisabGoldMinor:   DefaultNisabGoldMinor,
		NisabSilverMinor: DefaultNisabSilverMinor,
		Rate:             decimal.New(25, -3),
	}
}

func (p Params) nisab(currency money.Currency) int64 {
	if currency == money.Gold {
		return p.NisabGoldMinor
	}
	return p.NisabSilverMinor
}

// CurrencyObligation is the per-currency outcome of an evaluation.
type CurrencyObligation struct {
	Currency   money.Currency `json:"currency"`
	Eligible   bool           `json:"eligible"`
	DueMinor   int64          `json:"due_minor"`
	NisabMinor int64          `json:"nisab_minor"`
	// HawlCompleteAt is when the current hawl period ends (or ended).
	HawlCompleteAt time.Time `json:"hawl_complete_at"`
}

// Obligation is the combined result for both currencies.
type Obligation struct {
	Gold   CurrencyObligation `json:"gold"`
	Silver CurrencyObligation `json:"silver"`
	AsOf   time.Time          `json:"as_of"`
}

// Eligible reports whether any currency carries an obligation.
func (o Obligation) Eligible() bool {
	return o.Gold.Eligible || o.Silver.Eligible
}

// ForCurrency returns the per-currency result.
func (o Obligation) ForCurrency(currency money.Currency) CurrencyObligation {
	if currency == money.Gold {
		return o.Gold
	}
	return o.Silver
}

// ComputeObligation evaluates both currencies independently. A currency is
// eligible when its balance meets the nisab threshold and a full hawl
// (354 days) has elapsed since the last zakat payment, or since account
// creation when no zakat has ever been paid. The due amount is
// balance x rate, rounded down to the smallest minor unit so collection
// never exceeds the exact fraction.
func ComputeObligation(account models.Account, asOf time.Time, params Params) Obligation {
	hawlStart := account.CreatedAt
	if account.LastZakatAt != nil {
		hawlStart = *account.LastZakatAt
	}
	hawlCompleteAt := hawlStart.Add(LunarYear)
	hawlComplete := !asOf.Before(hawlCompleteAt)

	result := Obligation{AsOf: asOf}
	for _, currency := range money.Currencies {
		balance := account.Balance(currency)
		obligation := CurrencyObligation{
			Currency:       currency,
			NisabMinor:     params.nisab(currency),
			HawlCompleteAt: hawlCompleteAt,
		}
		if hawlComplete && balance >= obligation.NisabMinor {
			obligation.Eligible = true
			obligation.DueMinor = dueMinor(balance, params.Rate)
		}
		if currency == money.Gold {
			result.Gold = obligation
		} else {
			result.Silver = obligation
		}
	}
	return result
}

func dueMinor(balanceMinor int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(balanceMinor).Mul(rate).RoundDown(0).IntPart()
}
