package zakat

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zakatledger/internal/models"
	"zakatledger/internal/money"
)

func account(gold, silver int64, createdAt time.Time) models.Account {
	return models.Account{
		UserID:        "u",
		GoldBalance:   gold,
		SilverBalance: silver,
		CreatedAt:     createdAt,
	}
}

func TestComputeObligationBelowNisab(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := createdAt.Add(LunarYear).Add(24 * time.Hour)

	// 60.00 gold is under the 85.00 nisab even after a full hawl.
	result := ComputeObligation(account(6000, 0, createdAt), asOf, DefaultParams())
	assert.False(t, result.Gold.Eligible)
	assert.Zero(t, result.Gold.DueMinor)
	assert.False(t, result.Silver.Eligible)
	assert.False(t, result.Eligible())
}

func TestComputeObligationAtAndAboveNisab(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := createdAt.Add(LunarYear)

	tests := []struct {
		name     string
		gold     int64
		eligible bool
		due      int64
	}{
		{"just below threshold", 8499, false, 0},
		{"exactly at threshold", 8500, true, 212}, // 8500 * 0.025 = 212.5, floored
		{"hundred dinars", 10000, true, 250},
		{"large holding", 123456789, true, 3086419}, // 3086419.725 floored
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeObligation(account(tt.gold, 0, createdAt), asOf, DefaultParams())
			assert.Equal(t, tt.eligible, result.Gold.Eligible)
			assert.Equal(t, tt.due, result.Gold.DueMinor)
		})
	}
}

func TestComputeObligationHawlBoundary(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	holdings := account(10000, 0, createdAt)
	params := DefaultParams()

	// One second before the 354th day: not yet due.
	early := ComputeObligation(holdings, createdAt.Add(LunarYear).Add(-time.Second), params)
	assert.False(t, early.Gold.Eligible)

	// At the exact boundary the hawl is complete.
	onTime := ComputeObligation(holdings, createdAt.Add(LunarYear), params)
	assert.True(t, onTime.Gold.Eligible)
	assert.Equal(t, createdAt.Add(LunarYear), onTime.Gold.HawlCompleteAt)
}

func TestComputeObligationHawlRestartsAfterPayment(t *testing.T) {
	createdAt := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	paidAt := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	holdings := account(10000, 0, createdAt)
	holdings.LastZakatAt = &paidAt

	// Wealth above nisab, but the clock restarted at the last payment.
	justAfter := ComputeObligation(holdings, paidAt.Add(24*time.Hour), DefaultParams())
	assert.False(t, justAfter.Gold.Eligible)

	nextDue := ComputeObligation(holdings, paidAt.Add(LunarYear), DefaultParams())
	assert.True(t, nextDue.Gold.Eligible)
}

func TestComputeObligationCurrenciesIndependent(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := createdAt.Add(LunarYear)

	// Gold above its nisab, silver below its own: only gold is due, and the
	// silver shortfall never borrows from gold.
	result := ComputeObligation(account(10000, 50000, createdAt), asOf, DefaultParams())
	assert.True(t, result.Gold.Eligible)
	assert.Equal(t, int64(250), result.Gold.DueMinor)
	assert.False(t, result.Silver.Eligible)
	assert.Zero(t, result.Silver.DueMinor)
	assert.True(t, result.Eligible())

	assert.Equal(t, result.Gold, result.ForCurrency(money.Gold))
	assert.Equal(t, result.Silver, result.ForCurrency(money.Silver))
}

func TestComputeObligationRoundsDown(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := createdAt.Add(LunarYear)
	params := DefaultParams()

	// Balances whose 2.5% is not a whole number of minor units are floored,
	// never rounded up: the collector must not take more than the fraction.
	tests := []struct {
		silver int64
		due    int64
	}{
		{59500, 1487}, // 1487.5
		{59501, 1487}, // 1487.525
		{59539, 1488}, // 1488.475
		{60000, 1500}, // exact
	}
	for _, tt := range tests {
		result := ComputeObligation(account(0, tt.silver, createdAt), asOf, params)
		require.True(t, result.Silver.Eligible)
		assert.Equal(t, tt.due, result.Silver.DueMinor, "balance %d", tt.silver)
	}
}

func TestComputeObligationIsDeterministic(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := createdAt.Add(LunarYear).Add(37 * time.Hour)
	holdings := account(987654, 321098, createdAt)
	params := DefaultParams()

	first := ComputeObligation(holdings, asOf, params)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, ComputeObligation(holdings, asOf, params))
	}
}

func TestComputeObligationCustomParams(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	asOf := createdAt.Add(LunarYear)
	params := Params{
		NisabGoldMinor:   5000,
		NisabSilverMinor: 30000,
		Rate:             decimal.New(5, -2), // 5%
	}

	result := ComputeObligation(account(5000, 29999, createdAt), asOf, params)
	assert.True(t, result.Gold.Eligible)
	assert.Equal(t, int64(250), result.Gold.DueMinor)
	assert.False(t, result.Silver.Eligible)
}
