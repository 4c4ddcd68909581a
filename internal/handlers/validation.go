package handlers

import (
	"zakatledger/internal/money"
	"zakatledger/internal/validator"
)

// parseOperationAmount validates the user id and builds a positive Amount
// from raw request fields.
func parseOperationAmount(userID, currencyRaw, amountRaw string) (money.Amount, error) {
	if err := validator.ValidateUserID(userID); err != nil {
		return money.Amount{}, err
	}
	amount, err := money.Parse(currencyRaw, amountRaw)
	if err != nil {
		return money.Amount{}, err
	}
	if !amount.IsPositive() {
		return money.Amount{}, money.ErrInvalidAmount
	}
	return amount, nil
}
