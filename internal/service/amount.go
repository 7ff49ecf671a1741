package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/bank-server/internal/bankerr"
)

// maxAmountPlaces is the number of decimal places a monetary amount may
// carry.
const maxAmountPlaces = 2

// ParseAmount reads a positive monetary amount from its decimal string
// form. Anything else, including a value with more than two decimal places,
// is ErrInvalidAmount.
func ParseAmount(s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, bankerr.ErrInvalidAmount
	}
	if !amount.IsPositive() || !amount.Equal(amount.Round(maxAmountPlaces)) {
		return decimal.Decimal{}, bankerr.ErrInvalidAmount
	}
	return amount, nil
}
