package main

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
)

// formatAmount renders whole currency units, e.g. ₩2,000,000.
// Amounts are scaled to the currency's minor unit first, so currencies
// with cents still display the right value. Amounts too large to scale
// are printed unformatted with the currency code.
func formatAmount(amount int64, currency string) string {
	c := money.GetCurrency(currency)
	if c == nil {
		return money.New(amount, money.KRW).Display()
	}
	scale := int64(1)
	for i := 0; i < c.Fraction; i++ {
		scale *= 10
	}
	if amount > math.MaxInt64/scale || amount < math.MinInt64/scale {
		return fmt.Sprintf("%d %s", amount, c.Code)
	}
	return money.New(amount*scale, currency).Display()
}
