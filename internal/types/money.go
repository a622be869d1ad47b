// README: Common money value object used across modules.
package types

import (
	"fmt"
	"math"
)

// Money holds an amount in minor units (cents) so fares never carry
// binary-float residue once settled.
type Money struct {
	Amount   int64
	Currency string
}

// MoneyFromFloat rounds a major-unit amount to the nearest cent.
func MoneyFromFloat(v float64, currency string) Money {
	return Money{Amount: int64(math.Round(v * 100)), Currency: currency}
}

// Float returns the amount in major units for display and JSON.
func (m Money) Float() float64 {
	return float64(m.Amount) / 100
}

func (m Money) String() string {
	return fmt.Sprintf("%.2f %s", m.Float(), m.Currency)
}
