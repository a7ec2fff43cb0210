package num

import (
	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

func NewDecimalFromFloat(f float64) Decimal {
	return decimal.NewFromFloat(f)
}

func DecimalZero() Decimal {
	return decimal.Zero
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

// DecimalFromUint converts a Uint into a Decimal with no loss of precision.
func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), 0)
}

// DecimalFromString parses a Decimal from its string representation.
func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

// MustDecimalFromString parses a Decimal from its string representation,
// panicking on invalid input. For use with constants only.
func MustDecimalFromString(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
