// Package money provides fixed-point currency arithmetic in minor units.
//
// Amounts are stored as int64 hundredths (cents/grosze) so that repeated
// additions inside allocation loops never accumulate floating-point drift.
// Conversion to and from the 2-decimal display scale happens only at the
// boundary, through shopspring/decimal.
package money

import (
	"bytes"
	"fmt"

	"github.com/shopspring/decimal"
	"payopt/pkg/constants"
)

// Amount is a currency amount in minor units (hundredths).
type Amount int64

// Zero is the zero amount.
const Zero Amount = 0

// Parse converts a 2-decimal string such as "100.00" into an Amount.
// Values with more than two decimal places are rounded half-up.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromDecimal converts a decimal value to minor units, rounding half-up
// to two decimal places.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Shift(constants.AmountScale).Round(0).IntPart())
}

// Decimal returns the amount at display scale.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -constants.AmountScale)
}

// String renders the amount with exactly two decimal places.
func (a Amount) String() string {
	return a.Decimal().StringFixed(constants.AmountScale)
}

// MarshalJSON renders the amount as a 2-decimal JSON string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(data, `"`))
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Min returns the smaller of two amounts.
func Min(a, b Amount) Amount {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func Max(a, b Amount) Amount {
	if a > b {
		return a
	}
	return b
}

// PercentOf computes pct percent of a, rounded half-up.
func PercentOf(a Amount, pct int) Amount {
	return Amount(divHalfUp(int64(a)*int64(pct), 100))
}

// ApplyDiscount subtracts a pct percent discount from a, with the
// discount itself rounded half-up.
func ApplyDiscount(a Amount, pct int) Amount {
	return a - PercentOf(a, pct)
}

// GrossFromNet recovers the pre-discount magnitude of a net amount that
// had a pct percent discount applied, rounded half-up. A 100 percent or
// larger discount has no finite gross; the net amount is returned as-is.
func GrossFromNet(net Amount, pct int) Amount {
	if pct <= 0 {
		return net
	}
	if pct >= 100 {
		return net
	}
	return Amount(divHalfUp(int64(net)*100, int64(100-pct)))
}

// Ratio4 computes num/den at four decimal places, half-up, as an integer
// number of ten-thousandths. Returns 0 when den is not positive.
func Ratio4(num, den Amount) int64 {
	if den <= 0 {
		return 0
	}
	return divHalfUp(int64(num)*10000, int64(den))
}

// divHalfUp divides n by d rounding half away from zero. d must be positive.
func divHalfUp(n, d int64) int64 {
	if n >= 0 {
		return (2*n + d) / (2 * d)
	}
	return -((-2*n + d) / (2 * d))
}
