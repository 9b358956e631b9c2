package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the scale between stored minor units and major units.
const MinorUnitExponent = 2

// maxMinorDigits is the digit count of math.MaxInt64.
const maxMinorDigits = 19

var (
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
	minMinorUnits = decimal.NewFromInt(math.MinInt64)
)

// ParseMinorUnits converts decimal text in major units into integer minor units.
// The value is scaled by 100 and rounded half away from zero using exact
// decimal arithmetic.
func ParseMinorUnits(text string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}

	if d.IsZero() {
		return 0, nil
	}

	// Bound the magnitude from the exponent before rescaling so that
	// inputs like "1e50000000" never expand into huge integers.
	intDigits := int64(d.NumDigits()) + int64(d.Exponent()) + MinorUnitExponent
	if intDigits > maxMinorDigits {
		return 0, fmt.Errorf("%w: %q", ErrAmountOutOfRange, text)
	}
	if intDigits < 0 {
		// |minor| < 0.1, which rounds to zero.
		return 0, nil
	}

	minor := d.Shift(MinorUnitExponent).Round(0)
	if minor.GreaterThan(maxMinorUnits) || minor.LessThan(minMinorUnits) {
		return 0, fmt.Errorf("%w: %q", ErrAmountOutOfRange, text)
	}

	return minor.IntPart(), nil
}

// MinorToDecimal scales minor units into an exact major unit decimal.
func MinorToDecimal(minor int64) decimal.Decimal {
	return decimal.New(minor, -MinorUnitExponent)
}

// MinorToNullDecimal is MinorToDecimal for optional values.
func MinorToNullDecimal(minor *int64) decimal.NullDecimal {
	if minor == nil {
		return decimal.NullDecimal{}
	}

	return decimal.NewNullDecimal(MinorToDecimal(*minor))
}

// IsKnownCurrency reports whether code is an ISO 4217 code go-money can format.
func IsKnownCurrency(code string) bool {
	return money.GetCurrency(strings.ToUpper(code)) != nil
}

// FormatMinorUnits renders minor units with the currency's symbol and separators.
func FormatMinorUnits(minor int64, currency string) string {
	cur := money.New(0, strings.ToUpper(currency)).Currency()
	value := MinorToDecimal(minor).Shift(int32(cur.Fraction)).Round(0)

	return cur.Formatter().Format(value.IntPart())
}
