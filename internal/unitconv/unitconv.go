// Package unitconv converts human decimal amounts to fixed-point token
// units. Token amounts on chain are integers scaled by 10^decimals, so
// all arithmetic here runs on arbitrary-precision integers; a float
// round-trip would mis-price large amounts by whole units.
package unitconv

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ToFixedPointUnits converts a decimal amount string into an integer
// string scaled by 10^decimals.
//
// The conversion fails soft: anything that does not parse as a plain
// signed decimal ("abc", "", ".", "-") yields "0". Callers must treat
// "0" as unparseable and abort the provider call rather than quote a
// zero amount.
func ToFixedPointUnits(amount string, decimals int) string {
	if decimals < 0 {
		return "0"
	}

	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			return r
		}
		return -1
	}, amount)

	if cleaned == "" || cleaned == "-" || cleaned == "." {
		return "0"
	}

	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")

	intPart, fracPart, _ := strings.Cut(cleaned, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !isDigits(intPart) {
		return "0"
	}

	// Pad or truncate the fraction to exactly `decimals` digits.
	if len(fracPart) < decimals {
		fracPart += strings.Repeat("0", decimals-len(fracPart))
	} else {
		fracPart = fracPart[:decimals]
	}
	if fracPart != "" && !isDigits(fracPart) {
		return "0"
	}

	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	units, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		return "0"
	}
	units.Mul(units, scale)

	if fracPart != "" {
		frac, ok := new(big.Int).SetString(fracPart, 10)
		if !ok {
			return "0"
		}
		units.Add(units, frac)
	}

	if negative {
		units.Neg(units)
	}
	return units.String()
}

// FromFixedPointUnits converts an integer unit string back into a
// decimal for display. Boundary use only; never feed the result back
// into unit math.
func FromFixedPointUnits(units string, decimals int) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(units)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Shift(int32(-decimals)), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
