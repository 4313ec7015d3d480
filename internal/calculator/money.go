package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds x to 2 decimal places, half away from zero.
//
// x is taken at its shortest decimal representation before rounding, so
// 1.005 rounds to 1.01 and -1.005 to -1.01 even though neither is exactly
// representable as a float64. NaN and infinities are returned unchanged.
func Round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	return decimal.NewFromFloat(x).Round(2).InexactFloat64()
}

// RoundPtr rounds a nullable amount, keeping nil as nil.
func RoundPtr(x *float64) *float64 {
	if x == nil {
		return nil
	}
	r := Round2(*x)
	return &r
}
