package utils

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO date layout accepted in inputs.
const DateLayout = "2006-01-02"

// ParseDate converts YYYY-MM-DD to time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return t, nil
}

// IsNonDecreasing reports whether xs[i] <= xs[i+1] for all i.
func IsNonDecreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] < xs[i-1] {
			return false
		}
	}
	return true
}

// IsIncreasing reports whether xs[i] < xs[i+1] for all i.
func IsIncreasing(xs []float64) bool {
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return false
		}
	}
	return true
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// RoundTo rounds a float half away from zero to the specified decimal places.
// NaN and infinities are returned unchanged.
func RoundTo(val float64, decimals int32) float64 {
	if !IsFinite(val) {
		return val
	}
	return decimal.NewFromFloat(val).Round(decimals).InexactFloat64()
}
