// Package odds provides American odds conversion and parlay aggregation.
package odds

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidAmericanOdds indicates an odds value inside the open interval
// (-100, 100), which has no meaning in the American quoting convention.
var ErrInvalidAmericanOdds = errors.New("american odds magnitude must be at least 100")

// Valid reports whether o is a well-formed American odds value.
func Valid(o int) bool {
	return o >= 100 || o <= -100
}

// ValidFloat reports whether a float-typed odds value is finite and
// well-formed. AI responses deliver odds as JSON numbers, so callers
// validate before truncating to int.
func ValidFloat(o float64) bool {
	if math.IsNaN(o) || math.IsInf(o, 0) {
		return false
	}
	return o >= 100 || o <= -100
}

// Decimal converts American odds to the decimal payout multiplier.
// decimal(+150) = 2.5, decimal(-110) ~= 1.909, decimal(±100) = 2.0.
func Decimal(o int) (float64, error) {
	if !Valid(o) {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidAmericanOdds, o)
	}
	if o > 0 {
		return 1 + float64(o)/100, nil
	}
	return 1 + 100/math.Abs(float64(o)), nil
}

// ImpliedProbability returns the bookmaker-implied win probability,
// the reciprocal of the decimal multiplier.
func ImpliedProbability(o int) (float64, error) {
	dec, err := Decimal(o)
	if err != nil {
		return 0, err
	}
	return 1 / dec, nil
}
