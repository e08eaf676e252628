package odds

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/yourusername/parlay-forge/internal/models"
)

// Summary holds the aggregate pricing of a parlay. TotalOdds and
// WinProbability are multiplicative and therefore order-independent.
type Summary struct {
	TotalOdds       float64
	WinProbability  float64
	PotentialPayout float64
}

// Aggregate computes the combined multiplier, theoretical win probability
// and potential payout for a parlay. The probability assumes independent
// legs; correlated same-game legs overstate it. That approximation is
// user-visible and intentionally left uncorrected.
func Aggregate(legs []models.BetLeg, stake float64) (*Summary, error) {
	if len(legs) == 0 {
		return nil, models.ErrNoLegs
	}
	if stake <= 0 {
		return nil, models.ErrInvalidStake
	}

	totalOdds := 1.0
	winProb := 1.0
	for i, leg := range legs {
		dec, err := Decimal(leg.Odds)
		if err != nil {
			return nil, fmt.Errorf("leg %d (%q): %w", i+1, leg.Description, err)
		}
		totalOdds *= dec
		winProb *= 1 / dec
	}

	return &Summary{
		TotalOdds:       totalOdds,
		WinProbability:  winProb,
		PotentialPayout: RoundCurrency(stake * totalOdds),
	}, nil
}

// RoundCurrency rounds a currency amount to cents. Payouts are shown to
// users, so half-up rounding via decimal avoids float display artifacts.
func RoundCurrency(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return v
}
