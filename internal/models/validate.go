package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var betValidator = newBetValidator()

func newBetValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("american_odds", validateAmericanOdds)
	return v
}

// validateAmericanOdds rejects odds in the open interval (-100, 100),
// which have no meaning in American notation.
func validateAmericanOdds(fl validator.FieldLevel) bool {
	odds := fl.Field().Int()
	return odds >= 100 || odds <= -100
}

// ValidateBet checks a parlay bet's struct constraints before persistence
func ValidateBet(bet *ParlayBet) error {
	if err := betValidator.Struct(bet); err != nil {
		return fmt.Errorf("invalid bet: %w", err)
	}
	return nil
}
