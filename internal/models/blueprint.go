package models

import (
	"time"

	"github.com/google/uuid"
)

// BlueprintStatus represents the lifecycle of a generated blueprint
type BlueprintStatus string

const (
	BlueprintStatusReady  BlueprintStatus = "ready"
	BlueprintStatusFailed BlueprintStatus = "failed"
	BlueprintStatusPlaced BlueprintStatus = "placed"
)

// Blueprint is an AI-generated parlay proposal for one strategy preset.
// It becomes a ParlayBet only when the user accepts it.
type Blueprint struct {
	ID             uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	UserID         string          `db:"user_id" json:"user_id" validate:"required"`
	Strategy       string          `db:"strategy" json:"strategy" validate:"required"`
	Description    string          `db:"description" json:"description"`
	Legs           []BetLeg        `db:"legs" json:"legs"`
	Stake          float64         `db:"stake" json:"stake" validate:"gt=0"`
	TotalOdds      float64         `db:"total_odds" json:"total_odds"`
	WinProbability float64         `db:"win_probability" json:"win_probability"`
	ExpectedValue  float64         `db:"expected_value" json:"expected_value"`
	PotentialWin   float64         `db:"potential_win" json:"potential_win"`
	Reasoning      string          `db:"reasoning" json:"reasoning"`
	Model          string          `db:"model" json:"model"`
	Status         BlueprintStatus `db:"status" json:"status"`
	Bankroll       float64         `db:"bankroll" json:"bankroll"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}

// StrategyPreset defines one of the built-in risk profiles the forge
// generates blueprints for.
type StrategyPreset struct {
	Name        string  `json:"name"`
	Risk        float64 `json:"risk"`
	MinBankroll float64 `json:"min_bankroll"`
	Description string  `json:"description"`
}

// DefaultStrategyPresets are the built-in forge strategies, ordered by
// increasing risk appetite.
func DefaultStrategyPresets() []StrategyPreset {
	return []StrategyPreset{
		{Name: "Safe Money", Risk: 0.02, MinBankroll: 50, Description: "Favorites only, low variance"},
		{Name: "Balanced Attack", Risk: 0.05, MinBankroll: 20, Description: "Mix of favorites & value plays"},
		{Name: "High Roller", Risk: 0.10, MinBankroll: 10, Description: "Aggressive underdogs, high upside"},
		{Name: "Player Props Special", Risk: 0.04, MinBankroll: 25, Description: "TD scorers, yards, receptions"},
		{Name: "AI Contrarian", Risk: 0.06, MinBankroll: 20, Description: "Against public, find value"},
		{Name: "Live Arbitrage", Risk: 0.03, MinBankroll: 35, Description: "Line movement opportunities"},
	}
}
