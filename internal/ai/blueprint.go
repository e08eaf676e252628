package ai

import (
	"encoding/json"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/odds"
)

const (
	defaultConfidence = 0.5
	defaultEV         = 0.0
)

// rawBet mirrors one element of the model's "bets" array. Numeric fields
// are pointers so absent and zero can be told apart, and odds stays a
// float until validated because models occasionally emit "odds": -110.0.
type rawBet struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Pick        string   `json:"pick"`
	Odds        *float64 `json:"odds"`
	Line        *float64 `json:"line"`
	Player      string   `json:"player"`
	Reasoning   string   `json:"reasoning"`
	Confidence  *float64 `json:"confidence"`
	EV          *float64 `json:"ev"`
}

type rawBlueprint struct {
	Bets            []rawBet `json:"bets"`
	OverallStrategy string   `json:"overallStrategy"`
	WinProbability  float64  `json:"winProbability"`
	ExpectedValue   float64  `json:"expectedValue"`
}

// BlueprintResponse is a validated blueprint generation result
type BlueprintResponse struct {
	Legs            []models.BetLeg
	OverallStrategy string
	WinProbability  float64
	ExpectedValue   float64
}

// DecodeBlueprint validates a parsed model response into bet legs.
// A missing description or malformed odds value is fatal for the attempt;
// absent or non-finite confidence/ev are defaulted and logged.
func DecodeBlueprint(raw json.RawMessage, logger *logrus.Logger) (*BlueprintResponse, error) {
	var parsed rawBlueprint
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, newParseError("schema mismatch", string(raw))
	}
	if len(parsed.Bets) == 0 {
		return nil, ErrNoBets
	}

	legs := make([]models.BetLeg, 0, len(parsed.Bets))
	for i, bet := range parsed.Bets {
		description := bet.Description
		if description == "" {
			description = bet.Pick
		}
		if description == "" {
			return nil, &ValidationError{Index: i, Field: "description", Msg: "missing"}
		}

		if bet.Odds == nil {
			return nil, &ValidationError{Index: i, Field: "odds", Msg: "missing"}
		}
		if !odds.ValidFloat(*bet.Odds) {
			return nil, &ValidationError{Index: i, Field: "odds", Msg: "not valid american odds"}
		}

		legType := models.LegTypeGame
		if bet.Type == string(models.LegTypePlayerProp) || bet.Player != "" {
			legType = models.LegTypePlayerProp
		}

		confidence := defaultConfidence
		if bet.Confidence != nil && isFinite(*bet.Confidence) {
			confidence = *bet.Confidence
		} else if logger != nil {
			logger.WithFields(logrus.Fields{
				"bet_index":   i,
				"description": description,
			}).Warn("Missing or non-finite confidence, defaulting")
		}

		ev := defaultEV
		if bet.EV != nil && isFinite(*bet.EV) {
			ev = *bet.EV
		} else if logger != nil {
			logger.WithFields(logrus.Fields{
				"bet_index":   i,
				"description": description,
			}).Warn("Missing or non-finite ev, defaulting")
		}

		legs = append(legs, models.BetLeg{
			Type:        legType,
			Description: description,
			Odds:        int(*bet.Odds),
			Line:        bet.Line,
			Player:      bet.Player,
			Reasoning:   bet.Reasoning,
			Confidence:  confidence,
			EV:          ev,
			Result:      models.LegResultPending,
		})
	}

	return &BlueprintResponse{
		Legs:            legs,
		OverallStrategy: parsed.OverallStrategy,
		WinProbability:  parsed.WinProbability,
		ExpectedValue:   parsed.ExpectedValue,
	}, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
