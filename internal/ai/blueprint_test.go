package ai

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/parlay-forge/internal/models"
)

func TestDecodeBlueprint(t *testing.T) {
	raw := json.RawMessage(`{
		"bets": [
			{"type":"game","description":"Chiefs -3.5","odds":-110,"line":-3.5,"reasoning":"strong home record","confidence":0.68,"ev":0.07},
			{"type":"player_prop","description":"Mahomes Over 2.5 Passing TDs","odds":150,"player":"Patrick Mahomes","confidence":0.55,"ev":0.12}
		],
		"overallStrategy": "favorites plus one prop",
		"winProbability": 0.31,
		"expectedValue": 0.09
	}`)

	resp, err := DecodeBlueprint(raw, nil)
	require.NoError(t, err)
	require.Len(t, resp.Legs, 2)

	assert.Equal(t, models.LegTypeGame, resp.Legs[0].Type)
	assert.Equal(t, -110, resp.Legs[0].Odds)
	assert.Equal(t, models.LegResultPending, resp.Legs[0].Result)
	assert.Equal(t, models.LegTypePlayerProp, resp.Legs[1].Type)
	assert.Equal(t, "Patrick Mahomes", resp.Legs[1].Player)
	assert.Equal(t, 0.31, resp.WinProbability)
}

func TestDecodeBlueprintPickAlias(t *testing.T) {
	raw := json.RawMessage(`{"bets":[{"pick":"Bills ML","odds":-130}]}`)

	resp, err := DecodeBlueprint(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bills ML", resp.Legs[0].Description)
}

func TestDecodeBlueprintDefaultsOptionalFields(t *testing.T) {
	raw := json.RawMessage(`{"bets":[{"description":"Under 44.5","odds":-105}]}`)

	resp, err := DecodeBlueprint(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, defaultConfidence, resp.Legs[0].Confidence)
	assert.Equal(t, defaultEV, resp.Legs[0].EV)
}

func TestDecodeBlueprintFatalFields(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"missing description", `{"bets":[{"odds":-110}]}`, "description"},
		{"missing odds", `{"bets":[{"description":"Chiefs ML"}]}`, "odds"},
		{"odds inside invalid band", `{"bets":[{"description":"Chiefs ML","odds":55}]}`, "odds"},
		{"negative invalid band", `{"bets":[{"description":"Chiefs ML","odds":-99}]}`, "odds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBlueprint(json.RawMessage(tt.raw), nil)

			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
}

func TestDecodeBlueprintEmptyBets(t *testing.T) {
	_, err := DecodeBlueprint(json.RawMessage(`{"bets":[]}`), nil)
	assert.ErrorIs(t, err, ErrNoBets)
}
