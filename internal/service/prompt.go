package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/parlay-forge/internal/models"
)

const responseSchema = `Respond with ONLY a JSON object, no markdown, no commentary:
{
  "bets": [
    {
      "type": "game" or "player_prop",
      "description": "e.g. Chiefs ML, Eagles -3.5, Over 47.5",
      "odds": american odds integer (magnitude >= 100, never between -99 and 99),
      "line": optional number,
      "player": optional player name for props,
      "reasoning": "one sentence",
      "confidence": 0.0 to 1.0,
      "ev": expected value fraction
    }
  ],
  "overallStrategy": "one sentence",
  "winProbability": 0.0 to 1.0,
  "expectedValue": number
}`

func systemPrompt(preset models.StrategyPreset) string {
	return fmt.Sprintf(
		"You are an expert sports betting analyst building a parlay for the %q strategy: %s. "+
			"Pick 2-4 legs from the games provided, using only the quoted odds. %s",
		preset.Name, preset.Description, responseSchema,
	)
}

func userPrompt(preset models.StrategyPreset, gamesPrompt string) string {
	return fmt.Sprintf(
		"Build a %s parlay from these upcoming games:\n\n%s",
		preset.Name, gamesPrompt,
	)
}

// formatGamesPrompt renders odds events into the compact text block the
// model is prompted with. Only the first bookmaker's lines are shown.
func formatGamesPrompt(events []models.OddsEvent) string {
	var b strings.Builder
	for _, event := range events {
		fmt.Fprintf(&b, "%s @ %s (%s)\n",
			event.AwayTeam, event.HomeTeam, event.CommenceTime.Format("Mon Jan 2 15:04 MST"))

		if len(event.Bookmakers) == 0 {
			b.WriteString("  no odds quoted\n\n")
			continue
		}
		for _, market := range event.Bookmakers[0].Markets {
			fmt.Fprintf(&b, "  %s:", marketLabel(market.Key))
			for _, outcome := range market.Outcomes {
				if outcome.Point != nil {
					fmt.Fprintf(&b, " %s %+.1f (%+d)", outcome.Name, *outcome.Point, outcome.Price)
				} else {
					fmt.Fprintf(&b, " %s (%+d)", outcome.Name, outcome.Price)
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func marketLabel(key string) string {
	switch key {
	case "h2h":
		return "Moneyline"
	case "spreads":
		return "Spread"
	case "totals":
		return "Total"
	default:
		return key
	}
}
