// Package settlement grades bet legs against completed games and
// finalizes parlay bets.
package settlement

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/models"
)

// Market labels reported by the grader, used for metrics and audit logs.
const (
	MarketMoneyline  = "moneyline"
	MarketSpread     = "spread"
	MarketTotal      = "total"
	MarketPlayerProp = "player_prop"
	MarketUnmatched  = "unmatched"
)

var (
	moneylinePattern    = regexp.MustCompile(`\bml\b|moneyline`)
	signedNumberPattern = regexp.MustCompile(`[+-]\d+(\.\d+)?`)
	numberPattern       = regexp.MustCompile(`\d+(\.\d+)?`)
)

// Grader classifies AI-generated leg descriptions against final scores.
// Descriptions are prose, not normalized bet codes, so every rule is a
// heuristic and every branch has a logged default instead of an error.
type Grader struct {
	logger *logrus.Logger
}

// NewGrader creates a grader
func NewGrader(logger *logrus.Logger) *Grader {
	return &Grader{logger: logger}
}

// MatchGame associates a leg with the first completed game whose home or
// away team is named in the leg description. Returns nil when no
// completed game matches; the caller keeps such legs pending.
func (g *Grader) MatchGame(leg models.BetLeg, games []models.CompletedGame) *models.CompletedGame {
	desc := strings.ToLower(leg.Description)
	for i := range games {
		game := &games[i]
		if !game.Completed {
			continue
		}
		if teamNamed(desc, game.HomeTeam) || teamNamed(desc, game.AwayTeam) {
			return game
		}
	}
	return nil
}

// Grade resolves one leg against a completed game. The first matching
// rule wins: moneyline, spread, total, player prop, then a logged miss
// for anything unrecognized. Grade never fails.
func (g *Grader) Grade(leg models.BetLeg, game *models.CompletedGame) (models.LegResult, string) {
	desc := strings.ToLower(leg.Description)
	homeScore, awayScore, ok := finalScores(game)
	if !ok {
		g.logger.WithFields(logrus.Fields{
			"description": leg.Description,
			"game_id":     game.ID,
		}).Warn("Completed game has unparseable scores, grading leg as miss")
		return models.LegResultMiss, MarketUnmatched
	}

	if moneylinePattern.MatchString(desc) {
		return g.gradeMoneyline(desc, game, homeScore, awayScore), MarketMoneyline
	}

	if strings.Contains(desc, "spread") || signedNumberPattern.MatchString(desc) {
		return g.gradeSpread(desc, game, homeScore, awayScore), MarketSpread
	}

	if strings.Contains(desc, "over") || strings.Contains(desc, "under") {
		return g.gradeTotal(desc, homeScore, awayScore), MarketTotal
	}

	if leg.Type == models.LegTypePlayerProp || leg.Player != "" {
		g.logger.WithField("description", leg.Description).
			Debug("Player prop cannot be graded from team scores, resolving as miss")
		return models.LegResultMiss, MarketPlayerProp
	}

	g.logger.WithField("description", leg.Description).
		Warn("Leg description matched no bet-type pattern, resolving as miss")
	return models.LegResultMiss, MarketUnmatched
}

func (g *Grader) gradeMoneyline(desc string, game *models.CompletedGame, homeScore, awayScore float64) models.LegResult {
	switch {
	case teamNamed(desc, game.HomeTeam):
		return hitIf(homeScore > awayScore)
	case teamNamed(desc, game.AwayTeam):
		return hitIf(awayScore > homeScore)
	default:
		g.logger.WithField("description", desc).
			Warn("Moneyline leg names neither team, resolving as miss")
		return models.LegResultMiss
	}
}

func (g *Grader) gradeSpread(desc string, game *models.CompletedGame, homeScore, awayScore float64) models.LegResult {
	line, err := strconv.ParseFloat(signedNumberPattern.FindString(desc), 64)
	if err != nil {
		g.logger.WithField("description", desc).
			Warn("Spread leg has no parseable line, resolving as miss")
		return models.LegResultMiss
	}

	switch {
	case teamNamed(desc, game.HomeTeam):
		return hitIf(homeScore+line > awayScore)
	case teamNamed(desc, game.AwayTeam):
		return hitIf(awayScore+line > homeScore)
	default:
		g.logger.WithField("description", desc).
			Warn("Spread leg names neither team, resolving as miss")
		return models.LegResultMiss
	}
}

func (g *Grader) gradeTotal(desc string, homeScore, awayScore float64) models.LegResult {
	line, err := strconv.ParseFloat(numberPattern.FindString(desc), 64)
	if err != nil {
		g.logger.WithField("description", desc).
			Warn("Total leg has no parseable line, resolving as miss")
		return models.LegResultMiss
	}

	total := homeScore + awayScore
	if strings.Contains(desc, "under") {
		return hitIf(total < line)
	}
	return hitIf(total > line)
}

// teamNamed reports whether the description mentions a team by its full
// name or its nickname (the last word of the name). AI descriptions
// almost always use the nickname form, e.g. "Chiefs ML".
func teamNamed(desc, team string) bool {
	name := strings.ToLower(strings.TrimSpace(team))
	if name == "" {
		return false
	}
	if strings.Contains(desc, name) {
		return true
	}
	words := strings.Fields(name)
	nickname := words[len(words)-1]
	return strings.Contains(desc, nickname)
}

// finalScores extracts both teams' scores from the feed record. Scores
// arrive as strings and are matched to teams by name, falling back to
// positional order when names do not line up.
func finalScores(game *models.CompletedGame) (home, away float64, ok bool) {
	if len(game.Scores) < 2 {
		return 0, 0, false
	}

	homeRaw, awayRaw := game.Scores[0].Score, game.Scores[1].Score
	for _, s := range game.Scores {
		switch s.Name {
		case game.HomeTeam:
			homeRaw = s.Score
		case game.AwayTeam:
			awayRaw = s.Score
		}
	}

	home, errHome := strconv.ParseFloat(homeRaw, 64)
	away, errAway := strconv.ParseFloat(awayRaw, 64)
	if errHome != nil || errAway != nil {
		return 0, 0, false
	}
	return home, away, true
}

func hitIf(condition bool) models.LegResult {
	if condition {
		return models.LegResultHit
	}
	return models.LegResultMiss
}
