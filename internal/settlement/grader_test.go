package settlement

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/parlay-forge/internal/models"
)

func testGrader() *Grader {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewGrader(logger)
}

func completedGame(home, away string, homeScore, awayScore string) *models.CompletedGame {
	return &models.CompletedGame{
		ID:        "test-game",
		Completed: true,
		HomeTeam:  home,
		AwayTeam:  away,
		Scores: []models.GameScore{
			{Name: home, Score: homeScore},
			{Name: away, Score: awayScore},
		},
	}
}

func TestGrade(t *testing.T) {
	grader := testGrader()

	tests := []struct {
		name       string
		leg        models.BetLeg
		game       *models.CompletedGame
		wantResult models.LegResult
		wantMarket string
	}{
		{
			name:       "moneyline home winner hits",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Chiefs ML"},
			game:       completedGame("Kansas City Chiefs", "Las Vegas Raiders", "27", "20"),
			wantResult: models.LegResultHit,
			wantMarket: MarketMoneyline,
		},
		{
			name:       "moneyline home loser misses",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Chiefs ML"},
			game:       completedGame("Kansas City Chiefs", "Las Vegas Raiders", "17", "20"),
			wantResult: models.LegResultMiss,
			wantMarket: MarketMoneyline,
		},
		{
			name:       "moneyline away winner hits",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Raiders moneyline"},
			game:       completedGame("Kansas City Chiefs", "Las Vegas Raiders", "17", "20"),
			wantResult: models.LegResultHit,
			wantMarket: MarketMoneyline,
		},
		{
			name:       "spread not covered on a tie misses",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Eagles -3.5"},
			game:       completedGame("Philadelphia Eagles", "Dallas Cowboys", "20", "20"),
			wantResult: models.LegResultMiss,
			wantMarket: MarketSpread,
		},
		{
			name:       "spread covered by favorite hits",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Eagles -3.5"},
			game:       completedGame("Philadelphia Eagles", "Dallas Cowboys", "24", "20"),
			wantResult: models.LegResultHit,
			wantMarket: MarketSpread,
		},
		{
			name:       "underdog spread on away team hits",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Chiefs +7.5"},
			game:       completedGame("Buffalo Bills", "Kansas City Chiefs", "24", "20"),
			wantResult: models.LegResultHit,
			wantMarket: MarketSpread,
		},
		{
			name:       "over the line hits",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Over 47.5 Chiefs vs Bills"},
			game:       completedGame("Buffalo Bills", "Kansas City Chiefs", "27", "24"),
			wantResult: models.LegResultHit,
			wantMarket: MarketTotal,
		},
		{
			name:       "over short of the line misses",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Over 47.5 Chiefs vs Bills"},
			game:       completedGame("Buffalo Bills", "Kansas City Chiefs", "24", "20"),
			wantResult: models.LegResultMiss,
			wantMarket: MarketTotal,
		},
		{
			name:       "under the line hits",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Under 47.5 Chiefs vs Bills"},
			game:       completedGame("Buffalo Bills", "Kansas City Chiefs", "24", "20"),
			wantResult: models.LegResultHit,
			wantMarket: MarketTotal,
		},
		{
			name:       "total exactly on the line misses",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Over 47 Chiefs vs Bills"},
			game:       completedGame("Buffalo Bills", "Kansas City Chiefs", "27", "20"),
			wantResult: models.LegResultMiss,
			wantMarket: MarketTotal,
		},
		{
			name: "player prop resolves miss",
			leg: models.BetLeg{
				Type:        models.LegTypePlayerProp,
				Description: "Patrick Mahomes anytime touchdown",
				Player:      "Patrick Mahomes",
			},
			game:       completedGame("Kansas City Chiefs", "Buffalo Bills", "27", "24"),
			wantResult: models.LegResultMiss,
			wantMarket: MarketPlayerProp,
		},
		{
			name:       "unrecognized description resolves miss",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Chiefs to look great tonight"},
			game:       completedGame("Kansas City Chiefs", "Buffalo Bills", "27", "24"),
			wantResult: models.LegResultMiss,
			wantMarket: MarketUnmatched,
		},
		{
			name:       "moneyline naming neither team resolves miss",
			leg:        models.BetLeg{Type: models.LegTypeGame, Description: "Jets ML"},
			game:       completedGame("Kansas City Chiefs", "Buffalo Bills", "27", "24"),
			wantResult: models.LegResultMiss,
			wantMarket: MarketMoneyline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, market := grader.Grade(tt.leg, tt.game)
			assert.Equal(t, tt.wantResult, result)
			assert.Equal(t, tt.wantMarket, market)
		})
	}
}

func TestGradeUnparseableScores(t *testing.T) {
	grader := testGrader()
	game := completedGame("Kansas City Chiefs", "Buffalo Bills", "n/a", "24")

	result, market := grader.Grade(models.BetLeg{Description: "Chiefs ML"}, game)

	assert.Equal(t, models.LegResultMiss, result)
	assert.Equal(t, MarketUnmatched, market)
}

func TestMatchGame(t *testing.T) {
	grader := testGrader()

	inProgress := models.CompletedGame{
		ID:        "live",
		Completed: false,
		HomeTeam:  "Kansas City Chiefs",
		AwayTeam:  "Buffalo Bills",
	}
	finished := *completedGame("Kansas City Chiefs", "Buffalo Bills", "27", "24")
	finished.ID = "chiefs-bills"
	other := *completedGame("Philadelphia Eagles", "Dallas Cowboys", "31", "14")
	other.ID = "eagles-cowboys"
	games := []models.CompletedGame{inProgress, other, finished}

	t.Run("matches by nickname and skips unfinished games", func(t *testing.T) {
		game := grader.MatchGame(models.BetLeg{Description: "Chiefs ML"}, games)
		require.NotNil(t, game)
		assert.Equal(t, finished.ID, game.ID)
	})

	t.Run("matches away team", func(t *testing.T) {
		game := grader.MatchGame(models.BetLeg{Description: "Cowboys +6.5"}, games)
		require.NotNil(t, game)
		assert.Equal(t, other.ID, game.ID)
	})

	t.Run("no match leaves leg unresolvable", func(t *testing.T) {
		game := grader.MatchGame(models.BetLeg{Description: "Jets ML"}, games)
		assert.Nil(t, game)
	})
}
