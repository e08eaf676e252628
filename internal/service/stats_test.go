package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yourusername/parlay-forge/internal/models"
)

func settledBet(status models.BetStatus, stake, payout float64) *models.ParlayBet {
	bet := &models.ParlayBet{
		Stake:     stake,
		TotalOdds: 4.0,
		Status:    status,
	}
	if status != models.BetStatusPending {
		profit := payout - stake
		bet.ActualPayout = &payout
		bet.Profit = &profit
	}
	return bet
}

func TestComputeStats(t *testing.T) {
	bets := []*models.ParlayBet{
		settledBet(models.BetStatusWon, 20, 80),
		settledBet(models.BetStatusLost, 10, 0),
		settledBet(models.BetStatusLost, 10, 0),
		settledBet(models.BetStatusPending, 25, 0),
	}

	stats := ComputeStats(bets)

	assert.Equal(t, 4, stats.TotalBets)
	assert.Equal(t, 1, stats.PendingBets)
	assert.Equal(t, 65.0, stats.TotalWagered)
	assert.Equal(t, 80.0, stats.TotalWon)
	assert.Equal(t, 20.0, stats.TotalLost)
	// +60 on the win, -10 on each loss.
	assert.Equal(t, 40.0, stats.NetProfit)
	assert.InDelta(t, 1.0/3.0, stats.WinRate, 1e-9)
	assert.Equal(t, 4.0, stats.AvgOdds)
}

func TestComputeStatsEmptyHistory(t *testing.T) {
	stats := ComputeStats(nil)

	assert.Equal(t, 0, stats.TotalBets)
	assert.Equal(t, 0.0, stats.WinRate)
	assert.Equal(t, 0.0, stats.AvgOdds)
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name      string
		statuses  []models.BetStatus
		wantType  models.StreakType
		wantCount int
	}{
		{
			name:      "no settled bets",
			statuses:  []models.BetStatus{models.BetStatusPending},
			wantType:  models.StreakNone,
			wantCount: 0,
		},
		{
			name:      "two recent wins",
			statuses:  []models.BetStatus{models.BetStatusWon, models.BetStatusWon, models.BetStatusLost},
			wantType:  models.StreakWin,
			wantCount: 2,
		},
		{
			name:      "losing streak skips pending bets",
			statuses:  []models.BetStatus{models.BetStatusPending, models.BetStatusLost, models.BetStatusLost, models.BetStatusLost, models.BetStatusWon},
			wantType:  models.StreakLoss,
			wantCount: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bets := make([]*models.ParlayBet, len(tt.statuses))
			for i, status := range tt.statuses {
				bets[i] = settledBet(status, 10, 0)
			}

			streak := ComputeStreak(bets)

			assert.Equal(t, tt.wantType, streak.Type)
			assert.Equal(t, tt.wantCount, streak.Count)
		})
	}
}
