package service

import (
	"context"
	"fmt"

	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/odds"
	"github.com/yourusername/parlay-forge/internal/repository"
)

const statsHistoryLimit = 200

// StatsService computes betting history aggregates for a user
type StatsService struct {
	bets repository.BetRepository
}

// NewStatsService creates a stats service
func NewStatsService(bets repository.BetRepository) *StatsService {
	return &StatsService{bets: bets}
}

// GetUserStats aggregates a user's recent bets into dashboard stats
func (s *StatsService) GetUserStats(ctx context.Context, userID string) (*models.UserBetStats, error) {
	if userID == "" {
		return nil, models.ErrUserIDRequired
	}

	bets, err := s.bets.GetByUser(ctx, userID, statsHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bet history: %w", err)
	}

	return ComputeStats(bets), nil
}

// GetStreak returns the user's current run of settled results
func (s *StatsService) GetStreak(ctx context.Context, userID string) (*models.Streak, error) {
	if userID == "" {
		return nil, models.ErrUserIDRequired
	}

	bets, err := s.bets.GetByUser(ctx, userID, statsHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bet history: %w", err)
	}

	return ComputeStreak(bets), nil
}

// ComputeStats folds a bet list into aggregate stats. Win rate counts
// settled bets only; pushes count as settled but neither won nor lost.
func ComputeStats(bets []*models.ParlayBet) *models.UserBetStats {
	stats := &models.UserBetStats{}
	settled := 0
	won := 0
	oddsSum := 0.0

	for _, bet := range bets {
		stats.TotalBets++
		stats.TotalWagered += bet.Stake
		oddsSum += bet.TotalOdds

		switch bet.Status {
		case models.BetStatusPending:
			stats.PendingBets++
		case models.BetStatusWon:
			settled++
			won++
			if bet.ActualPayout != nil {
				stats.TotalWon += *bet.ActualPayout
			}
		case models.BetStatusLost:
			settled++
			stats.TotalLost += bet.Stake
		case models.BetStatusPushed:
			settled++
		}
		stats.NetProfit += bet.GetProfit()
	}

	if settled > 0 {
		stats.WinRate = float64(won) / float64(settled)
	}
	if stats.TotalBets > 0 {
		stats.AvgOdds = oddsSum / float64(stats.TotalBets)
	}

	stats.TotalWagered = odds.RoundCurrency(stats.TotalWagered)
	stats.TotalWon = odds.RoundCurrency(stats.TotalWon)
	stats.TotalLost = odds.RoundCurrency(stats.TotalLost)
	stats.NetProfit = odds.RoundCurrency(stats.NetProfit)

	return stats
}

// ComputeStreak walks settled bets from most recent to oldest and counts
// the run of identical outcomes. Bets arrive most recent first.
func ComputeStreak(bets []*models.ParlayBet) *models.Streak {
	streak := &models.Streak{Type: models.StreakNone}

	for _, bet := range bets {
		var outcome models.StreakType
		switch bet.Status {
		case models.BetStatusWon:
			outcome = models.StreakWin
		case models.BetStatusLost:
			outcome = models.StreakLoss
		default:
			continue
		}

		if streak.Type == models.StreakNone {
			streak.Type = outcome
		}
		if streak.Type != outcome {
			break
		}
		streak.Count++
	}

	return streak
}
