package settlement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/logger"
	"github.com/yourusername/parlay-forge/internal/metrics"
	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/odds"
	"github.com/yourusername/parlay-forge/internal/repository"
)

// ScoresFetcher provides recently completed games from the scores feed
type ScoresFetcher interface {
	CompletedGames(ctx context.Context) ([]models.CompletedGame, error)
}

// BetOutcome is one finalized bet in a settlement summary
type BetOutcome struct {
	BetID    uuid.UUID        `json:"bet_id"`
	Strategy string           `json:"strategy"`
	Status   models.BetStatus `json:"status"`
	Stake    float64          `json:"stake"`
	Payout   float64          `json:"payout"`
	Profit   float64          `json:"profit"`
}

// Summary reports the outcome of one settlement pass
type Summary struct {
	Settled int          `json:"settled"`
	Pending int          `json:"pending"`
	Results []BetOutcome `json:"results"`
}

// Settler runs settlement passes over pending parlay bets. A pass is
// idempotent: fully settled bets drop out of the pending set, and bets
// with unresolvable legs are simply retried next pass.
type Settler struct {
	bets   repository.BetRepository
	scores ScoresFetcher
	grader *Grader
	logger *logrus.Logger
	audit  *logger.AuditLogger
}

// NewSettler creates a settler
func NewSettler(bets repository.BetRepository, scores ScoresFetcher, grader *Grader, log *logrus.Logger, audit *logger.AuditLogger) *Settler {
	return &Settler{
		bets:   bets,
		scores: scores,
		grader: grader,
		logger: log,
		audit:  audit,
	}
}

// SettleUserBets runs one settlement pass for a single user. Completed
// games are fetched once per pass and shared across all pending bets.
func (s *Settler) SettleUserBets(ctx context.Context, userID string) (*Summary, error) {
	start := time.Now()
	defer func() {
		metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	}()

	pending, err := s.bets.GetPendingByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load pending bets: %w", err)
	}

	summary := &Summary{Results: []BetOutcome{}}
	if len(pending) == 0 {
		return summary, nil
	}

	games, err := s.scores.CompletedGames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch completed games: %w", err)
	}

	for _, bet := range pending {
		outcome, settled, err := s.settleBet(ctx, bet, games)
		if err != nil {
			return nil, err
		}
		if settled {
			summary.Settled++
			summary.Results = append(summary.Results, *outcome)
		} else {
			summary.Pending++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"settled": summary.Settled,
		"pending": summary.Pending,
	}).Info("Settlement pass complete")

	return summary, nil
}

// settleBet grades every unresolved leg it can, then finalizes the bet
// once all legs carry a result. Returns settled=false when any leg has
// no completed game to grade against yet.
func (s *Settler) settleBet(ctx context.Context, bet *models.ParlayBet, games []models.CompletedGame) (*BetOutcome, bool, error) {
	for i := range bet.Legs {
		leg := &bet.Legs[i]
		if leg.Result == models.LegResultHit || leg.Result == models.LegResultMiss {
			continue
		}

		game := s.grader.MatchGame(*leg, games)
		if game == nil {
			continue
		}

		result, market := s.grader.Grade(*leg, game)
		if err := s.bets.UpdateLegResult(ctx, bet.ID, i, result); err != nil {
			return nil, false, fmt.Errorf("failed to persist leg result: %w", err)
		}
		leg.Result = result

		metrics.LegsGradedTotal.WithLabelValues(market, string(result)).Inc()
		s.audit.LogLegResult(bet.ID.String(), i, leg.Description, string(result), market)
	}

	if !bet.AllLegsResolved() {
		return nil, false, nil
	}

	status := models.BetStatusLost
	payout := 0.0
	if bet.AllLegsHit() {
		status = models.BetStatusWon
		payout = odds.RoundCurrency(bet.PotentialPayout)
	}
	profit := odds.RoundCurrency(payout - bet.Stake)
	settledAt := time.Now().UTC()

	err := s.bets.Settle(ctx, bet.ID, status, payout, profit, settledAt)
	if errors.Is(err, models.ErrAlreadySettled) {
		// A concurrent pass won the conditional write; nothing left to do.
		s.audit.LogSettlementConflict(bet.ID.String(), bet.UserID)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to settle bet: %w", err)
	}

	metrics.BetsSettledTotal.WithLabelValues(string(status)).Inc()
	s.audit.LogBetSettled(bet.ID.String(), bet.UserID, string(status), bet.Stake, payout, profit)

	return &BetOutcome{
		BetID:    bet.ID,
		Strategy: bet.Strategy,
		Status:   status,
		Stake:    bet.Stake,
		Payout:   payout,
		Profit:   profit,
	}, true, nil
}

// SettleAllPending sweeps every user holding pending bets. Used by the
// scheduled settlement job. Per-user failures are logged and do not
// abort the sweep.
func (s *Settler) SettleAllPending(ctx context.Context) error {
	users, err := s.bets.GetUsersWithPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users with pending bets: %w", err)
	}

	totalPending := 0
	for _, userID := range users {
		summary, err := s.SettleUserBets(ctx, userID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", userID).
				Error("Settlement pass failed for user")
			continue
		}
		totalPending += summary.Pending
	}
	metrics.PendingBets.Set(float64(totalPending))

	return nil
}
