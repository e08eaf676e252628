package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/ai"
	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/repository"
)

// Insights is the analysis returned for a user's betting history
type Insights struct {
	Summary string   `json:"summary"`
	Tips    []string `json:"tips"`
	Source  string   `json:"source"` // "ai" or "fallback"
}

// InsightsService analyzes a user's bet history. The model write-up is
// best effort; when the provider is down a rule-based fallback keeps the
// endpoint available.
type InsightsService struct {
	client ai.ChatClient
	bets   repository.BetRepository
	logger *logrus.Logger
}

// NewInsightsService creates an insights service
func NewInsightsService(client ai.ChatClient, bets repository.BetRepository, logger *logrus.Logger) *InsightsService {
	return &InsightsService{client: client, bets: bets, logger: logger}
}

// GetInsights summarizes the user's recent betting performance
func (s *InsightsService) GetInsights(ctx context.Context, userID string) (*Insights, error) {
	if userID == "" {
		return nil, models.ErrUserIDRequired
	}

	bets, err := s.bets.GetByUser(ctx, userID, statsHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load bet history: %w", err)
	}
	if len(bets) == 0 {
		return &Insights{
			Summary: "No betting history yet. Forge some blueprints to get started.",
			Source:  "fallback",
		}, nil
	}

	stats := ComputeStats(bets)
	streak := ComputeStreak(bets)

	if insights := s.askModel(ctx, bets, stats); insights != nil {
		return insights, nil
	}
	return fallbackInsights(stats, streak), nil
}

func (s *InsightsService) askModel(ctx context.Context, bets []*models.ParlayBet, stats *models.UserBetStats) *Insights {
	if s.client == nil {
		return nil
	}

	response, err := s.client.Complete(ctx,
		"You are a sharp but responsible sports betting coach. Analyze the bettor's record in 2-3 sentences, then give up to 3 concrete tips. Plain text, one tip per line prefixed with '- '.",
		historyPrompt(bets, stats),
	)
	if err != nil {
		s.logger.WithError(err).Warn("Insights model call failed, using fallback")
		return nil
	}

	summary, tips := splitInsightsResponse(response)
	if summary == "" {
		return nil
	}
	return &Insights{Summary: summary, Tips: tips, Source: "ai"}
}

func historyPrompt(bets []*models.ParlayBet, stats *models.UserBetStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Record: %d bets, %.0f%% win rate on settled, net profit $%.2f, avg odds %.2fx.\nRecent bets:\n",
		stats.TotalBets, stats.WinRate*100, stats.NetProfit, stats.AvgOdds)

	shown := bets
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for _, bet := range shown {
		fmt.Fprintf(&b, "- %s, %d legs, $%.2f at %.2fx, %s\n",
			bet.Strategy, len(bet.Legs), bet.Stake, bet.TotalOdds, bet.Status)
	}
	return b.String()
}

func splitInsightsResponse(response string) (string, []string) {
	var summaryLines, tips []string
	for _, line := range strings.Split(strings.TrimSpace(response), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "- ") {
			tips = append(tips, strings.TrimPrefix(line, "- "))
		} else if len(tips) == 0 {
			summaryLines = append(summaryLines, line)
		}
	}
	return strings.Join(summaryLines, " "), tips
}

// fallbackInsights derives tips from the aggregates alone
func fallbackInsights(stats *models.UserBetStats, streak *models.Streak) *Insights {
	insights := &Insights{
		Summary: fmt.Sprintf("You have placed %d bets with a %.0f%% win rate and $%.2f net profit.",
			stats.TotalBets, stats.WinRate*100, stats.NetProfit),
		Source: "fallback",
	}

	if stats.WinRate < 0.3 && stats.TotalBets-stats.PendingBets >= 5 {
		insights.Tips = append(insights.Tips, "Your win rate is low. Consider fewer legs per parlay or lower-variance strategies like Safe Money.")
	}
	if stats.AvgOdds > 10 {
		insights.Tips = append(insights.Tips, "Your average multiplier is very high. Long-shot parlays rarely sustain profit.")
	}
	if streak.Type == models.StreakLoss && streak.Count >= 3 {
		insights.Tips = append(insights.Tips, fmt.Sprintf("You are on a %d-bet losing streak. Take a break or drop your stake size.", streak.Count))
	}
	if streak.Type == models.StreakWin && streak.Count >= 3 {
		insights.Tips = append(insights.Tips, fmt.Sprintf("You are on a %d-bet winning streak. Stick to the stake sizing that got you here.", streak.Count))
	}
	if stats.NetProfit < 0 && stats.TotalWagered > 0 {
		insights.Tips = append(insights.Tips, "You are down overall. Review which strategies lose most and retire them.")
	}
	if len(insights.Tips) == 0 {
		insights.Tips = append(insights.Tips, "Keep stakes proportional to bankroll and track results per strategy.")
	}

	return insights
}
