package models

// UserBetStats aggregates a user's betting history for dashboard display
type UserBetStats struct {
	TotalBets    int     `json:"total_bets"`
	PendingBets  int     `json:"pending_bets"`
	TotalWagered float64 `json:"total_wagered"`
	TotalWon     float64 `json:"total_won"`
	TotalLost    float64 `json:"total_lost"`
	NetProfit    float64 `json:"net_profit"`
	WinRate      float64 `json:"win_rate"`
	AvgOdds      float64 `json:"avg_odds"`
}

// StreakType labels the direction of the current result streak
type StreakType string

const (
	StreakWin  StreakType = "win"
	StreakLoss StreakType = "loss"
	StreakNone StreakType = "none"
)

// Streak describes the user's current run of settled results
type Streak struct {
	Type  StreakType `json:"type"`
	Count int        `json:"count"`
}
