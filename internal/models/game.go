package models

import "time"

// GameScore holds one team's final score as reported by the scores feed.
// The provider returns scores as strings.
type GameScore struct {
	Name  string `json:"name"`
	Score string `json:"score"`
}

// CompletedGame is an external fact record from the scores feed. It is the
// source of truth for grading and is never persisted by this system.
type CompletedGame struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	Completed    bool        `json:"completed"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Scores       []GameScore `json:"scores"`
}

// MarketOutcome is a single priced selection within a bookmaker market
type MarketOutcome struct {
	Name  string   `json:"name"`
	Price int      `json:"price"`
	Point *float64 `json:"point,omitempty"`
}

// Market groups the outcomes for one market key (h2h, spreads, totals)
type Market struct {
	Key      string          `json:"key"`
	Outcomes []MarketOutcome `json:"outcomes"`
}

// Bookmaker carries the markets quoted by one book
type Bookmaker struct {
	Key     string   `json:"key"`
	Markets []Market `json:"markets"`
}

// OddsEvent is an upcoming or live game with quoted odds
type OddsEvent struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime time.Time   `json:"commence_time"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}
