package models

import (
	"time"

	"github.com/google/uuid"
)

// LegType represents the kind of proposition a leg wagers on
type LegType string

const (
	LegTypeGame       LegType = "game"
	LegTypePlayerProp LegType = "player_prop"
)

// LegResult represents the graded outcome of a single leg
type LegResult string

const (
	LegResultPending LegResult = "pending"
	LegResultHit     LegResult = "hit"
	LegResultMiss    LegResult = "miss"
)

// BetStatus represents the status of a parlay bet
type BetStatus string

const (
	BetStatusPending BetStatus = "pending"
	BetStatusWon     BetStatus = "won"
	BetStatusLost    BetStatus = "lost"
	BetStatusPushed  BetStatus = "pushed"
)

// BetLeg represents one wagered proposition within a parlay.
// Description is AI-generated prose; the grader classifies it by pattern.
type BetLeg struct {
	Type        LegType   `db:"type" json:"type" validate:"required,oneof=game player_prop"`
	Description string    `db:"description" json:"description" validate:"required"`
	Odds        int       `db:"odds" json:"odds" validate:"required,american_odds"`
	Line        *float64  `db:"line" json:"line,omitempty"`
	Player      string    `db:"player" json:"player,omitempty"`
	Reasoning   string    `db:"reasoning" json:"reasoning"`
	Confidence  float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	EV          float64   `db:"ev" json:"ev"`
	Result      LegResult `db:"result" json:"result"`
}

// ParlayBet represents an ordered collection of legs placed together
type ParlayBet struct {
	ID              uuid.UUID  `db:"id" json:"id" validate:"required"`
	UserID          string     `db:"user_id" json:"user_id" validate:"required"`
	UserName        string     `db:"user_name" json:"user_name,omitempty"`
	UserEmail       string     `db:"user_email" json:"user_email,omitempty"`
	Strategy        string     `db:"strategy" json:"strategy" validate:"required"`
	BlueprintID     *uuid.UUID `db:"blueprint_id" json:"blueprint_id,omitempty"`
	Legs            []BetLeg   `db:"legs" json:"legs" validate:"required,min=1,dive"`
	Stake           float64    `db:"stake" json:"stake" validate:"required,gt=0"`
	TotalOdds       float64    `db:"total_odds" json:"total_odds" validate:"required,gt=1"`
	PotentialPayout float64    `db:"potential_payout" json:"potential_payout"`
	Status          BetStatus  `db:"status" json:"status" validate:"required"`
	PlacedAt        time.Time  `db:"placed_at" json:"placed_at"`
	SettledAt       *time.Time `db:"settled_at" json:"settled_at,omitempty"`
	ActualPayout    *float64   `db:"actual_payout" json:"actual_payout,omitempty"`
	Profit          *float64   `db:"profit" json:"profit,omitempty"`
	Notes           string     `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// IsSettled checks if the bet has reached a terminal status
func (b *ParlayBet) IsSettled() bool {
	return b.Status != BetStatusPending
}

// AllLegsResolved reports whether every leg has a non-pending result
func (b *ParlayBet) AllLegsResolved() bool {
	for _, leg := range b.Legs {
		if leg.Result == LegResultPending || leg.Result == "" {
			return false
		}
	}
	return len(b.Legs) > 0
}

// AllLegsHit reports whether every leg resolved as a hit
func (b *ParlayBet) AllLegsHit() bool {
	for _, leg := range b.Legs {
		if leg.Result != LegResultHit {
			return false
		}
	}
	return len(b.Legs) > 0
}

// GetProfit returns realized profit, zero while the bet is pending
func (b *ParlayBet) GetProfit() float64 {
	if b.Profit == nil {
		return 0
	}
	return *b.Profit
}
