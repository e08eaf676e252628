// Package repository provides data access for bets and blueprints.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/parlay-forge/internal/models"
)

// BetRepository defines persistence operations for parlay bets
type BetRepository interface {
	Create(ctx context.Context, bet *models.ParlayBet) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayBet, error)
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.ParlayBet, error)
	GetPendingByUser(ctx context.Context, userID string) ([]*models.ParlayBet, error)
	GetUsersWithPending(ctx context.Context) ([]string, error)
	UpdateLegResult(ctx context.Context, betID uuid.UUID, legIndex int, result models.LegResult) error
	Settle(ctx context.Context, betID uuid.UUID, status models.BetStatus, actualPayout, profit float64, settledAt time.Time) error
	AddNotes(ctx context.Context, betID uuid.UUID, notes string) error
}

// BlueprintRepository defines persistence operations for generated blueprints
type BlueprintRepository interface {
	Create(ctx context.Context, blueprint *models.Blueprint) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Blueprint, error)
	GetByUser(ctx context.Context, userID string, limit int) ([]*models.Blueprint, error)
	MarkPlaced(ctx context.Context, id uuid.UUID) error
}
