package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/parlay-forge/internal/database"
	"github.com/yourusername/parlay-forge/internal/models"
)

// PostgresBetRepository implements BetRepository for PostgreSQL. Legs are
// stored as a JSONB document so the leg list stays ordered.
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

const betColumns = `id, user_id, user_name, user_email, strategy, blueprint_id, legs, stake,
	       total_odds, potential_payout, status, placed_at, settled_at, actual_payout,
	       profit, notes, created_at, updated_at`

// Create inserts a new parlay bet
func (r *PostgresBetRepository) Create(ctx context.Context, bet *models.ParlayBet) error {
	legsJSON, err := json.Marshal(bet.Legs)
	if err != nil {
		return fmt.Errorf("failed to marshal legs: %w", err)
	}

	query := `
		INSERT INTO bets (id, user_id, user_name, user_email, strategy, blueprint_id, legs,
		                  stake, total_odds, potential_payout, status, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		bet.ID, bet.UserID, bet.UserName, bet.UserEmail, bet.Strategy, bet.BlueprintID,
		legsJSON, bet.Stake, bet.TotalOdds, bet.PotentialPayout, bet.Status, bet.PlacedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

// GetByID retrieves a bet by ID
func (r *PostgresBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayBet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`

	bet, err := scanBet(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}

	return bet, nil
}

// GetByUser retrieves a user's bets, most recent first
func (r *PostgresBetRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.ParlayBet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE user_id = $1 ORDER BY placed_at DESC LIMIT $2`

	rows, err := r.db.GetPool().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets by user: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

// GetPendingByUser retrieves a user's pending bets, oldest first so
// settlement retries them in placement order.
func (r *PostgresBetRepository) GetPendingByUser(ctx context.Context, userID string) ([]*models.ParlayBet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE user_id = $1 AND status = 'pending' ORDER BY placed_at ASC`

	rows, err := r.db.GetPool().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending bets: %w", err)
	}
	defer rows.Close()

	return collectBets(rows)
}

// GetUsersWithPending returns the distinct users that currently hold
// pending bets, for the scheduled settlement sweep.
func (r *PostgresBetRepository) GetUsersWithPending(ctx context.Context) ([]string, error) {
	rows, err := r.db.GetPool().Query(ctx, `SELECT DISTINCT user_id FROM bets WHERE status = 'pending'`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users with pending bets: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		users = append(users, userID)
	}

	return users, rows.Err()
}

// UpdateLegResult persists one graded leg result inside the legs document
func (r *PostgresBetRepository) UpdateLegResult(ctx context.Context, betID uuid.UUID, legIndex int, result models.LegResult) error {
	query := `
		UPDATE bets
		SET legs = jsonb_set(legs, $2::text[], to_jsonb($3::text)), updated_at = NOW()
		WHERE id = $1
	`

	path := fmt.Sprintf("{%d,result}", legIndex)
	commandTag, err := r.db.GetPool().Exec(ctx, query, betID, path, string(result))
	if err != nil {
		return fmt.Errorf("failed to update leg result: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// Settle transitions a bet out of pending. The conditional status check
// makes the transition safe against a concurrent settlement pass: the
// loser of the race affects zero rows and gets ErrAlreadySettled.
func (r *PostgresBetRepository) Settle(ctx context.Context, betID uuid.UUID, status models.BetStatus, actualPayout, profit float64, settledAt time.Time) error {
	query := `
		UPDATE bets
		SET status = $2, actual_payout = $3, profit = $4, settled_at = $5, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	commandTag, err := r.db.GetPool().Exec(ctx, query, betID, status, actualPayout, profit, settledAt)
	if err != nil {
		return fmt.Errorf("failed to settle bet: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrAlreadySettled
	}

	return nil
}

// AddNotes attaches a corrective note to a bet. Settled bets stay
// immutable apart from this field.
func (r *PostgresBetRepository) AddNotes(ctx context.Context, betID uuid.UUID, notes string) error {
	commandTag, err := r.db.GetPool().Exec(ctx,
		`UPDATE bets SET notes = $2, updated_at = NOW() WHERE id = $1`, betID, notes)
	if err != nil {
		return fmt.Errorf("failed to add notes: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanBet(row pgx.Row) (*models.ParlayBet, error) {
	bet := &models.ParlayBet{}
	var legsJSON []byte

	err := row.Scan(
		&bet.ID, &bet.UserID, &bet.UserName, &bet.UserEmail, &bet.Strategy, &bet.BlueprintID,
		&legsJSON, &bet.Stake, &bet.TotalOdds, &bet.PotentialPayout, &bet.Status, &bet.PlacedAt,
		&bet.SettledAt, &bet.ActualPayout, &bet.Profit, &bet.Notes, &bet.CreatedAt, &bet.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(legsJSON, &bet.Legs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal legs: %w", err)
	}

	return bet, nil
}

func collectBets(rows pgx.Rows) ([]*models.ParlayBet, error) {
	var bets []*models.ParlayBet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	return bets, rows.Err()
}
