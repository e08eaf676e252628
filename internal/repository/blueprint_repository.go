package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/parlay-forge/internal/database"
	"github.com/yourusername/parlay-forge/internal/models"
)

// PostgresBlueprintRepository implements BlueprintRepository for PostgreSQL
type PostgresBlueprintRepository struct {
	db *database.DB
}

// NewPostgresBlueprintRepository creates a new blueprint repository
func NewPostgresBlueprintRepository(db *database.DB) BlueprintRepository {
	return &PostgresBlueprintRepository{db: db}
}

const blueprintColumns = `id, user_id, strategy, description, legs, stake, total_odds,
	       win_probability, expected_value, potential_win, reasoning, model, status,
	       bankroll, created_at`

// Create inserts a generated blueprint
func (r *PostgresBlueprintRepository) Create(ctx context.Context, blueprint *models.Blueprint) error {
	legsJSON, err := json.Marshal(blueprint.Legs)
	if err != nil {
		return fmt.Errorf("failed to marshal legs: %w", err)
	}

	query := `
		INSERT INTO blueprints (id, user_id, strategy, description, legs, stake, total_odds,
		                        win_probability, expected_value, potential_win, reasoning,
		                        model, status, bankroll)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.GetPool().Exec(ctx, query,
		blueprint.ID, blueprint.UserID, blueprint.Strategy, blueprint.Description,
		legsJSON, blueprint.Stake, blueprint.TotalOdds, blueprint.WinProbability,
		blueprint.ExpectedValue, blueprint.PotentialWin, blueprint.Reasoning,
		blueprint.Model, blueprint.Status, blueprint.Bankroll,
	)
	if err != nil {
		return fmt.Errorf("failed to create blueprint: %w", err)
	}

	return nil
}

// GetByID retrieves a blueprint by ID
func (r *PostgresBlueprintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Blueprint, error) {
	query := `SELECT ` + blueprintColumns + ` FROM blueprints WHERE id = $1`

	blueprint, err := scanBlueprint(r.db.GetPool().QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get blueprint: %w", err)
	}

	return blueprint, nil
}

// GetByUser retrieves a user's blueprints, most recent first
func (r *PostgresBlueprintRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Blueprint, error) {
	query := `SELECT ` + blueprintColumns + ` FROM blueprints WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.db.GetPool().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query blueprints by user: %w", err)
	}
	defer rows.Close()

	var blueprints []*models.Blueprint
	for rows.Next() {
		blueprint, err := scanBlueprint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan blueprint: %w", err)
		}
		blueprints = append(blueprints, blueprint)
	}

	return blueprints, rows.Err()
}

// MarkPlaced records that a blueprint was converted into a placed bet
func (r *PostgresBlueprintRepository) MarkPlaced(ctx context.Context, id uuid.UUID) error {
	commandTag, err := r.db.GetPool().Exec(ctx,
		`UPDATE blueprints SET status = 'placed' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark blueprint placed: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

func scanBlueprint(row pgx.Row) (*models.Blueprint, error) {
	blueprint := &models.Blueprint{}
	var legsJSON []byte

	err := row.Scan(
		&blueprint.ID, &blueprint.UserID, &blueprint.Strategy, &blueprint.Description,
		&legsJSON, &blueprint.Stake, &blueprint.TotalOdds, &blueprint.WinProbability,
		&blueprint.ExpectedValue, &blueprint.PotentialWin, &blueprint.Reasoning,
		&blueprint.Model, &blueprint.Status, &blueprint.Bankroll, &blueprint.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(legsJSON, &blueprint.Legs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal legs: %w", err)
	}

	return blueprint, nil
}
