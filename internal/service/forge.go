// Package service implements blueprint generation, bet placement,
// insights and user statistics.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/ai"
	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/logger"
	"github.com/yourusername/parlay-forge/internal/metrics"
	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/odds"
	"github.com/yourusername/parlay-forge/internal/repository"
)

// OddsProvider supplies upcoming games with quoted odds
type OddsProvider interface {
	Events(ctx context.Context) ([]models.OddsEvent, error)
}

// ForgeRequest asks for blueprint generation across strategy presets.
// An empty Strategies list means every preset the bankroll qualifies for.
type ForgeRequest struct {
	UserID     string   `json:"user_id"`
	Bankroll   float64  `json:"bankroll"`
	Strategies []string `json:"strategies,omitempty"`
}

// ForgeResult aggregates the independent per-strategy generations
type ForgeResult struct {
	Blueprints []*models.Blueprint `json:"blueprints"`
	Failed     int                 `json:"failed"`
}

// PlaceBetRequest accepts a blueprint (or raw legs) for placement.
// Odds totals are always recomputed server side; client-supplied
// multipliers are never trusted.
type PlaceBetRequest struct {
	UserID      string          `json:"user_id"`
	UserName    string          `json:"user_name,omitempty"`
	UserEmail   string          `json:"user_email,omitempty"`
	Strategy    string          `json:"strategy"`
	BlueprintID *uuid.UUID      `json:"blueprint_id,omitempty"`
	Legs        []models.BetLeg `json:"legs"`
	Stake       float64         `json:"stake"`
}

// ForgeService generates parlay blueprints by fanning one model request
// out per strategy preset, and places accepted blueprints as bets.
type ForgeService struct {
	clients    []ai.ChatClient
	oddsFeed   OddsProvider
	blueprints repository.BlueprintRepository
	bets       repository.BetRepository
	cfg        *config.ForgeConfig
	logger     *logrus.Logger
	audit      *logger.AuditLogger
}

// NewForgeService creates a forge service. Clients are used round-robin
// across strategies so one provider outage degrades rather than fails a
// whole forge pass.
func NewForgeService(
	clients []ai.ChatClient,
	oddsFeed OddsProvider,
	blueprints repository.BlueprintRepository,
	bets repository.BetRepository,
	cfg *config.ForgeConfig,
	log *logrus.Logger,
	audit *logger.AuditLogger,
) *ForgeService {
	return &ForgeService{
		clients:    clients,
		oddsFeed:   oddsFeed,
		blueprints: blueprints,
		bets:       bets,
		cfg:        cfg,
		logger:     log,
		audit:      audit,
	}
}

// Forge generates one blueprint per requested strategy. Generations are
// independent requests fired concurrently; a failed strategy yields a
// failed placeholder and never affects its siblings.
func (s *ForgeService) Forge(ctx context.Context, req *ForgeRequest) (*ForgeResult, error) {
	if req.UserID == "" {
		return nil, models.ErrUserIDRequired
	}
	if len(s.clients) == 0 {
		return nil, fmt.Errorf("no chat clients configured")
	}

	start := time.Now()
	defer func() {
		metrics.ForgeDuration.Observe(time.Since(start).Seconds())
	}()

	events, err := s.oddsFeed.Events(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch odds events: %w", err)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("no upcoming games available")
	}
	if len(events) > s.cfg.MaxGamesPerPrompt {
		events = events[:s.cfg.MaxGamesPerPrompt]
	}

	presets := s.selectPresets(req)
	gamesPrompt := formatGamesPrompt(events)

	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = &ForgeResult{}
	)
	for i, preset := range presets {
		client := s.clients[i%len(s.clients)]
		wg.Add(1)
		go func(preset models.StrategyPreset, client ai.ChatClient) {
			defer wg.Done()
			blueprint := s.generateBlueprint(ctx, req, preset, client, gamesPrompt)

			mu.Lock()
			defer mu.Unlock()
			if blueprint.Status == models.BlueprintStatusFailed {
				result.Failed++
			}
			result.Blueprints = append(result.Blueprints, blueprint)
		}(preset, client)
	}
	wg.Wait()

	// Best expected value first; failed placeholders sink to the bottom.
	sort.SliceStable(result.Blueprints, func(i, j int) bool {
		a, b := result.Blueprints[i], result.Blueprints[j]
		if (a.Status == models.BlueprintStatusFailed) != (b.Status == models.BlueprintStatusFailed) {
			return b.Status == models.BlueprintStatusFailed
		}
		return a.ExpectedValue > b.ExpectedValue
	})

	s.saveTopBlueprints(ctx, result.Blueprints)

	s.logger.WithFields(logrus.Fields{
		"user_id":    req.UserID,
		"strategies": len(presets),
		"failed":     result.Failed,
		"duration":   time.Since(start),
	}).Info("Forge pass complete")

	return result, nil
}

func (s *ForgeService) selectPresets(req *ForgeRequest) []models.StrategyPreset {
	all := models.DefaultStrategyPresets()
	if len(req.Strategies) > 0 {
		wanted := make(map[string]bool, len(req.Strategies))
		for _, name := range req.Strategies {
			wanted[strings.ToLower(name)] = true
		}
		filtered := all[:0]
		for _, preset := range all {
			if wanted[strings.ToLower(preset.Name)] {
				filtered = append(filtered, preset)
			}
		}
		return filtered
	}

	eligible := make([]models.StrategyPreset, 0, len(all))
	for _, preset := range all {
		if req.Bankroll >= preset.MinBankroll {
			eligible = append(eligible, preset)
		}
	}
	return eligible
}

// generateBlueprint runs one model round-trip for one strategy. All
// failure modes collapse into a failed placeholder blueprint so the
// caller always gets one entry per strategy.
func (s *ForgeService) generateBlueprint(ctx context.Context, req *ForgeRequest, preset models.StrategyPreset, client ai.ChatClient, gamesPrompt string) *models.Blueprint {
	blueprint := &models.Blueprint{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Strategy:  preset.Name,
		Model:     client.Name(),
		Bankroll:  req.Bankroll,
		CreatedAt: time.Now().UTC(),
	}

	fail := func(err error) *models.Blueprint {
		var parseErr *ai.ParseError
		if errors.As(err, &parseErr) {
			metrics.AIParseFailuresTotal.Inc()
		}
		metrics.BlueprintsGeneratedTotal.WithLabelValues(preset.Name, "failed").Inc()
		s.logger.WithError(err).WithFields(logrus.Fields{
			"strategy": preset.Name,
			"provider": client.Name(),
		}).Error("Blueprint generation failed")
		blueprint.Status = models.BlueprintStatusFailed
		blueprint.Reasoning = err.Error()
		return blueprint
	}

	response, err := client.Complete(ctx, systemPrompt(preset), userPrompt(preset, gamesPrompt))
	if err != nil {
		return fail(err)
	}

	raw, err := ai.ExtractJSON(response)
	if err != nil {
		return fail(err)
	}

	decoded, err := ai.DecodeBlueprint(raw, s.logger)
	if err != nil {
		return fail(err)
	}

	stake := req.Bankroll * preset.Risk
	if stake < s.cfg.MinStake {
		stake = s.cfg.MinStake
	}
	stake = odds.RoundCurrency(stake)

	summary, err := odds.Aggregate(decoded.Legs, stake)
	if err != nil {
		return fail(err)
	}

	blueprint.Status = models.BlueprintStatusReady
	blueprint.Description = preset.Description
	blueprint.Legs = decoded.Legs
	blueprint.Stake = stake
	blueprint.TotalOdds = summary.TotalOdds
	blueprint.WinProbability = summary.WinProbability
	blueprint.ExpectedValue = decoded.ExpectedValue
	blueprint.PotentialWin = summary.PotentialPayout
	blueprint.Reasoning = decoded.OverallStrategy

	metrics.BlueprintsGeneratedTotal.WithLabelValues(preset.Name, "ok").Inc()
	return blueprint
}

func (s *ForgeService) saveTopBlueprints(ctx context.Context, blueprints []*models.Blueprint) {
	saved := 0
	for _, blueprint := range blueprints {
		if saved >= s.cfg.AutoSaveTopN {
			return
		}
		if blueprint.Status != models.BlueprintStatusReady {
			continue
		}
		if err := s.blueprints.Create(ctx, blueprint); err != nil {
			s.logger.WithError(err).WithField("blueprint_id", blueprint.ID).
				Warn("Failed to save blueprint")
			continue
		}
		saved++
	}
}

// PlaceBet converts a blueprint (or explicit legs) into a pending
// parlay bet. Totals are recomputed from the legs.
func (s *ForgeService) PlaceBet(ctx context.Context, req *PlaceBetRequest) (*models.ParlayBet, error) {
	if req.UserID == "" {
		return nil, models.ErrUserIDRequired
	}

	legs := req.Legs
	strategy := req.Strategy
	stake := req.Stake
	if req.BlueprintID != nil {
		blueprint, err := s.blueprints.GetByID(ctx, *req.BlueprintID)
		if err != nil {
			return nil, fmt.Errorf("failed to load blueprint: %w", err)
		}
		legs = blueprint.Legs
		strategy = blueprint.Strategy
		if stake == 0 {
			stake = blueprint.Stake
		}
	}

	for i := range legs {
		legs[i].Result = models.LegResultPending
	}

	summary, err := odds.Aggregate(legs, stake)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	bet := &models.ParlayBet{
		ID:              uuid.New(),
		UserID:          req.UserID,
		UserName:        req.UserName,
		UserEmail:       req.UserEmail,
		Strategy:        strategy,
		BlueprintID:     req.BlueprintID,
		Legs:            legs,
		Stake:           stake,
		TotalOdds:       summary.TotalOdds,
		PotentialPayout: summary.PotentialPayout,
		Status:          models.BetStatusPending,
		PlacedAt:        now,
	}

	if err := models.ValidateBet(bet); err != nil {
		return nil, err
	}

	if err := s.bets.Create(ctx, bet); err != nil {
		return nil, fmt.Errorf("failed to place bet: %w", err)
	}

	if req.BlueprintID != nil {
		if err := s.blueprints.MarkPlaced(ctx, *req.BlueprintID); err != nil {
			s.logger.WithError(err).WithField("blueprint_id", *req.BlueprintID).
				Warn("Failed to mark blueprint placed")
		}
	}

	metrics.BetsPlacedTotal.Inc()
	s.audit.LogBetPlaced(bet.ID.String(), bet.UserID, bet.Strategy, len(bet.Legs), bet.Stake, bet.TotalOdds, bet.PlacedAt)

	return bet, nil
}
