package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/parlay-forge/internal/models"
)

type mockBetRepository struct {
	mock.Mock
}

func (m *mockBetRepository) Create(ctx context.Context, bet *models.ParlayBet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *mockBetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayBet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ParlayBet), args.Error(1)
}

func (m *mockBetRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.ParlayBet, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ParlayBet), args.Error(1)
}

func (m *mockBetRepository) GetPendingByUser(ctx context.Context, userID string) ([]*models.ParlayBet, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ParlayBet), args.Error(1)
}

func (m *mockBetRepository) GetUsersWithPending(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockBetRepository) UpdateLegResult(ctx context.Context, betID uuid.UUID, legIndex int, result models.LegResult) error {
	args := m.Called(ctx, betID, legIndex, result)
	return args.Error(0)
}

func (m *mockBetRepository) Settle(ctx context.Context, betID uuid.UUID, status models.BetStatus, actualPayout, profit float64, settledAt time.Time) error {
	args := m.Called(ctx, betID, status, actualPayout, profit, settledAt)
	return args.Error(0)
}

func (m *mockBetRepository) AddNotes(ctx context.Context, betID uuid.UUID, notes string) error {
	args := m.Called(ctx, betID, notes)
	return args.Error(0)
}

type mockBlueprintRepository struct {
	mock.Mock
}

func (m *mockBlueprintRepository) Create(ctx context.Context, blueprint *models.Blueprint) error {
	args := m.Called(ctx, blueprint)
	return args.Error(0)
}

func (m *mockBlueprintRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Blueprint, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Blueprint), args.Error(1)
}

func (m *mockBlueprintRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Blueprint, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Blueprint), args.Error(1)
}

func (m *mockBlueprintRepository) MarkPlaced(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type stubOddsProvider struct {
	events []models.OddsEvent
	err    error
}

func (s *stubOddsProvider) Events(ctx context.Context) ([]models.OddsEvent, error) {
	return s.events, s.err
}

// stubChatClient replays a canned response, or an error, per call.
// Forge calls clients from concurrent goroutines, so the counter is
// mutex-guarded.
type stubChatClient struct {
	name      string
	responses []string
	err       error

	mu    sync.Mutex
	calls int
}

func (c *stubChatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	response := c.responses[c.calls%len(c.responses)]
	c.calls++
	return response, nil
}

func (c *stubChatClient) Name() string {
	return c.name
}
