package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/service"
	"github.com/yourusername/parlay-forge/internal/settlement"
	"github.com/yourusername/parlay-forge/internal/stream"
)

type stubForger struct {
	forgeResult *service.ForgeResult
	forgeErr    error
	placed      *models.ParlayBet
	placeErr    error
}

func (s *stubForger) Forge(ctx context.Context, req *service.ForgeRequest) (*service.ForgeResult, error) {
	if req.UserID == "" {
		return nil, models.ErrUserIDRequired
	}
	return s.forgeResult, s.forgeErr
}

func (s *stubForger) PlaceBet(ctx context.Context, req *service.PlaceBetRequest) (*models.ParlayBet, error) {
	return s.placed, s.placeErr
}

type stubSettler struct {
	summary *settlement.Summary
	err     error
}

func (s *stubSettler) SettleUserBets(ctx context.Context, userID string) (*settlement.Summary, error) {
	return s.summary, s.err
}

type stubBetRepo struct {
	byID    *models.ParlayBet
	byIDErr error
	byUser  []*models.ParlayBet
}

func (s *stubBetRepo) Create(ctx context.Context, bet *models.ParlayBet) error { return nil }
func (s *stubBetRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ParlayBet, error) {
	return s.byID, s.byIDErr
}
func (s *stubBetRepo) GetByUser(ctx context.Context, userID string, limit int) ([]*models.ParlayBet, error) {
	return s.byUser, nil
}
func (s *stubBetRepo) GetPendingByUser(ctx context.Context, userID string) ([]*models.ParlayBet, error) {
	return nil, nil
}
func (s *stubBetRepo) GetUsersWithPending(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubBetRepo) UpdateLegResult(ctx context.Context, betID uuid.UUID, legIndex int, result models.LegResult) error {
	return nil
}
func (s *stubBetRepo) Settle(ctx context.Context, betID uuid.UUID, status models.BetStatus, actualPayout, profit float64, settledAt time.Time) error {
	return nil
}
func (s *stubBetRepo) AddNotes(ctx context.Context, betID uuid.UUID, notes string) error { return nil }

type stubBlueprintRepo struct{}

func (s *stubBlueprintRepo) Create(ctx context.Context, blueprint *models.Blueprint) error {
	return nil
}
func (s *stubBlueprintRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Blueprint, error) {
	return nil, models.ErrNotFound
}
func (s *stubBlueprintRepo) GetByUser(ctx context.Context, userID string, limit int) ([]*models.Blueprint, error) {
	return nil, nil
}
func (s *stubBlueprintRepo) MarkPlaced(ctx context.Context, id uuid.UUID) error { return nil }

func newTestServer(t *testing.T, deps Deps) *Server {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)

	if deps.Logger == nil {
		deps.Logger = log
	}
	if deps.Hub == nil {
		deps.Hub = stream.NewHub(log)
		go deps.Hub.Run()
		t.Cleanup(deps.Hub.Close)
	}
	if deps.Bets == nil {
		deps.Bets = &stubBetRepo{}
	}
	if deps.Blueprints == nil {
		deps.Blueprints = &stubBlueprintRepo{}
	}

	cfg := &config.ServerConfig{Port: 8080, HealthPort: 8081, ReadTimeoutSec: 5, WriteTimeoutSec: 10}
	return NewServer(cfg, deps, false)
}

func doJSON(server *Server, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	server.Engine().ServeHTTP(recorder, req)
	return recorder
}

func TestHandleForge(t *testing.T) {
	forger := &stubForger{forgeResult: &service.ForgeResult{
		Blueprints: []*models.Blueprint{{ID: uuid.New(), Strategy: "Safe Money", Status: models.BlueprintStatusReady}},
	}}
	server := newTestServer(t, Deps{Forge: forger})

	recorder := doJSON(server, http.MethodPost, "/api/forge", map[string]any{"user_id": "user-1", "bankroll": 100})

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Data service.ForgeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Blueprints, 1)
	assert.Equal(t, "Safe Money", resp.Data.Blueprints[0].Strategy)
}

func TestHandleForgeRequiresUser(t *testing.T) {
	server := newTestServer(t, Deps{Forge: &stubForger{}})

	recorder := doJSON(server, http.MethodPost, "/api/forge", map[string]any{"bankroll": 100})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleSettleBets(t *testing.T) {
	settler := &stubSettler{summary: &settlement.Summary{
		Settled: 1,
		Pending: 2,
		Results: []settlement.BetOutcome{{BetID: uuid.New(), Status: models.BetStatusWon, Stake: 20, Payout: 95.45, Profit: 75.45}},
	}}
	server := newTestServer(t, Deps{Forge: &stubForger{}, Settler: settler})

	recorder := doJSON(server, http.MethodPost, "/api/settle-bets", map[string]any{"user_id": "user-1"})

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Data settlement.Summary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Settled)
	assert.Equal(t, 2, resp.Data.Pending)
}

func TestHandleSettleBetsRequiresUser(t *testing.T) {
	server := newTestServer(t, Deps{Forge: &stubForger{}, Settler: &stubSettler{}})

	recorder := doJSON(server, http.MethodPost, "/api/settle-bets", map[string]any{})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleGetBet(t *testing.T) {
	bet := &models.ParlayBet{ID: uuid.New(), UserID: "user-1", Strategy: "High Roller", Status: models.BetStatusPending}
	server := newTestServer(t, Deps{Forge: &stubForger{}, Bets: &stubBetRepo{byID: bet}})

	recorder := doJSON(server, http.MethodGet, "/api/bets/"+bet.ID.String(), nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Data models.ParlayBet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, bet.ID, resp.Data.ID)
}

func TestHandleGetBetNotFound(t *testing.T) {
	server := newTestServer(t, Deps{Forge: &stubForger{}, Bets: &stubBetRepo{byIDErr: models.ErrNotFound}})

	recorder := doJSON(server, http.MethodGet, "/api/bets/"+uuid.NewString(), nil)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleGetBetInvalidID(t *testing.T) {
	server := newTestServer(t, Deps{Forge: &stubForger{}})

	recorder := doJSON(server, http.MethodGet, "/api/bets/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleListBetsRequiresUser(t *testing.T) {
	server := newTestServer(t, Deps{Forge: &stubForger{}})

	recorder := doJSON(server, http.MethodGet, "/api/bets", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandleStrategies(t *testing.T) {
	server := newTestServer(t, Deps{Forge: &stubForger{}})

	recorder := doJSON(server, http.MethodGet, "/api/strategies", nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp struct {
		Data []models.StrategyPreset `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 6)
}
