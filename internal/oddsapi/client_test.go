package oddsapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/datasource"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := &config.OddsAPIConfig{
		BaseURL:        server.URL,
		APIKey:         "test-key",
		SportKey:       "americanfootball_nfl",
		Bookmakers:     "draftkings",
		Markets:        "h2h,spreads,totals",
		ScoresDaysFrom: 2,
	}
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 5,
	}, log)

	return NewClient(cfg, httpClient, 30*time.Second, log), server
}

func TestEvents(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "/sports/americanfootball_nfl/odds", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "american", r.URL.Query().Get("oddsFormat"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "abc123",
				"sport_key": "americanfootball_nfl",
				"commence_time": "2025-09-07T17:00:00Z",
				"home_team": "Kansas City Chiefs",
				"away_team": "Buffalo Bills",
				"bookmakers": [
					{
						"key": "draftkings",
						"markets": [
							{"key": "h2h", "outcomes": [
								{"name": "Kansas City Chiefs", "price": -150},
								{"name": "Buffalo Bills", "price": 130}
							]},
							{"key": "totals", "outcomes": [
								{"name": "Over", "price": -110, "point": 47.5}
							]}
						]
					}
				]
			}
		]`))
	})
	client, _ := newTestClient(t, handler)

	events, err := client.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Kansas City Chiefs", events[0].HomeTeam)
	require.Len(t, events[0].Bookmakers, 1)
	assert.Equal(t, -150, events[0].Bookmakers[0].Markets[0].Outcomes[0].Price)
	require.NotNil(t, events[0].Bookmakers[0].Markets[1].Outcomes[0].Point)
	assert.Equal(t, 47.5, *events[0].Bookmakers[0].Markets[1].Outcomes[0].Point)

	// Second call within the TTL is served from cache.
	_, err = client.Events(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), requests.Load())
}

func TestCompletedGames(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sports/americanfootball_nfl/scores", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("daysFrom"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{
				"id": "game1",
				"completed": true,
				"home_team": "Kansas City Chiefs",
				"away_team": "Buffalo Bills",
				"scores": [
					{"name": "Kansas City Chiefs", "score": "27"},
					{"name": "Buffalo Bills", "score": "24"}
				]
			},
			{
				"id": "game2",
				"completed": false,
				"home_team": "Philadelphia Eagles",
				"away_team": "Dallas Cowboys",
				"scores": null
			}
		]`))
	})
	client, _ := newTestClient(t, handler)

	games, err := client.CompletedGames(context.Background())
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.True(t, games[0].Completed)
	assert.Equal(t, "27", games[0].Scores[0].Score)
	assert.False(t, games[1].Completed)
}

func TestEventsHTTPError(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client, _ := newTestClient(t, handler)

	_, err := client.Events(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
