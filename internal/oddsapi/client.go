// Package oddsapi provides a client for The Odds API v4 odds and
// scores endpoints.
package oddsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/datasource"
	"github.com/yourusername/parlay-forge/internal/metrics"
	"github.com/yourusername/parlay-forge/internal/models"
)

const (
	eventsCacheKey = "events"
	scoresCacheKey = "scores"
)

// Client fetches upcoming odds and completed scores. Responses are
// cached briefly so a burst of forge requests does not burn through the
// provider's monthly request quota.
type Client struct {
	cfg    *config.OddsAPIConfig
	http   *datasource.RateLimitedHTTPClient
	cache  *gocache.Cache
	logger *logrus.Logger

	cacheHits    atomic.Int64
	cacheLookups atomic.Int64
}

// NewClient creates an odds API client
func NewClient(cfg *config.OddsAPIConfig, httpClient *datasource.RateLimitedHTTPClient, ttl time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   httpClient,
		cache:  gocache.New(ttl, 2*ttl),
		logger: logger,
	}
}

// Events returns upcoming games with quoted odds for the configured
// sport, bookmakers and markets.
func (c *Client) Events(ctx context.Context) ([]models.OddsEvent, error) {
	if cached, found := c.lookupCache(eventsCacheKey); found {
		return cached.([]models.OddsEvent), nil
	}

	query := url.Values{}
	query.Set("apiKey", c.cfg.APIKey)
	query.Set("regions", "us")
	query.Set("markets", c.cfg.Markets)
	query.Set("bookmakers", c.cfg.Bookmakers)
	query.Set("oddsFormat", "american")

	var events []models.OddsEvent
	if err := c.getJSON(ctx, "odds", fmt.Sprintf("/sports/%s/odds", c.cfg.SportKey), query, &events); err != nil {
		return nil, err
	}

	c.cache.SetDefault(eventsCacheKey, events)
	return events, nil
}

// CompletedGames returns games from the last ScoresDaysFrom days. The
// list includes in-progress games; callers check the Completed flag.
func (c *Client) CompletedGames(ctx context.Context) ([]models.CompletedGame, error) {
	if cached, found := c.lookupCache(scoresCacheKey); found {
		return cached.([]models.CompletedGame), nil
	}

	query := url.Values{}
	query.Set("apiKey", c.cfg.APIKey)
	query.Set("daysFrom", strconv.Itoa(c.cfg.ScoresDaysFrom))

	var games []models.CompletedGame
	if err := c.getJSON(ctx, "scores", fmt.Sprintf("/sports/%s/scores", c.cfg.SportKey), query, &games); err != nil {
		return nil, err
	}

	c.cache.SetDefault(scoresCacheKey, games)
	return games, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, query url.Values, out interface{}) error {
	requestURL := c.cfg.BaseURL + path + "?" + query.Encode()

	resp, err := c.http.Get(ctx, requestURL)
	if err != nil {
		metrics.OddsAPIRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		return fmt.Errorf("odds api %s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.OddsAPIRequestsTotal.WithLabelValues(endpoint, "http_error").Inc()
		return fmt.Errorf("odds api %s returned status %d", endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.OddsAPIRequestsTotal.WithLabelValues(endpoint, "decode_error").Inc()
		return fmt.Errorf("failed to decode odds api %s response: %w", endpoint, err)
	}

	metrics.OddsAPIRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	c.logger.WithFields(logrus.Fields{
		"endpoint":  endpoint,
		"remaining": resp.Header.Get("X-Requests-Remaining"),
	}).Debug("Odds API request complete")

	return nil
}

func (c *Client) lookupCache(key string) (interface{}, bool) {
	c.cacheLookups.Add(1)
	value, found := c.cache.Get(key)
	if found {
		c.cacheHits.Add(1)
	}
	if lookups := c.cacheLookups.Load(); lookups > 0 {
		metrics.OddsCacheHitRatio.Set(float64(c.cacheHits.Load()) / float64(lookups))
	}
	return value, found
}
