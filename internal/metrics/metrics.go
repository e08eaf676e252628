// Package metrics provides the centralized Prometheus registry for the
// parlay forge service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BlueprintsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlay_forge",
		Name:      "blueprints_generated_total",
		Help:      "Total number of blueprint generation attempts by strategy and outcome",
	}, []string{"strategy", "outcome"})

	AIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlay_forge",
		Name:      "ai_requests_total",
		Help:      "Total number of model completion requests by provider and outcome",
	}, []string{"provider", "outcome"})

	AIParseFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "parlay_forge",
		Name:      "ai_parse_failures_total",
		Help:      "Total number of model responses that failed every JSON recovery stage",
	})

	BetsPlacedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "parlay_forge",
		Name:      "bets_placed_total",
		Help:      "Total number of parlay bets placed",
	})

	BetsSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlay_forge",
		Name:      "bets_settled_total",
		Help:      "Total number of parlay bets settled by final status",
	}, []string{"status"})

	LegsGradedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlay_forge",
		Name:      "legs_graded_total",
		Help:      "Total number of legs graded by market classification and result",
	}, []string{"market", "result"})

	OddsAPIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "parlay_forge",
		Name:      "odds_api_requests_total",
		Help:      "Total number of odds provider requests by endpoint and outcome",
	}, []string{"endpoint", "outcome"})
)

// Gauge metrics
var (
	PendingBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "parlay_forge",
		Name:      "pending_bets",
		Help:      "Number of pending bets observed by the last settlement pass",
	})

	OddsCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "parlay_forge",
		Name:      "odds_cache_hit_ratio",
		Help:      "Hit ratio of the odds event cache",
	})

	StreamClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "parlay_forge",
		Name:      "stream_clients",
		Help:      "Number of connected websocket update clients",
	})
)

// Histogram metrics
var (
	ForgeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "parlay_forge",
		Name:      "forge_duration_seconds",
		Help:      "Duration of a full multi-strategy blueprint generation in seconds",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
	})

	SettlementDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "parlay_forge",
		Name:      "settlement_duration_seconds",
		Help:      "Duration of a settlement pass in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	AIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "parlay_forge",
		Name:      "ai_request_duration_seconds",
		Help:      "Latency of model completion requests in seconds",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
	}, []string{"provider"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(BlueprintsGeneratedTotal)
		registry.MustRegister(AIRequestsTotal)
		registry.MustRegister(AIParseFailuresTotal)
		registry.MustRegister(BetsPlacedTotal)
		registry.MustRegister(BetsSettledTotal)
		registry.MustRegister(LegsGradedTotal)
		registry.MustRegister(OddsAPIRequestsTotal)

		registry.MustRegister(PendingBets)
		registry.MustRegister(OddsCacheHitRatio)
		registry.MustRegister(StreamClients)

		registry.MustRegister(ForgeDuration)
		registry.MustRegister(SettlementDuration)
		registry.MustRegister(AIRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}
