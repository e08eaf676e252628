package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/models"
	"github.com/yourusername/parlay-forge/internal/repository"
	"github.com/yourusername/parlay-forge/internal/service"
	"github.com/yourusername/parlay-forge/internal/settlement"
	"github.com/yourusername/parlay-forge/internal/stream"
)

// Forger covers the blueprint generation and placement operations
type Forger interface {
	Forge(ctx context.Context, req *service.ForgeRequest) (*service.ForgeResult, error)
	PlaceBet(ctx context.Context, req *service.PlaceBetRequest) (*models.ParlayBet, error)
}

// SettlementRunner runs an on-demand settlement pass for one user
type SettlementRunner interface {
	SettleUserBets(ctx context.Context, userID string) (*settlement.Summary, error)
}

// InsightsProvider analyzes a user's betting history
type InsightsProvider interface {
	GetInsights(ctx context.Context, userID string) (*service.Insights, error)
}

// StatsProvider aggregates a user's betting history
type StatsProvider interface {
	GetUserStats(ctx context.Context, userID string) (*models.UserBetStats, error)
	GetStreak(ctx context.Context, userID string) (*models.Streak, error)
}

// Server is the public HTTP API
type Server struct {
	forge      Forger
	settler    SettlementRunner
	odds       service.OddsProvider
	insights   InsightsProvider
	stats      StatsProvider
	bets       repository.BetRepository
	blueprints repository.BlueprintRepository
	hub        *stream.Hub
	logger     *logrus.Logger

	engine *gin.Engine
	server *http.Server
}

// Deps bundles the server's collaborators
type Deps struct {
	Forge      Forger
	Settler    SettlementRunner
	Odds       service.OddsProvider
	Insights   InsightsProvider
	Stats      StatsProvider
	Bets       repository.BetRepository
	Blueprints repository.BlueprintRepository
	Hub        *stream.Hub
	Logger     *logrus.Logger
}

// NewServer creates the API server and registers all routes
func NewServer(cfg *config.ServerConfig, deps Deps, production bool) *Server {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		forge:      deps.Forge,
		settler:    deps.Settler,
		odds:       deps.Odds,
		insights:   deps.Insights,
		stats:      deps.Stats,
		bets:       deps.Bets,
		blueprints: deps.Blueprints,
		hub:        deps.Hub,
		logger:     deps.Logger,
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), s.requestLogger())
	s.registerRoutes(engine)
	s.engine = engine

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) registerRoutes(engine *gin.Engine) {
	api := engine.Group("/api")
	api.POST("/forge", s.handleForge)
	api.GET("/strategies", s.handleStrategies)
	api.GET("/odds", s.handleOdds)
	api.POST("/insights", s.handleInsights)

	api.POST("/bets", s.handlePlaceBet)
	api.GET("/bets", s.handleListBets)
	api.GET("/bets/:id", s.handleGetBet)
	api.GET("/blueprints", s.handleListBlueprints)

	api.POST("/settle-bets", s.handleSettleBets)
	api.GET("/stats", s.handleStats)

	engine.GET("/ws", gin.WrapF(s.hub.ServeWS))
}

// Engine exposes the router for handler tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start serves HTTP in the background and shuts down on context cancel
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.logger.WithField("addr", s.server.Addr).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown() error {
	s.logger.Info("API server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// requestLogger logs one line per request in the structured format the
// rest of the service uses.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		})
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.Error("Request failed")
		} else {
			entry.Debug("Request handled")
		}
	}
}
