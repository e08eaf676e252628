// Package main provides the entry point for the parlay forge service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/parlay-forge/internal/ai"
	"github.com/yourusername/parlay-forge/internal/api"
	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/database"
	"github.com/yourusername/parlay-forge/internal/datasource"
	"github.com/yourusername/parlay-forge/internal/health"
	"github.com/yourusername/parlay-forge/internal/logger"
	"github.com/yourusername/parlay-forge/internal/metrics"
	"github.com/yourusername/parlay-forge/internal/oddsapi"
	"github.com/yourusername/parlay-forge/internal/repository"
	"github.com/yourusername/parlay-forge/internal/scheduler"
	"github.com/yourusername/parlay-forge/internal/service"
	"github.com/yourusername/parlay-forge/internal/settlement"
	"github.com/yourusername/parlay-forge/internal/stream"
	"github.com/yourusername/parlay-forge/internal/tracing"
)

// Build information - set via ldflags
var (
	Version = "dev"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.LoadWithDefaults(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
	}).Info("Parlay Forge starting")

	if err := tracing.Setup(appLog); err != nil {
		appLog.WithError(err).Warn("Failed to configure tracing")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDB(ctx, cfg.GetDatabaseDSN(), cfg.Database.MaxConnections)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	betRepo := repository.NewPostgresBetRepository(db)
	blueprintRepo := repository.NewPostgresBlueprintRepository(db)

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), appLog)
	defer httpClient.Close()

	oddsClient := oddsapi.NewClient(&cfg.OddsAPI, httpClient, cfg.OddsCacheTTL(), appLog)
	grok := ai.NewGrokClient(&cfg.Grok, httpClient, appLog)
	openai := ai.NewOpenAIClient(&cfg.OpenAI, httpClient, appLog)

	audit := logger.NewAuditLogger(appLog)
	hub := stream.NewHub(appLog)
	go hub.Run()
	defer hub.Close()

	forgeSvc := service.NewForgeService(
		[]ai.ChatClient{grok, openai},
		oddsClient, blueprintRepo, betRepo, &cfg.Forge, appLog, audit,
	)
	grader := settlement.NewGrader(appLog)
	settler := settlement.NewSettler(betRepo, oddsClient, grader, appLog, audit)
	insightsSvc := service.NewInsightsService(grok, betRepo, appLog)
	statsSvc := service.NewStatsService(betRepo)

	metrics.InitRegistry()
	if cfg.Metrics.Enabled {
		startMetricsServer(ctx, cfg, appLog)
	}

	healthServer := health.NewServer(cfg.App.Name, Version, cfg.Server.HealthPort, db, appLog)
	healthServer.Start(ctx)

	sched := scheduler.NewScheduler(settler, oddsClient, appLog)
	sweepInterval := time.Duration(cfg.Settlement.SweepIntervalMinutes) * time.Minute
	if err := sched.ScheduleSettlementSweep(sweepInterval, cfg.SettlementPassTimeout()); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule settlement sweep")
	}
	if err := sched.ScheduleOddsRefresh(cfg.OddsCacheTTL()); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule odds refresh")
	}
	if err := sched.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}
	defer sched.Stop()

	apiServer := api.NewServer(&cfg.Server, api.Deps{
		Forge:      forgeSvc,
		Settler:    settler,
		Odds:       oddsClient,
		Insights:   insightsSvc,
		Stats:      statsSvc,
		Bets:       betRepo,
		Blueprints: blueprintRepo,
		Hub:        hub,
		Logger:     appLog,
	}, cfg.IsProduction())
	apiServer.Start(ctx)

	healthServer.SetReady(true)
	appLog.WithField("port", cfg.Server.Port).Info("Parlay Forge ready")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
}

func startMetricsServer(ctx context.Context, cfg *config.Config, appLog *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: mux,
	}

	go func() {
		appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Error("Metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
}
