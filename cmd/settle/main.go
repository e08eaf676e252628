// Package main provides a CLI for running settlement passes manually.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/parlay-forge/internal/config"
	"github.com/yourusername/parlay-forge/internal/database"
	"github.com/yourusername/parlay-forge/internal/datasource"
	"github.com/yourusername/parlay-forge/internal/logger"
	"github.com/yourusername/parlay-forge/internal/oddsapi"
	"github.com/yourusername/parlay-forge/internal/repository"
	"github.com/yourusername/parlay-forge/internal/settlement"
)

var (
	configFile string
	userID     string
	timeout    time.Duration

	cfg     *config.Config
	appLog  *logrus.Logger
	db      *database.DB
	settler *settlement.Settler
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Timeout for the settlement pass")
	rootCmd.Flags().StringVarP(&userID, "user", "u", "", "Settle one user's pending bets (default: sweep all users)")
}

var rootCmd = &cobra.Command{
	Use:   "settle",
	Short: "Run a settlement pass over pending parlay bets",
	Long: `Fetches recently completed games, grades every resolvable leg of
pending parlay bets and finalizes bets whose legs are all resolved.
Safe to re-run: already settled bets are skipped.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSettlement(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if db != nil {
			db.Close()
		}
	},
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func setup() error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		if err := config.LoadSecretsFromAWS(cfg, os.Getenv("AWS_REGION"), os.Getenv("AWS_SECRET_NAME")); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	appLog = logger.NewLogger(cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err = database.NewDB(ctx, cfg.GetDatabaseDSN(), cfg.Database.MaxConnections)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), appLog)
	oddsClient := oddsapi.NewClient(&cfg.OddsAPI, httpClient, cfg.OddsCacheTTL(), appLog)

	betRepo := repository.NewPostgresBetRepository(db)
	grader := settlement.NewGrader(appLog)
	settler = settlement.NewSettler(betRepo, oddsClient, grader, appLog, logger.NewAuditLogger(appLog))

	return nil
}

func runSettlement(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if userID == "" {
		fmt.Println("Sweeping all users with pending bets...")
		return settler.SettleAllPending(ctx)
	}

	summary, err := settler.SettleUserBets(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Settled: %d  Pending: %d\n", summary.Settled, summary.Pending)
	for _, result := range summary.Results {
		fmt.Printf("  %s  %-16s %-5s stake $%.2f  payout $%.2f  profit $%+.2f\n",
			result.BetID, result.Strategy, result.Status, result.Stake, result.Payout, result.Profit)
	}
	return nil
}
