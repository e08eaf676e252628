// Package config provides configuration management for the Parlay Forge application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	OddsAPI    OddsAPIConfig    `mapstructure:"odds_api" validate:"required"`
	Grok       AIProviderConfig `mapstructure:"grok" validate:"required"`
	OpenAI     AIProviderConfig `mapstructure:"openai" validate:"required"`
	Forge      ForgeConfig      `mapstructure:"forge" validate:"required"`
	Settlement SettlementConfig `mapstructure:"settlement" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP API server configuration
type ServerConfig struct {
	Port            int `mapstructure:"port" validate:"required,min=1,max=65535"`
	HealthPort      int `mapstructure:"health_port" validate:"required,min=1,max=65535"`
	ReadTimeoutSec  int `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSec int `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// OddsAPIConfig represents The Odds API configuration
type OddsAPIConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	APIKey          string `mapstructure:"api_key" validate:"required"`
	SportKey        string `mapstructure:"sport_key" validate:"required"`
	Bookmakers      string `mapstructure:"bookmakers" validate:"required"`
	Markets         string `mapstructure:"markets" validate:"required"`
	ScoresDaysFrom  int    `mapstructure:"scores_days_from" validate:"required,min=1,max=3"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// AIProviderConfig represents one chat-completion provider
type AIProviderConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	APIKey         string  `mapstructure:"api_key" validate:"required"`
	Model          string  `mapstructure:"model" validate:"required"`
	Temperature    float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens      int     `mapstructure:"max_tokens" validate:"gte=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
}

// ForgeConfig represents blueprint generation configuration
type ForgeConfig struct {
	MaxGamesPerPrompt int     `mapstructure:"max_games_per_prompt" validate:"required,gt=0"`
	MinStake          float64 `mapstructure:"min_stake" validate:"required,gt=0"`
	AutoSaveTopN      int     `mapstructure:"auto_save_top_n" validate:"gte=0"`
}

// SettlementConfig represents settlement sweep configuration
type SettlementConfig struct {
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" validate:"required,gt=0"`
	PassTimeoutSeconds   int `mapstructure:"pass_timeout_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// OddsCacheTTL returns the odds event cache TTL as a duration
func (c *Config) OddsCacheTTL() time.Duration {
	return time.Duration(c.OddsAPI.CacheTTLSeconds) * time.Second
}

// SettlementPassTimeout returns the per-pass settlement timeout
func (c *Config) SettlementPassTimeout() time.Duration {
	return time.Duration(c.Settlement.PassTimeoutSeconds) * time.Second
}
