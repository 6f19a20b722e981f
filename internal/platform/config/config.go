package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Ticker universe for scheduled ingestion, comma separated in TICKERS.
	Tickers []string

	// External providers
	PolygonAPIKey      string `mapstructure:"POLYGON_API_KEY"`
	PolygonBaseURL     string `mapstructure:"POLYGON_BASE_URL"`
	FrankfurterBaseURL string `mapstructure:"FRANKFURTER_BASE_URL"`
	ProviderMaxRetries int
	ProviderTimeout    time.Duration

	// Scheduling and throttling
	IngestCron    string
	LoadRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("TICKERS", "")
	viper.SetDefault("POLYGON_API_KEY", "")
	viper.SetDefault("POLYGON_BASE_URL", "https://api.polygon.io")
	viper.SetDefault("FRANKFURTER_BASE_URL", "https://api.frankfurter.dev")
	viper.SetDefault("PROVIDER_MAX_RETRIES", 3)
	viper.SetDefault("PROVIDER_TIMEOUT", "30s")
	viper.SetDefault("INGEST_CRON", "")
	viper.SetDefault("LOAD_RATE_LIMIT", "60-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.Tickers = splitCSV(viper.GetString("TICKERS"))

	cfg.PolygonAPIKey = viper.GetString("POLYGON_API_KEY")
	cfg.PolygonBaseURL = viper.GetString("POLYGON_BASE_URL")
	cfg.FrankfurterBaseURL = viper.GetString("FRANKFURTER_BASE_URL")

	cfg.ProviderMaxRetries = viper.GetInt("PROVIDER_MAX_RETRIES")
	if cfg.ProviderMaxRetries <= 0 {
		cfg.ProviderMaxRetries = 3
	}

	providerTimeoutStr := viper.GetString("PROVIDER_TIMEOUT")
	providerTimeout, err := time.ParseDuration(providerTimeoutStr)
	if err != nil {
		providerTimeout = 30 * time.Second
		if providerTimeoutStr != "" {
			log.Printf("Warning: Invalid value for PROVIDER_TIMEOUT ('%s'). Defaulting to %s.\n", providerTimeoutStr, providerTimeout.String())
		}
	}
	cfg.ProviderTimeout = providerTimeout

	cfg.IngestCron = viper.GetString("INGEST_CRON")
	cfg.LoadRateLimit = viper.GetString("LOAD_RATE_LIMIT")
	if cfg.LoadRateLimit == "" {
		cfg.LoadRateLimit = "60-M"
		log.Printf("Warning: LOAD_RATE_LIMIT not set. Defaulting to %s.\n", cfg.LoadRateLimit)
	}

	if cfg.IngestCron != "" && cfg.PolygonAPIKey == "" {
		log.Println("Warning: INGEST_CRON is set but POLYGON_API_KEY is not. Scheduled ingestion will not function.")
	}
	if cfg.IngestCron != "" && len(cfg.Tickers) == 0 {
		log.Println("Warning: INGEST_CRON is set but TICKERS is empty. Scheduled ingestion will load no prices.")
	}

	return cfg, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
