package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/stock_warehouse/internal/adapters/database/pgsql"
	"github.com/SscSPs/stock_warehouse/internal/adapters/providers/frankfurter"
	"github.com/SscSPs/stock_warehouse/internal/adapters/providers/polygon"
	"github.com/SscSPs/stock_warehouse/internal/core/ports/providers"
	"github.com/SscSPs/stock_warehouse/internal/core/services"
	"github.com/SscSPs/stock_warehouse/internal/handlers"
	"github.com/SscSPs/stock_warehouse/internal/middleware"
	"github.com/SscSPs/stock_warehouse/internal/platform/config"
	"github.com/SscSPs/stock_warehouse/internal/platform/scheduler"
	"github.com/SscSPs/stock_warehouse/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Rate limit for the write side (fact loads, manual ingestion)
	rate, err := limiter.NewRateFromFormatted(cfg.LoadRateLimit)
	if err != nil {
		logger.Error("Invalid LOAD_RATE_LIMIT", slog.String("value", cfg.LoadRateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	loadLimiter := limiter.New(memory.NewStore(), rate)

	priceProvider, rateProvider := buildProviders(cfg)

	container := services.NewServiceContainer(services.Repositories{
		Stock:      pgsql.NewStockRepository(dbPool),
		Currency:   pgsql.NewCurrencyRepository(dbPool),
		Price:      pgsql.NewPriceRepository(dbPool),
		Rate:       pgsql.NewRateRepository(dbPool),
		Conversion: pgsql.NewConversionRepository(dbPool),
		Version:    pgsql.NewVersionRepository(dbPool),
	}, priceProvider, rateProvider, cfg.Tickers)

	handlers.RegisterRoutes(r, container, loadLimiter)

	if cfg.IngestCron != "" && container.Ingestion != nil {
		sched, err := scheduler.New(cfg.IngestCron, container.Ingestion, logger)
		if err != nil {
			logger.Error("Failed to create ingestion scheduler", slog.String("error", err.Error()))
			os.Exit(1)
		}
		sched.Start()
		defer sched.Stop()
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := r.Run(":" + cfg.Port); err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")
}

// buildProviders returns nil providers when the Polygon key is absent, which
// disables ingestion entirely rather than running it half configured.
func buildProviders(cfg *config.Config) (providers.PriceProvider, providers.RateProvider) {
	if cfg.PolygonAPIKey == "" {
		return nil, nil
	}
	price := polygon.NewClient(cfg.PolygonBaseURL, cfg.PolygonAPIKey, cfg.ProviderTimeout, cfg.ProviderMaxRetries)
	rate := frankfurter.NewClient(cfg.FrankfurterBaseURL, cfg.ProviderTimeout, cfg.ProviderMaxRetries)
	return price, rate
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		logger.Error("Failed to open database connection for migrations", slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		logger.Error("Failed to ping database for migrations", slog.String("error", err.Error()))
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		logger.Error("Could not create postgres driver instance for migrations", slog.String("error", err.Error()))
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		logger.Error("Could not create migrate instance", slog.String("error", err.Error()))
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		logger.Error("Failed to apply migrations", slog.String("error", upErr.Error()))
		return upErr
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		logger.Error("Migration source error", slog.String("error", sourceErr.Error()))
		return sourceErr
	}
	if dbErr != nil {
		logger.Error("Migration database error", slog.String("error", dbErr.Error()))
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
