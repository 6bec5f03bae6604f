package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/soletrack/soletrack-backend/internal/adapter/api"
	"github.com/soletrack/soletrack-backend/internal/adapter/provider"
	"github.com/soletrack/soletrack-backend/internal/adapter/repository/postgres"
	"github.com/soletrack/soletrack-backend/internal/config"
	"github.com/soletrack/soletrack-backend/internal/domain"
	"github.com/soletrack/soletrack-backend/internal/usecase/dashboard"
	"github.com/soletrack/soletrack-backend/internal/usecase/refresher"
	"github.com/soletrack/soletrack-backend/internal/usecase/seeder"
	"github.com/soletrack/soletrack-backend/internal/usecase/valuation"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	// 2. Setup Database
	// Short delay so a freshly started Postgres container is reachable
	time.Sleep(2 * time.Second)

	db, err := postgres.NewDB(cfg.ConnectionString())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer db.Close()

	// 3. Initialize Repositories (Postgres)
	itemRepo := postgres.NewItemRepository(db)
	mappingRepo := postgres.NewMappingRepository(db)
	snapshotRepo := postgres.NewSnapshotRepository(db)
	fxRateRepo := postgres.NewFxRateRepository(db)

	// 4. Initialize provider fetchers
	fetchers := []refresher.Fetcher{
		provider.NewStockXClient(cfg.StockXBaseURL, cfg.StockXAPIKey),
		provider.NewGoatClient(cfg.GoatBaseURL, cfg.GoatAPIKey),
		provider.NewEbayClient(cfg.EbayBaseURL, cfg.EbayAPIKey),
	}

	// 5. Initialize Services (Use Cases)
	valuationService := valuation.NewService(itemRepo, mappingRepo, snapshotRepo, fxRateRepo, domain.DefaultFeeSchedule())
	valuationService.TrendWindow = cfg.TrendWindow
	dashboardService := dashboard.NewDashboardService(valuationService)
	refreshService := refresher.NewService(mappingRepo, snapshotRepo, fetchers, log)

	ctx := context.Background()

	// Seed demo inventory on request (fresh environments)
	if os.Getenv("SEED_DEMO") == "true" {
		demoSeeder := seeder.NewDemoSeeder(itemRepo, mappingRepo)
		if err := demoSeeder.Seed(ctx); err != nil {
			log.WithError(err).Fatal("Failed to seed demo inventory")
		}
		log.Info("Demo inventory seeded")
	}

	// 6. Start REST API server
	server := api.NewServer(
		valuationService,
		dashboardService,
		refreshService,
		itemRepo,
		db,
		cfg.APIPort,
		cfg.APIKey,
		cfg.DisplayCurrency,
		log,
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to serve REST API")
		}
	}()

	// Graceful shutdown
	waitForShutdown(server, log)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(server *api.Server, log *logrus.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.WithField("signal", sig.String()).Info("Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Forced shutdown")
	}
	log.Info("Server stopped")
}
