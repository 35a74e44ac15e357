package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"datalens/adapters/excel"
	"datalens/adapters/postgres"
	"datalens/app"
	"datalens/internal"
	"datalens/internal/api"
	"datalens/internal/config"
	"datalens/internal/engine"
	"datalens/ports"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.DefaultLogger

	accessor, cleanup, err := buildAccessor(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to initialize data source: %v", err)
	}
	defer cleanup()

	eng := engine.New(
		engine.WithSampleBudget(appConfig.Analysis.SampleBudget),
		engine.WithHistogramBins(appConfig.Analysis.HistogramBins),
		engine.WithTopN(appConfig.Analysis.TopN),
	)
	service := app.NewAnalysisService(accessor, eng, logger, appConfig.Analysis.SweepWorkers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(service, logger)
	if err := server.Start(ctx, ":"+appConfig.Server.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// buildAccessor picks the data source: postgres when DATABASE_URL is set,
// otherwise the file-based accessor.
func buildAccessor(appConfig *config.Config, logger *internal.Logger) (ports.DataAccessor, func(), error) {
	if appConfig.Database.URL != "" {
		db, err := sqlx.Connect("postgres", appConfig.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres data source")
		return postgres.NewAccessor(db, appConfig.Database.OrderBy), func() { db.Close() }, nil
	}

	logger.Info("using file data source: %s", appConfig.Data.File)
	return excel.NewAccessor(appConfig.Data.File), func() {}, nil
}
