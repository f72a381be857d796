package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"finreport/internal/config"
	"finreport/internal/core"
	"finreport/internal/delivery"
	"finreport/internal/log"
	"finreport/internal/report"
	"finreport/internal/services"
	"finreport/internal/storage"
)

func main() {
	// Load .env for local use; in production the environment is set.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.ParseLevel(cfg.LogLevel), log.ComponentApp)
	log.SetDefault(logger)

	logger.Info("Starting monthly-report")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	schema, err := core.SchemaByName(cfg.TxSchema)
	if err != nil {
		logger.Error("Invalid transaction schema", log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()

	repo, err := storage.NewRepository(cfg.DBPath, schema)
	if err != nil {
		logger.Error("Failed to open transaction store", log.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}

	txs, err := repo.ListTransactions(ctx)
	// The connection is released as soon as the read completes; it is
	// never held across the render or delivery steps.
	repo.Close()
	if err != nil {
		logger.Error("Failed to read transactions", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Transactions loaded", log.FieldRows, len(txs))

	agg, err := core.Aggregate(txs, schema)
	if err != nil {
		logger.Error("Aggregation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Transactions aggregated", log.FieldMonths, len(agg.Months()))

	svc := services.NewReportService(
		delivery.NewClient(cfg.APIToken, cfg.AllowedUserID, cfg.DeliveryTimeout),
		logger,
	)
	job := services.Job{
		Name: "monthly-report",
		Assembler: &report.WorkbookAssembler{
			Aggregate: agg,
			Schema:    schema,
			Dir:       cfg.ReportDir,
			Now:       time.Now(),
		},
	}

	if err := svc.Run(ctx, job); err != nil {
		logger.Error("Report run failed", log.FieldError, err)
		os.Exit(1)
	}
}
