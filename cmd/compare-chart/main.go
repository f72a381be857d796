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
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.New(log.ParseLevel(cfg.LogLevel), log.ComponentApp)
	log.SetDefault(logger)

	logger.Info("Starting compare-chart")

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
	window := core.NewCompareWindow(time.Now())

	repo, err := storage.NewRepository(cfg.DBPath, schema)
	if err != nil {
		logger.Error("Failed to open transaction store", log.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}

	thisRows, err := repo.ExpenseDayCategoryTotals(ctx, window.ThisStart, window.ThisEnd)
	if err != nil {
		repo.Close()
		logger.Error("Failed to read current month expenses", log.FieldError, err)
		os.Exit(1)
	}
	lastRows, err := repo.ExpenseDayCategoryTotals(ctx, window.LastStart, window.LastEnd)
	repo.Close()
	if err != nil {
		logger.Error("Failed to read previous month expenses", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Expense rows loaded", log.FieldRows, len(thisRows)+len(lastRows), "compare_days", window.Days)

	svc := services.NewReportService(
		delivery.NewClient(cfg.APIToken, cfg.AllowedUserID, cfg.DeliveryTimeout),
		logger,
	)
	job := services.Job{
		Name: "compare-chart",
		Assembler: &report.CompareAssembler{
			Window:   window,
			ThisRows: thisRows,
			LastRows: lastRows,
			Dir:      cfg.ReportDir,
		},
		Caption: "📊 This Month vs Last Month",
		AsPhoto: true,
	}

	if err := svc.Run(ctx, job); err != nil {
		logger.Error("Report run failed", log.FieldError, err)
		os.Exit(1)
	}
}
