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

	logger.Info("Starting weekly-trend")

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
	now := time.Now()
	start := now.AddDate(0, 0, -6)

	repo, err := storage.NewRepository(cfg.DBPath, schema)
	if err != nil {
		logger.Error("Failed to open transaction store", log.FieldError, err, "path", cfg.DBPath)
		os.Exit(1)
	}

	rows, err := repo.ExpenseDailyTotals(ctx, start, now)
	repo.Close()
	if err != nil {
		logger.Error("Failed to read daily totals", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Daily totals loaded", log.FieldRows, len(rows))

	svc := services.NewReportService(
		delivery.NewClient(cfg.APIToken, cfg.AllowedUserID, cfg.DeliveryTimeout),
		logger,
	)
	job := services.Job{
		Name: "weekly-trend",
		Assembler: &report.TrendAssembler{
			Rows:      rows,
			Start:     start,
			Threshold: cfg.WeeklyThreshold,
			Dir:       cfg.ReportDir,
		},
		Caption: "📊 Your weekly expense report (last 7 days)",
		AsPhoto: true,
	}

	if err := svc.Run(ctx, job); err != nil {
		logger.Error("Report run failed", log.FieldError, err)
		os.Exit(1)
	}
}
