// Package services wires one report run end to end: assemble the
// artifact, deliver it, then clean it up.
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"finreport/internal/log"
	"finreport/internal/report"
)

// Sender is the delivery capability a run needs: a document upload and a
// photo upload to the one configured recipient.
type Sender interface {
	SendDocument(ctx context.Context, path, caption string) error
	SendPhoto(ctx context.Context, path, caption string) error
}

// Job describes one report run.
type Job struct {
	Name      string
	Assembler report.Assembler
	Caption   string
	AsPhoto   bool
}

// ReportService runs the linear build → deliver → cleanup sequence.
//
// Delivery failures are logged and do not fail the run: the artifact's
// purpose is served by the single attempt, and cleanup must happen either
// way. Cleanup failures are logged and never escalate.
type ReportService struct {
	sender Sender
	logger *log.Logger
}

func NewReportService(sender Sender, logger *log.Logger) *ReportService {
	return &ReportService{
		sender: sender,
		logger: logger.WithComponent(log.ComponentService),
	}
}

func (s *ReportService) Run(ctx context.Context, job Job) error {
	logger := s.logger.With(
		log.FieldRunID, uuid.NewString(),
		log.FieldReport, job.Name,
	)

	started := time.Now()
	path, err := job.Assembler.Build()
	if errors.Is(err, report.ErrNoData) {
		logger.Info("No data to report, nothing produced or sent")
		return nil
	}
	if err != nil {
		return fmt.Errorf("build %s artifact: %w", job.Name, err)
	}
	logger.Info("Artifact rendered",
		log.FieldOperation, log.OpRender,
		log.FieldArtifact, path,
		log.FieldDuration, time.Since(started).Milliseconds())

	if job.AsPhoto {
		err = s.sender.SendPhoto(ctx, path, job.Caption)
	} else {
		err = s.sender.SendDocument(ctx, path, job.Caption)
	}
	if err != nil {
		logger.Error("Delivery failed, continuing to cleanup",
			log.FieldOperation, log.OpDeliver,
			log.FieldError, err)
	} else {
		logger.Info("Artifact delivered",
			log.FieldOperation, log.OpDeliver,
			log.FieldArtifact, path)
	}

	if err := os.Remove(path); err != nil {
		logger.Warn("Failed to remove artifact",
			log.FieldOperation, log.OpCleanup,
			log.FieldArtifact, path,
			log.FieldError, err)
	}

	return nil
}
