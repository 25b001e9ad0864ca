package noop

import (
	"context"
	"log"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReportReady(_ context.Context, report *domain.LabReport) error {
	log.Printf("[NOOP EMAIL] report %s ready: %s", report.ID, report.Summary)
	return nil
}

func (s *noopSender) SendReportFailed(_ context.Context, report *domain.LabReport) error {
	log.Printf("[NOOP EMAIL] report %s failed: %s", report.ID, report.ErrorMessage)
	return nil
}
