package port

import (
	"context"

	"vitalis/internal/domain"
)

// EmailSender defines the contract for extraction outcome notifications.
type EmailSender interface {
	SendReportReady(ctx context.Context, report *domain.LabReport) error
	SendReportFailed(ctx context.Context, report *domain.LabReport) error
}
