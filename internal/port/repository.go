package port

import (
	"context"

	"github.com/google/uuid"

	"vitalis/internal/domain"
)

// LabReportRepository persists lab report rows and drives the extraction queue.
type LabReportRepository interface {
	Create(ctx context.Context, report *domain.LabReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LabReport, error)
	List(ctx context.Context, offset, limit int) ([]domain.LabReport, int, error)
	Update(ctx context.Context, report *domain.LabReport) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ClaimQueued atomically claims up to limit queued reports whose retry
	// horizon has passed, marking them processing.
	ClaimQueued(ctx context.Context, limit int) ([]domain.LabReport, error)
}

// SensitivityRepository persists food sensitivity findings. Upsert is keyed
// by normalized food name so repeated extractions refresh rather than
// duplicate a finding.
type SensitivityRepository interface {
	Upsert(ctx context.Context, records []domain.SensitivityRecord) error
	List(ctx context.Context) ([]domain.SensitivityRecord, error)
}

// BiomarkerRepository persists biomarker measurements as an append-only
// time series.
type BiomarkerRepository interface {
	InsertBatch(ctx context.Context, records []domain.BiomarkerRecord) error
	List(ctx context.Context) ([]domain.BiomarkerRecord, error)
	ListByName(ctx context.Context, name string) ([]domain.BiomarkerRecord, error)
}
