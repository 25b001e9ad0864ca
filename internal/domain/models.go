package domain

import (
	"time"

	"github.com/google/uuid"
)

// LabReport represents an uploaded lab document and its extraction lifecycle.
type LabReport struct {
	ID           uuid.UUID        `db:"id" json:"id"`
	ReportType   string           `db:"report_type" json:"report_type"`
	FileName     string           `db:"file_name" json:"file_name"`
	ContentType  string           `db:"content_type" json:"content_type"`
	FileSize     int64            `db:"file_size" json:"file_size"`
	S3Bucket     string           `db:"s3_bucket" json:"-"`
	S3Key        string           `db:"s3_key" json:"-"`
	Status       ExtractionStatus `db:"status" json:"status"`
	Summary      string           `db:"summary" json:"summary"`
	ErrorMessage string           `db:"error_message" json:"error_message"`
	PagesTotal   int              `db:"pages_total" json:"pages_total"`
	PagesFailed  int              `db:"pages_failed" json:"pages_failed"`
	Attempts     int              `db:"attempts" json:"attempts"`
	RetryAfter   *time.Time       `db:"retry_after" json:"retry_after"`
	ExtractedAt  *time.Time       `db:"extracted_at" json:"extracted_at"`
	CreatedAt    time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time        `db:"updated_at" json:"updated_at"`
}

// SensitivityRecord is an extracted food-reactivity finding.
// Food and Level come from the model; Source, DetectedAt and ReportID are
// annotated by the extraction pipeline before persistence.
type SensitivityRecord struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	Food       string           `db:"food" json:"food"`
	Level      SensitivityLevel `db:"level" json:"level"`
	Category   *string          `db:"category" json:"category"`
	Source     RecordSource     `db:"source" json:"source"`
	ReportID   *uuid.UUID       `db:"report_id" json:"report_id"`
	DetectedAt time.Time        `db:"detected_at" json:"detected_at"`
}

// BiomarkerRecord is an extracted numeric clinical measurement.
type BiomarkerRecord struct {
	ID         uuid.UUID        `db:"id" json:"id"`
	Name       string           `db:"name" json:"name"`
	Value      float64          `db:"value" json:"value"`
	Unit       string           `db:"unit" json:"unit"`
	Status     *BiomarkerStatus `db:"status" json:"status"`
	Source     RecordSource     `db:"source" json:"source"`
	ReportID   *uuid.UUID       `db:"report_id" json:"report_id"`
	DetectedAt time.Time        `db:"detected_at" json:"detected_at"`
}

// MealInsight is the result of a single-shot meal photo analysis.
// It is returned to the caller directly and not persisted.
type MealInsight struct {
	Summary       string              `json:"summary"`
	Sensitivities []SensitivityRecord `json:"sensitivities"`
	AnalyzedAt    time.Time           `json:"analyzed_at"`
}
