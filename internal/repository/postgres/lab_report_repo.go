package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"vitalis/internal/domain"
	"vitalis/internal/port"
)

type labReportRepo struct {
	db *sqlx.DB
}

// NewLabReportRepo creates a new PostgreSQL-backed LabReportRepository.
func NewLabReportRepo(db *sqlx.DB) port.LabReportRepository {
	return &labReportRepo{db: db}
}

func (r *labReportRepo) Create(ctx context.Context, report *domain.LabReport) error {
	now := time.Now().UTC()
	report.CreatedAt = now
	report.UpdatedAt = now

	query := `INSERT INTO lab_reports
		(id, report_type, file_name, content_type, file_size, s3_bucket, s3_key,
		 status, summary, error_message, pages_total, pages_failed, attempts,
		 retry_after, extracted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.ReportType, report.FileName, report.ContentType,
		report.FileSize, report.S3Bucket, report.S3Key, report.Status,
		report.Summary, report.ErrorMessage, report.PagesTotal, report.PagesFailed,
		report.Attempts, report.RetryAfter, report.ExtractedAt,
		report.CreatedAt, report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("labReportRepo.Create: %w", err)
	}
	return nil
}

func (r *labReportRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.LabReport, error) {
	var report domain.LabReport
	err := r.db.GetContext(ctx, &report, "SELECT * FROM lab_reports WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("labReportRepo.GetByID: %w", err)
	}
	return &report, nil
}

func (r *labReportRepo) List(ctx context.Context, offset, limit int) ([]domain.LabReport, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM lab_reports"); err != nil {
		return nil, 0, fmt.Errorf("labReportRepo.List count: %w", err)
	}

	var reports []domain.LabReport
	err := r.db.SelectContext(ctx, &reports,
		"SELECT * FROM lab_reports ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("labReportRepo.List: %w", err)
	}
	return reports, total, nil
}

func (r *labReportRepo) Update(ctx context.Context, report *domain.LabReport) error {
	report.UpdatedAt = time.Now().UTC()

	query := `UPDATE lab_reports SET
		status = $2, summary = $3, error_message = $4, pages_total = $5,
		pages_failed = $6, attempts = $7, retry_after = $8, extracted_at = $9,
		updated_at = $10
		WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query,
		report.ID, report.Status, report.Summary, report.ErrorMessage,
		report.PagesTotal, report.PagesFailed, report.Attempts,
		report.RetryAfter, report.ExtractedAt, report.UpdatedAt)
	if err != nil {
		return fmt.Errorf("labReportRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *labReportRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM lab_reports WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("labReportRepo.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ClaimQueued marks up to limit due queued reports as processing and returns
// them. SKIP LOCKED lets multiple worker processes poll the same table
// without double-claiming.
func (r *labReportRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.LabReport, error) {
	query := `UPDATE lab_reports SET status = $1, updated_at = NOW()
		WHERE id IN (
			SELECT id FROM lab_reports
			WHERE status = $2 AND (retry_after IS NULL OR retry_after <= NOW())
			ORDER BY created_at
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	var reports []domain.LabReport
	err := r.db.SelectContext(ctx, &reports, query,
		domain.ExtractionStatusProcessing, domain.ExtractionStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("labReportRepo.ClaimQueued: %w", err)
	}
	return reports, nil
}
