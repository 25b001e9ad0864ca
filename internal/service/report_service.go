package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"vitalis/internal/config"
	"vitalis/internal/domain"
	"vitalis/internal/extract"
	"vitalis/internal/llm"
	"vitalis/internal/port"
)

// DocumentPipeline is the slice of the extraction pipeline the service uses.
type DocumentPipeline interface {
	Run(ctx context.Context, input extract.DocumentInput, progress extract.ProgressFunc) (*extract.Extraction, error)
}

// UploadReportInput is the DTO for uploading a lab report.
type UploadReportInput struct {
	File       multipart.File
	Header     *multipart.FileHeader
	ReportType string
}

// ReportService defines the lab report management contract.
type ReportService interface {
	Upload(ctx context.Context, input UploadReportInput) (*domain.LabReport, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.LabReport, error)
	GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error)
	List(ctx context.Context, offset, limit int) ([]domain.LabReport, int, error)
	Retry(ctx context.Context, id uuid.UUID) (*domain.LabReport, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ProcessReport(ctx context.Context, report *domain.LabReport, maxAttempts int)
}

type reportService struct {
	reportRepo port.LabReportRepository
	sensRepo   port.SensitivityRepository
	bioRepo    port.BiomarkerRepository
	storage    port.ObjectStorage
	pipeline   DocumentPipeline
	email      port.EmailSender
	s3cfg      *config.S3Config
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	reportRepo port.LabReportRepository,
	sensRepo port.SensitivityRepository,
	bioRepo port.BiomarkerRepository,
	storage port.ObjectStorage,
	pipeline DocumentPipeline,
	email port.EmailSender,
	s3cfg *config.S3Config,
) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		sensRepo:   sensRepo,
		bioRepo:    bioRepo,
		storage:    storage,
		pipeline:   pipeline,
		email:      email,
		s3cfg:      s3cfg,
	}
}

func (s *reportService) Upload(ctx context.Context, input UploadReportInput) (*domain.LabReport, error) {
	contentType, err := validateUpload(input.Header, s.s3cfg.MaxFileSizeMB)
	if err != nil {
		return nil, err
	}

	reportID := uuid.New()
	key := fmt.Sprintf("reports/%s/%s", reportID, filepath.Base(input.Header.Filename))

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.s3cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: contentType,
		Size:        input.Header.Size,
	}); err != nil {
		log.Printf("reportService.Upload: storage upload failed: %v", err)
		return nil, domain.ErrUploadFailed
	}

	reportType := strings.TrimSpace(input.ReportType)
	if reportType == "" {
		reportType = "lab"
	}

	report := &domain.LabReport{
		ID:          reportID,
		ReportType:  reportType,
		FileName:    input.Header.Filename,
		ContentType: contentType,
		FileSize:    input.Header.Size,
		S3Bucket:    s.s3cfg.Bucket,
		S3Key:       key,
		Status:      domain.ExtractionStatusQueued,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		// Roll back the orphaned object so a failed upload leaves no trace.
		if delErr := s.storage.Delete(ctx, s.s3cfg.Bucket, key); delErr != nil {
			log.Printf("reportService.Upload: rolling back object %s: %v", key, delErr)
		}
		return nil, fmt.Errorf("creating report: %w", err)
	}
	return report, nil
}

func (s *reportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.LabReport, error) {
	return s.reportRepo.GetByID(ctx, id)
}

// GetDownloadURL returns a presigned URL for the report's original document.
func (s *reportService) GetDownloadURL(ctx context.Context, id uuid.UUID) (string, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.storage.GetPresignedURL(ctx, report.S3Bucket, report.S3Key, s.s3cfg.PresignExpiry)
}

func (s *reportService) List(ctx context.Context, offset, limit int) ([]domain.LabReport, int, error) {
	return s.reportRepo.List(ctx, offset, limit)
}

// Retry re-queues a failed report for another extraction pass.
func (s *reportService) Retry(ctx context.Context, id uuid.UUID) (*domain.LabReport, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report.Status != domain.ExtractionStatusFailed {
		return nil, domain.ErrReportNotRetryable
	}

	report.Status = domain.ExtractionStatusQueued
	report.ErrorMessage = ""
	report.RetryAfter = nil
	if err := s.reportRepo.Update(ctx, report); err != nil {
		return nil, fmt.Errorf("re-queueing report: %w", err)
	}
	log.Printf("reportService.Retry: report %s re-queued", id)
	return report, nil
}

// Delete removes the report row and its stored document. Extracted records
// keep their history; the foreign key nulls their report link.
func (s *reportService) Delete(ctx context.Context, id uuid.UUID) error {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, report.S3Bucket, report.S3Key); err != nil {
		// The row removal still proceeds; an orphaned object is recoverable,
		// a dangling row is not.
		log.Printf("reportService.Delete: deleting object %s: %v", report.S3Key, err)
	}
	return s.reportRepo.Delete(ctx, id)
}

// ProcessReport performs the core extraction logic: S3 download, chunked
// pipeline run, rate-limit requeueing, record persistence, and notification.
// It is called by the queue worker with the report already in processing
// status and Attempts incremented.
func (s *reportService) ProcessReport(ctx context.Context, report *domain.LabReport, maxAttempts int) {
	data, err := s.storage.Download(ctx, report.S3Bucket, report.S3Key)
	if err != nil {
		s.failExtraction(ctx, report, fmt.Sprintf("downloading file: %v", err))
		return
	}

	progress := func(status string) {
		log.Printf("reportService.ProcessReport: report %s: %s", report.ID, status)
	}

	result, err := s.pipeline.Run(ctx, extract.DocumentInput{
		Data:        data,
		ContentType: report.ContentType,
		ReportType:  report.ReportType,
	}, progress)
	if err != nil {
		s.handleExtractError(ctx, report, err, maxAttempts)
		return
	}

	for i := range result.Sensitivities {
		result.Sensitivities[i].ReportID = &report.ID
	}
	for i := range result.Biomarkers {
		result.Biomarkers[i].ReportID = &report.ID
	}

	if err := s.sensRepo.Upsert(ctx, result.Sensitivities); err != nil {
		log.Printf("reportService.ProcessReport: saving sensitivities for %s: %v", report.ID, err)
		return
	}
	if err := s.bioRepo.InsertBatch(ctx, result.Biomarkers); err != nil {
		log.Printf("reportService.ProcessReport: saving biomarkers for %s: %v", report.ID, err)
		return
	}

	now := time.Now().UTC()
	report.Status = domain.ExtractionStatusCompleted
	report.Summary = result.Summary
	report.ErrorMessage = ""
	report.PagesTotal = result.PagesTotal
	report.PagesFailed = result.PagesFailed
	report.RetryAfter = nil
	report.ExtractedAt = &now
	if err := s.reportRepo.Update(ctx, report); err != nil {
		log.Printf("reportService.ProcessReport: saving report %s: %v", report.ID, err)
		return
	}

	log.Printf("reportService.ProcessReport: report %s extracted (%d sensitivities, %d biomarkers, %d/%d pages failed)",
		report.ID, len(result.Sensitivities), len(result.Biomarkers), result.PagesFailed, result.PagesTotal)

	if err := s.email.SendReportReady(ctx, report); err != nil {
		log.Printf("reportService.ProcessReport: notification for %s: %v", report.ID, err)
	}
}

// handleExtractError re-queues the report when the provider was rate limited
// and attempts remain; any other pipeline error is a permanent failure for
// this attempt cycle.
func (s *reportService) handleExtractError(ctx context.Context, report *domain.LabReport, extractErr error, maxAttempts int) {
	var apiErr *llm.APIError
	if errors.As(extractErr, &apiErr) && apiErr.Category == llm.CategoryRateLimited && report.Attempts < maxAttempts {
		retryAt := time.Now().Add(apiErr.RetryAfter)
		report.Status = domain.ExtractionStatusQueued
		report.ErrorMessage = fmt.Sprintf("rate limited by %s, queued for retry", apiErr.Provider)
		report.RetryAfter = &retryAt
		if err := s.reportRepo.Update(ctx, report); err != nil {
			log.Printf("reportService.handleExtractError: failed to queue report %s: %v", report.ID, err)
		} else {
			log.Printf("reportService.handleExtractError: report %s queued for retry after %s",
				report.ID, retryAt.Format(time.RFC3339))
		}
		return
	}
	s.failExtraction(ctx, report, extractErr.Error())
}

func (s *reportService) failExtraction(ctx context.Context, report *domain.LabReport, errMsg string) {
	log.Printf("reportService.failExtraction: report %s failed: %s", report.ID, errMsg)
	report.Status = domain.ExtractionStatusFailed
	report.ErrorMessage = errMsg
	report.RetryAfter = nil
	if err := s.reportRepo.Update(ctx, report); err != nil {
		log.Printf("reportService.failExtraction: failed to update status for %s: %v", report.ID, err)
		return
	}
	if err := s.email.SendReportFailed(ctx, report); err != nil {
		log.Printf("reportService.failExtraction: notification for %s: %v", report.ID, err)
	}
}

// validateUpload checks file type (by extension and declared content type)
// and size, returning the canonical content type.
func validateUpload(header *multipart.FileHeader, maxSizeMB int64) (string, error) {
	if header.Size > maxSizeMB*1024*1024 {
		return "", domain.ErrFileTooLarge
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(header.Filename)), ".")
	fileType, ok := domain.AllowedExtensions[ext]
	if !ok {
		return "", domain.ErrUnsupportedFileType
	}

	declared := header.Header.Get("Content-Type")
	if declared != "" {
		if _, ok := domain.AllowedContentTypes[declared]; !ok {
			return "", domain.ErrUnsupportedFileType
		}
	}

	return domain.AllowedFileTypes[fileType], nil
}
