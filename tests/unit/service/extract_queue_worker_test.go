package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"vitalis/internal/domain"
	"vitalis/internal/service"
	"vitalis/mocks"
)

func TestExtractQueueWorker_PollsAndDispatches(t *testing.T) {
	reportRepo := new(mocks.MockLabReportRepo)
	reportSvc := new(mocks.MockReportService)

	report := domain.LabReport{
		ID:          uuid.New(),
		ReportType:  "food sensitivity",
		ContentType: "application/pdf",
		Status:      domain.ExtractionStatusProcessing,
		Attempts:    0,
	}

	// First poll returns one report, subsequent polls return empty
	reportRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.LabReport{report}, nil).Once()
	reportRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.LabReport{}, nil).Maybe()

	reportSvc.On("ProcessReport", mock.Anything, mock.MatchedBy(func(r *domain.LabReport) bool {
		// The worker owns the attempt increment.
		return r.ID == report.ID && r.Attempts == 1
	}), 5).Return().Maybe()

	cfg := service.ExtractQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxAttempts:  5,
		Concurrency:  2,
	}
	worker := service.NewExtractQueueWorker(reportRepo, reportSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Wait for at least one poll cycle
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	reportRepo.AssertCalled(t, "ClaimQueued", mock.Anything, mock.AnythingOfType("int"))
	reportSvc.AssertCalled(t, "ProcessReport", mock.Anything, mock.AnythingOfType("*domain.LabReport"), 5)
}

func TestExtractQueueWorker_RespectsConcurrencyCap(t *testing.T) {
	reportRepo := new(mocks.MockLabReportRepo)
	reportSvc := new(mocks.MockReportService)

	cfg := service.ExtractQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxAttempts:  5,
		Concurrency:  2,
	}

	reportRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.LabReport{}, nil).Maybe()

	worker := service.NewExtractQueueWorker(reportRepo, reportSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()
	<-done

	for _, call := range reportRepo.Calls {
		if call.Method == "ClaimQueued" {
			limit := call.Arguments.Get(1).(int)
			assert.LessOrEqual(t, limit, cfg.Concurrency)
		}
	}
}

func TestExtractQueueWorker_SurvivesClaimError(t *testing.T) {
	reportRepo := new(mocks.MockLabReportRepo)
	reportSvc := new(mocks.MockReportService)

	reportRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return(nil, errors.New("connection refused")).Once()
	reportRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.LabReport{}, nil).Maybe()

	cfg := service.ExtractQueueConfig{
		PollInterval: 40 * time.Millisecond,
		MaxAttempts:  5,
		Concurrency:  2,
	}
	worker := service.NewExtractQueueWorker(reportRepo, reportSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not shut down after a poll error")
	}

	assert.GreaterOrEqual(t, len(reportRepo.Calls), 2)
}

func TestExtractQueueWorker_CleanShutdown(t *testing.T) {
	reportRepo := new(mocks.MockLabReportRepo)
	reportSvc := new(mocks.MockReportService)

	reportRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.LabReport{}, nil).Maybe()

	cfg := service.ExtractQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxAttempts:  5,
		Concurrency:  5,
	}
	worker := service.NewExtractQueueWorker(reportRepo, reportSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(120 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not shut down cleanly")
	}
}
