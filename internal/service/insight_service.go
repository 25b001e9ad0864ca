package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"vitalis/internal/domain"
	"vitalis/internal/extract"
	"vitalis/internal/port"
)

// InsightService analyzes meal photos against stored sensitivities.
type InsightService interface {
	AnalyzeMeal(ctx context.Context, imageData []byte, contentType string) (*domain.MealInsight, error)
}

type insightService struct {
	invoker  extract.Invoker
	sensRepo port.SensitivityRepository
	now      func() time.Time
}

// NewInsightService creates a new InsightService implementation.
func NewInsightService(invoker extract.Invoker, sensRepo port.SensitivityRepository) InsightService {
	return &insightService{
		invoker:  invoker,
		sensRepo: sensRepo,
		now:      time.Now,
	}
}

func (s *insightService) AnalyzeMeal(ctx context.Context, imageData []byte, contentType string) (*domain.MealInsight, error) {
	fileType, ok := domain.AllowedContentTypes[contentType]
	if !ok || fileType == domain.FileTypePDF {
		return nil, domain.ErrUnsupportedFileType
	}

	known, err := s.sensRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading sensitivities: %w", err)
	}

	raw, err := s.invoker.Invoke(ctx, port.ModelRequest{
		Prompt:    extract.BuildMealInsightPrompt(known),
		ImageData: imageData,
		ImageMIME: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("analyzing meal: %w", err)
	}

	result := extract.DecodeChunkResult(raw)
	if result.IsEmpty() {
		log.Printf("insightService.AnalyzeMeal: model returned no usable data")
		return nil, domain.ErrNoDataExtracted
	}

	analyzedAt := s.now().UTC()
	for i := range result.Sensitivities {
		result.Sensitivities[i].Source = domain.SourceManual
		result.Sensitivities[i].DetectedAt = analyzedAt
	}

	return &domain.MealInsight{
		Summary:       result.Summary,
		Sensitivities: result.Sensitivities,
		AnalyzedAt:    analyzedAt,
	}, nil
}
