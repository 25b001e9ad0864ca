package extract

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"vitalis/internal/domain"
	"vitalis/internal/llm"
	"vitalis/internal/port"
)

// Invoker is the slice of the model orchestrator the pipeline depends on.
type Invoker interface {
	Invoke(ctx context.Context, req port.ModelRequest) (string, error)
}

// ProgressFunc receives a human-readable status string before each chunk is
// processed. It must not block.
type ProgressFunc func(status string)

// DocumentInput is one document submitted for extraction.
type DocumentInput struct {
	Data        []byte
	ContentType string
	ReportType  string
}

// Extraction accumulates structured results across all chunks of a document.
// Record order follows chunk order; duplicates are a persistence concern.
type Extraction struct {
	Sensitivities []domain.SensitivityRecord
	Biomarkers    []domain.BiomarkerRecord
	Summary       string
	PagesTotal    int
	PagesFailed   int
}

// chunk is one unit of document content submitted to the model in a single call.
type chunk struct {
	label     string
	text      string
	imageData []byte
	imageMIME string
	pageCount int
}

// Pipeline decomposes a document into model-sized chunks, drives the
// orchestrator once per chunk, and merges partial results. Chunks are
// processed strictly in page order: the provider rate limit is shared across
// all calls, and sequential processing keeps first-wins summary capture
// deterministic.
type Pipeline struct {
	invoker    Invoker
	decoder    port.PageDecoder
	chunkPages int
	now        func() time.Time
}

// NewPipeline creates an extraction pipeline. chunkPages controls how many
// pages share one model call; values below 1 default to 1.
func NewPipeline(invoker Invoker, decoder port.PageDecoder, chunkPages int) *Pipeline {
	if chunkPages < 1 {
		chunkPages = 1
	}
	return &Pipeline{
		invoker:    invoker,
		decoder:    decoder,
		chunkPages: chunkPages,
		now:        time.Now,
	}
}

// Run extracts structured data from the document. Individual chunk failures
// are logged and skipped; Run returns an error only when the document cannot
// be decoded at all or when every chunk was attempted and nothing was
// recovered. progress may be nil.
func (p *Pipeline) Run(ctx context.Context, input DocumentInput, progress ProgressFunc) (*Extraction, error) {
	chunks, pagesTotal, err := p.buildChunks(input)
	if err != nil {
		return nil, err
	}

	acc := &Extraction{PagesTotal: pagesTotal}
	var lastErr error
	allRateLimited := true

	for _, ch := range chunks {
		if progress != nil {
			progress(fmt.Sprintf("Analyzing %s of %d...", ch.label, pagesTotal))
		}

		req := port.ModelRequest{
			Prompt:    BuildLabExtractionPrompt(input.ReportType, ch.text, acc.Summary == ""),
			ImageData: ch.imageData,
			ImageMIME: ch.imageMIME,
		}

		raw, err := p.invoker.Invoke(ctx, req)
		if err != nil {
			// One unreadable or oversized chunk must not abort the rest of
			// the document.
			log.Printf("extract.Pipeline: %s failed: %v", ch.label, err)
			acc.PagesFailed += ch.pageCount
			lastErr = err
			if !llm.IsRateLimited(err) {
				allRateLimited = false
			}
			continue
		}

		res := DecodeChunkResult(raw)
		acc.Sensitivities = append(acc.Sensitivities, res.Sensitivities...)
		acc.Biomarkers = append(acc.Biomarkers, res.Biomarkers...)
		if acc.Summary == "" && res.Summary != "" {
			acc.Summary = res.Summary
		}
	}

	if len(acc.Sensitivities) == 0 && len(acc.Biomarkers) == 0 {
		// Distinguish "provider was exhausted" (retryable upstream) from
		// "nothing extractable" before surfacing total failure.
		if lastErr != nil && allRateLimited {
			return nil, fmt.Errorf("all chunks rate limited: %w", lastErr)
		}
		return nil, domain.ErrNoDataExtracted
	}

	p.annotate(acc)
	return acc, nil
}

// buildChunks decodes the document into ordered chunks. Paginated formats are
// split into page groups with page markers for traceability; single-image
// formats become exactly one chunk.
func (p *Pipeline) buildChunks(input DocumentInput) ([]chunk, int, error) {
	if input.ContentType != "application/pdf" {
		ch := chunk{
			label:     "image",
			imageData: input.Data,
			imageMIME: input.ContentType,
			pageCount: 1,
		}
		return []chunk{ch}, 1, nil
	}

	pages, err := p.decoder.DecodePages(input.Data)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding document: %w", err)
	}
	if len(pages) == 0 {
		return nil, 0, domain.ErrDocumentUnreadable
	}

	var chunks []chunk
	for start := 0; start < len(pages); start += p.chunkPages {
		end := start + p.chunkPages
		if end > len(pages) {
			end = len(pages)
		}

		var b strings.Builder
		for i := start; i < end; i++ {
			fmt.Fprintf(&b, "--- Page %d ---\n%s\n", i+1, pages[i])
		}

		label := fmt.Sprintf("page %d", start+1)
		if end-start > 1 {
			label = fmt.Sprintf("pages %d-%d", start+1, end)
		}
		chunks = append(chunks, chunk{
			label:     label,
			text:      b.String(),
			pageCount: end - start,
		})
	}
	return chunks, len(pages), nil
}

// annotate stamps every record with its detection time and lab-report
// provenance before the accumulator leaves the pipeline.
func (p *Pipeline) annotate(acc *Extraction) {
	now := p.now().UTC()
	for i := range acc.Sensitivities {
		acc.Sensitivities[i].Source = domain.SourceLabReport
		acc.Sensitivities[i].DetectedAt = now
	}
	for i := range acc.Biomarkers {
		acc.Biomarkers[i].Source = domain.SourceLabReport
		acc.Biomarkers[i].DetectedAt = now
	}
}
