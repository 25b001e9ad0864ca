// Package pdftext extracts per-page text from PDF documents. Extraction is
// best-effort: pages without a text layer (scanned images) or with exotic
// font encodings yield empty strings, which the extraction pipeline treats
// as recoverable degradation rather than failure.
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Decoder implements port.PageDecoder for PDF bytes.
type Decoder struct{}

// NewDecoder creates a PDF page decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodePages returns the text of each page in document order. An undecodable
// document returns an empty slice and no error; a page whose content cannot
// be read contributes an empty string at its index.
func (d *Decoder) DecodePages(data []byte) ([]string, error) {
	conf := model.NewDefaultConfiguration()
	conf.Cmd = model.EXTRACTCONTENT
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		log.Printf("pdftext.DecodePages: unreadable pdf: %v", err)
		return nil, nil
	}
	count := ctx.PageCount

	pages := make([]string, 0, count)
	for pageNr := 1; pageNr <= count; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil {
			log.Printf("pdftext.DecodePages: page %d content: %v", pageNr, err)
			pages = append(pages, "")
			continue
		}
		if r == nil {
			pages = append(pages, "")
			continue
		}
		content, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading page %d content: %w", pageNr, err)
		}
		pages = append(pages, textFromContent(content))
	}
	return pages, nil
}
