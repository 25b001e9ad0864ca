package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"vitalis/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// biomarkerColumns defines the CSV header row.
var biomarkerColumns = []string{
	"Name",
	"Value",
	"Unit",
	"Status",
	"Source",
	"Detected At",
}

// CSVWriter wraps csv.Writer for exporting biomarker history.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w, prefixed with a BOM.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	if _, err := w.Write(BOM); err != nil {
		return nil, fmt.Errorf("writing BOM: %w", err)
	}
	return &CSVWriter{csv: csv.NewWriter(w)}, nil
}

// WriteBiomarkers writes the header and one row per record, then flushes.
func (w *CSVWriter) WriteBiomarkers(records []domain.BiomarkerRecord) error {
	if err := w.csv.Write(biomarkerColumns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := w.csv.Write(biomarkerRow(rec)); err != nil {
			return fmt.Errorf("writing row for %q: %w", rec.Name, err)
		}
	}
	w.csv.Flush()
	return w.csv.Error()
}

func biomarkerRow(rec domain.BiomarkerRecord) []string {
	status := ""
	if rec.Status != nil {
		status = string(*rec.Status)
	}
	return []string{
		rec.Name,
		strconv.FormatFloat(rec.Value, 'f', -1, 64),
		rec.Unit,
		status,
		string(rec.Source),
		rec.DetectedAt.UTC().Format(time.RFC3339),
	}
}
