package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"vitalis/internal/domain"
)

const biomarkerSheet = "Biomarkers"

// BuildBiomarkerWorkbook builds an XLSX workbook holding the biomarker
// history. The caller owns the returned file and must Close it.
func BuildBiomarkerWorkbook(records []domain.BiomarkerRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", biomarkerSheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	for col, name := range biomarkerColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(biomarkerSheet, cell, name); err != nil {
			return nil, fmt.Errorf("writing header %q: %w", name, err)
		}
	}

	for i, rec := range records {
		row := i + 2
		status := ""
		if rec.Status != nil {
			status = string(*rec.Status)
		}
		values := []interface{}{
			rec.Name,
			rec.Value,
			rec.Unit,
			status,
			string(rec.Source),
			rec.DetectedAt.UTC().Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(biomarkerSheet, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	return f, nil
}
