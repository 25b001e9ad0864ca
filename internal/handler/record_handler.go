package handler

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vitalis/internal/export"
	"vitalis/internal/port"
)

// RecordHandler handles extracted health record endpoints.
type RecordHandler struct {
	sensRepo port.SensitivityRepository
	bioRepo  port.BiomarkerRepository
}

// NewRecordHandler creates a new RecordHandler.
func NewRecordHandler(sensRepo port.SensitivityRepository, bioRepo port.BiomarkerRepository) *RecordHandler {
	return &RecordHandler{sensRepo: sensRepo, bioRepo: bioRepo}
}

// ListSensitivities handles GET /api/v1/sensitivities
func (h *RecordHandler) ListSensitivities(c *gin.Context) {
	records, err := h.sensRepo.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, records)
}

// ListBiomarkers handles GET /api/v1/biomarkers
// An optional name query filters to a single biomarker's history in
// chronological order.
func (h *RecordHandler) ListBiomarkers(c *gin.Context) {
	if name := c.Query("name"); name != "" {
		records, err := h.bioRepo.ListByName(c.Request.Context(), name)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, records)
		return
	}

	records, err := h.bioRepo.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, records)
}

// ExportBiomarkers handles GET /api/v1/biomarkers/export?format=csv|xlsx
func (h *RecordHandler) ExportBiomarkers(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		RespondError(c, http.StatusBadRequest, "INVALID_FORMAT", "format must be csv or xlsx")
		return
	}

	records, err := h.bioRepo.List(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("biomarkers_%s.%s", time.Now().UTC().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		w, err := export.NewCSVWriter(c.Writer)
		if err != nil {
			log.Printf("recordHandler.ExportBiomarkers: %v", err)
			return
		}
		if err := w.WriteBiomarkers(records); err != nil {
			log.Printf("recordHandler.ExportBiomarkers: %v", err)
		}
	case "xlsx":
		f, err := export.BuildBiomarkerWorkbook(records)
		if err != nil {
			RespondError(c, http.StatusInternalServerError, "EXPORT_FAILED", "failed to build workbook")
			return
		}
		defer func() { _ = f.Close() }()
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := f.Write(c.Writer); err != nil {
			log.Printf("recordHandler.ExportBiomarkers: %v", err)
		}
	}
}
