package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vitalis/internal/service"
)

// maxMealImageBytes caps meal photo uploads at 10MB.
const maxMealImageBytes = 10 << 20

// InsightHandler handles meal analysis endpoints.
type InsightHandler struct {
	insightService service.InsightService
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService service.InsightService) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// AnalyzeMeal handles POST /api/v1/insights/meal
func (h *InsightHandler) AnalyzeMeal(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_IMAGE", "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > maxMealImageBytes {
		RespondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "image exceeds maximum allowed size")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "UNREADABLE_IMAGE", "could not read image data")
		return
	}

	insight, err := h.insightService.AnalyzeMeal(c.Request.Context(), data, header.Header.Get("Content-Type"))
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, insight)
}
