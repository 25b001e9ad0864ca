package router

import (
	"github.com/gin-gonic/gin"

	"vitalis/internal/handler"
	"vitalis/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	reportH *handler.ReportHandler,
	recordH *handler.RecordHandler,
	insightH *handler.InsightHandler,
	healthH *handler.HealthHandler,
	corsOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(corsOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Lab report routes
	reports := v1.Group("/reports")
	reports.POST("", reportH.Upload)
	reports.GET("", reportH.List)
	reports.GET("/:id", reportH.GetByID)
	reports.POST("/:id/retry", reportH.Retry)
	reports.DELETE("/:id", reportH.Delete)

	// Extracted record routes
	v1.GET("/sensitivities", recordH.ListSensitivities)
	v1.GET("/biomarkers", recordH.ListBiomarkers)
	v1.GET("/biomarkers/export", recordH.ExportBiomarkers)

	// Meal insight routes
	v1.POST("/insights/meal", insightH.AnalyzeMeal)

	return r
}
