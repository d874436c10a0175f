package router

import (
	"github.com/gin-gonic/gin"

	"lifebook/internal/config"
	"lifebook/internal/handler"
	"lifebook/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	fileH *handler.FileHandler,
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// File routes
	files := v1.Group("/files")
	files.POST("/upload", fileH.Upload)
	files.GET("", fileH.List)
	files.GET("/:id", fileH.GetByID)
	files.DELETE("/:id", fileH.Delete)

	// Analysis routes
	analyses := v1.Group("/analyses")
	analyses.POST("", analysisH.Create)
	analyses.GET("", analysisH.List)
	analyses.GET("/export/csv", analysisH.ExportCSV)
	analyses.GET("/:id", analysisH.GetByID)
	analyses.POST("/:id/insight", analysisH.RequestInsight)
	analyses.GET("/:id/insight", analysisH.GetInsight)

	return r
}
