package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lifebook/internal/csvexport"
	"lifebook/internal/domain"
	"lifebook/internal/service"
)

// exportPageSize bounds how many analyses a single CSV export fetches per page.
const exportPageSize = 200

// AnalysisHandler handles document analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	fileService     service.FileService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, fileService service.FileService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, fileService: fileService}
}

type createAnalysisRequest struct {
	FileID string `json:"file_id" binding:"required"`
}

// Create handles POST /api/v1/analyses
func (h *AnalysisHandler) Create(c *gin.Context) {
	var req createAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "file_id is required")
		return
	}

	fileID, err := uuid.Parse(req.FileID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid file ID")
		return
	}

	a, err := h.analysisService.CreateAndAnalyze(c.Request.Context(), &service.CreateAnalysisInput{FileID: fileID})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondAccepted(c, a)
}

// GetByID handles GET /api/v1/analyses/:id
func (h *AnalysisHandler) GetByID(c *gin.Context) {
	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	a, err := h.analysisService.GetByID(c.Request.Context(), analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, a)
}

// List handles GET /api/v1/analyses with an optional category filter.
func (h *AnalysisHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	category := domain.DocumentCategory(c.Query("category"))

	analyses, total, err := h.analysisService.List(c.Request.Context(), category, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, analyses, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// RequestInsight handles POST /api/v1/analyses/:id/insight
func (h *AnalysisHandler) RequestInsight(c *gin.Context) {
	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	report, err := h.analysisService.RequestInsight(c.Request.Context(), analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// GetInsight handles GET /api/v1/analyses/:id/insight
func (h *AnalysisHandler) GetInsight(c *gin.Context) {
	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return
	}

	report, err := h.analysisService.GetInsight(c.Request.Context(), analysisID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// ExportCSV handles GET /api/v1/analyses/export/csv
func (h *AnalysisHandler) ExportCSV(c *gin.Context) {
	ctx := c.Request.Context()
	category := domain.DocumentCategory(c.Query("category"))

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("analyses")+`"`)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		log.Printf("analysisHandler.ExportCSV: failed to write BOM: %v", err)
		return
	}

	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		log.Printf("analysisHandler.ExportCSV: failed to write header: %v", err)
		return
	}

	fileNames := map[string]string{}
	for offset := 0; ; offset += exportPageSize {
		analyses, total, err := h.analysisService.List(ctx, category, offset, exportPageSize)
		if err != nil {
			log.Printf("analysisHandler.ExportCSV: list failed at offset %d: %v", offset, err)
			return
		}

		for i := range analyses {
			fileID := analyses[i].FileID
			if _, ok := fileNames[fileID.String()]; ok {
				continue
			}
			meta, err := h.fileService.GetByID(ctx, fileID)
			if err != nil {
				continue
			}
			fileNames[fileID.String()] = meta.OriginalName
		}

		if err := w.WriteAnalyses(analyses, fileNames); err != nil {
			log.Printf("analysisHandler.ExportCSV: failed to write rows: %v", err)
			return
		}

		if offset+exportPageSize >= total || len(analyses) == 0 {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("analysisHandler.ExportCSV: flush failed: %v", err)
	}
}
