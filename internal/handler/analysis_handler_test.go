package handler_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lifebook/internal/domain"
	"lifebook/internal/handler"
	"lifebook/internal/service"
	"lifebook/mocks"
)

func setupAnalysisRouter(analysisService *mocks.MockAnalysisService, fileService *mocks.MockFileService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handler.NewAnalysisHandler(analysisService, fileService)

	r := gin.New()
	r.POST("/api/v1/analyses", h.Create)
	r.GET("/api/v1/analyses/export/csv", h.ExportCSV)
	r.GET("/api/v1/analyses/:id", h.GetByID)
	r.POST("/api/v1/analyses/:id/insight", h.RequestInsight)
	return r
}

func TestCreateAnalysis_Accepted(t *testing.T) {
	analysisService := new(mocks.MockAnalysisService)
	fileService := new(mocks.MockFileService)
	fileID := uuid.New()

	analysisService.On("CreateAndAnalyze", mock.Anything, &service.CreateAnalysisInput{FileID: fileID}).
		Return(&domain.DocumentAnalysis{ID: uuid.New(), FileID: fileID, Status: domain.AnalysisStatusPending}, nil)

	r := setupAnalysisRouter(analysisService, fileService)

	body, _ := json.Marshal(gin.H{"file_id": fileID.String()})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestCreateAnalysis_MissingFileID(t *testing.T) {
	r := setupAnalysisRouter(new(mocks.MockAnalysisService), new(mocks.MockFileService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAnalysis_InvalidID(t *testing.T) {
	r := setupAnalysisRouter(new(mocks.MockAnalysisService), new(mocks.MockFileService))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestInsight_NotCompletedMapsToConflict(t *testing.T) {
	analysisService := new(mocks.MockAnalysisService)
	analysisID := uuid.New()

	analysisService.On("RequestInsight", mock.Anything, analysisID).
		Return(nil, domain.ErrAnalysisNotCompleted)

	r := setupAnalysisRouter(analysisService, new(mocks.MockFileService))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses/"+analysisID.String()+"/insight", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestExportCSV(t *testing.T) {
	analysisService := new(mocks.MockAnalysisService)
	fileService := new(mocks.MockFileService)

	knownFile := uuid.New()
	orphanFile := uuid.New()
	analyzedAt := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	analyses := []domain.DocumentAnalysis{
		{
			ID:         uuid.New(),
			FileID:     knownFile,
			Status:     domain.AnalysisStatusCompleted,
			Category:   domain.CategoryLabResults,
			Tags:       domain.TagSet{},
			Entities:   domain.EntitySet{},
			Language:   "en",
			Confidence: 0.95,
			AnalyzedAt: &analyzedAt,
			CreatedAt:  analyzedAt,
		},
		{
			ID:        uuid.New(),
			FileID:    orphanFile,
			Status:    domain.AnalysisStatusFailed,
			Category:  domain.CategoryGeneral,
			Tags:      domain.TagSet{},
			Entities:  domain.EntitySet{},
			CreatedAt: analyzedAt,
		},
	}

	analysisService.On("List", mock.Anything, domain.DocumentCategory(""), 0, 200).
		Return(analyses, 2, nil)
	fileService.On("GetByID", mock.Anything, knownFile).
		Return(&domain.FileMeta{ID: knownFile, OriginalName: "lab_panel.pdf"}, nil)
	fileService.On("GetByID", mock.Anything, orphanFile).
		Return(nil, domain.ErrFileNotFound)

	r := setupAnalysisRouter(analysisService, fileService)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/export/csv", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "analyses_")

	body := rec.Body.Bytes()
	require.True(t, bytes.HasPrefix(body, []byte{0xEF, 0xBB, 0xBF}))

	records, err := csv.NewReader(bytes.NewReader(body[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "File Name", records[0][0])
	assert.Equal(t, "lab_panel.pdf", records[1][0])
	// Rows whose file lookup failed fall back to the raw file ID.
	assert.Equal(t, orphanFile.String(), records[2][0])
}
