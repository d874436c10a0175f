package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lifebook/internal/analysis"
	"lifebook/internal/classify"
	"lifebook/internal/domain"
	"lifebook/internal/entities"
	"lifebook/internal/extract"
	"lifebook/internal/insight"
	"lifebook/internal/service"
	"lifebook/mocks"
)

type analysisServiceFixture struct {
	analysisRepo *mocks.MockAnalysisRepository
	fileRepo     *mocks.MockFileMetaRepository
	reportRepo   *mocks.MockInsightReportRepository
	storage      *mocks.MockObjectStorage
	client       *mocks.MockInsightClient
	service      service.AnalysisService
}

func newAnalysisServiceFixture() *analysisServiceFixture {
	f := &analysisServiceFixture{
		analysisRepo: new(mocks.MockAnalysisRepository),
		fileRepo:     new(mocks.MockFileMetaRepository),
		reportRepo:   new(mocks.MockInsightReportRepository),
		storage:      new(mocks.MockObjectStorage),
		client:       new(mocks.MockInsightClient),
	}
	pipeline := analysis.NewPipeline(
		extract.NewExtractor("", "eng"),
		extract.NewSalvageExtractor(),
		entities.NewExtractor(nil),
		classify.NewClassifier(),
		analysis.DefaultConfidencePolicy(),
	)
	f.service = service.NewAnalysisService(
		f.analysisRepo,
		f.fileRepo,
		f.reportRepo,
		pipeline,
		insight.NewReportGenerator(f.client),
		f.storage,
	)
	return f
}

func uploadedFile(id uuid.UUID) *domain.FileMeta {
	return &domain.FileMeta{
		ID:           id,
		FileName:     id.String() + ".txt",
		OriginalName: "visit_note.txt",
		FileType:     domain.FileTypeTXT,
		S3Bucket:     "lifebook-files",
		S3Key:        "files/" + id.String() + "/visit_note.txt",
		ContentType:  "text/plain",
		Status:       domain.FileStatusUploaded,
	}
}

func TestCreateAndAnalyze_RejectsFileNotUploaded(t *testing.T) {
	f := newAnalysisServiceFixture()
	fileID := uuid.New()

	file := uploadedFile(fileID)
	file.Status = domain.FileStatusPending
	f.fileRepo.On("GetByID", mock.Anything, fileID).Return(file, nil)

	_, err := f.service.CreateAndAnalyze(context.Background(), &service.CreateAnalysisInput{FileID: fileID})
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
	f.analysisRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateAndAnalyze_CreatesPendingAnalysis(t *testing.T) {
	f := newAnalysisServiceFixture()
	fileID := uuid.New()

	f.fileRepo.On("GetByID", mock.Anything, fileID).Return(uploadedFile(fileID), nil)
	f.analysisRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	// The background goroutine looks the analysis up again; letting that fail
	// stops it before it touches anything else.
	f.analysisRepo.On("GetByID", mock.Anything, mock.Anything).
		Return(nil, domain.ErrAnalysisNotFound).Maybe()

	a, err := f.service.CreateAndAnalyze(context.Background(), &service.CreateAnalysisInput{FileID: fileID})
	require.NoError(t, err)

	assert.Equal(t, fileID, a.FileID)
	assert.Equal(t, domain.AnalysisStatusPending, a.Status)
	assert.Equal(t, domain.CategoryGeneral, a.Category)
	assert.NotNil(t, a.Tags)
	assert.NotNil(t, a.Entities)
}

func TestAnalyzeDocument_CompletesWithResults(t *testing.T) {
	f := newAnalysisServiceFixture()
	fileID := uuid.New()
	file := uploadedFile(fileID)

	f.fileRepo.On("GetByID", mock.Anything, fileID).Return(file, nil)
	f.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).
		Return([]byte("Visit summary: patient seen by Dr. Sarah Johnson on 2024-01-15, BP 145/92 mmHg"), nil)
	f.analysisRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	a := &domain.DocumentAnalysis{
		ID:       uuid.New(),
		FileID:   fileID,
		Status:   domain.AnalysisStatusProcessing,
		Tags:     domain.TagSet{},
		Entities: domain.EntitySet{},
	}
	f.service.AnalyzeDocument(context.Background(), a)

	assert.Equal(t, domain.AnalysisStatusCompleted, a.Status)
	assert.Equal(t, domain.CategoryVisitNotes, a.Category)
	assert.NotEmpty(t, a.ExtractedText)
	assert.Greater(t, a.Entities.Count(), 0)
	assert.NotNil(t, a.AnalyzedAt)
	assert.Empty(t, a.AnalysisError)
	f.analysisRepo.AssertCalled(t, "Update", mock.Anything, a)
}

func TestAnalyzeDocument_DownloadFailureMarksFailed(t *testing.T) {
	f := newAnalysisServiceFixture()
	fileID := uuid.New()
	file := uploadedFile(fileID)

	f.fileRepo.On("GetByID", mock.Anything, fileID).Return(file, nil)
	f.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).
		Return(nil, errors.New("no such key"))
	f.analysisRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	a := &domain.DocumentAnalysis{ID: uuid.New(), FileID: fileID, Status: domain.AnalysisStatusProcessing}
	f.service.AnalyzeDocument(context.Background(), a)

	assert.Equal(t, domain.AnalysisStatusFailed, a.Status)
	assert.Contains(t, a.AnalysisError, "downloading file")
}

func TestRequestInsight_RequiresCompletedAnalysis(t *testing.T) {
	f := newAnalysisServiceFixture()
	analysisID := uuid.New()

	f.analysisRepo.On("GetByID", mock.Anything, analysisID).
		Return(&domain.DocumentAnalysis{ID: analysisID, Status: domain.AnalysisStatusProcessing}, nil)

	_, err := f.service.RequestInsight(context.Background(), analysisID)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotCompleted)
}

func TestRequestInsight_ReturnsStoredReport(t *testing.T) {
	f := newAnalysisServiceFixture()
	analysisID := uuid.New()
	stored := &domain.MedicalInsightReport{ID: uuid.New(), AnalysisID: analysisID, Summary: "stored"}

	f.analysisRepo.On("GetByID", mock.Anything, analysisID).
		Return(&domain.DocumentAnalysis{ID: analysisID, Status: domain.AnalysisStatusCompleted}, nil)
	f.reportRepo.On("GetByAnalysisID", mock.Anything, analysisID).Return(stored, nil)

	report, err := f.service.RequestInsight(context.Background(), analysisID)
	require.NoError(t, err)
	assert.Same(t, stored, report)
	f.storage.AssertNotCalled(t, "Download", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestInsight_StoreFailureStillReturnsReport(t *testing.T) {
	f := newAnalysisServiceFixture()
	analysisID := uuid.New()
	fileID := uuid.New()
	file := uploadedFile(fileID)

	f.analysisRepo.On("GetByID", mock.Anything, analysisID).
		Return(&domain.DocumentAnalysis{ID: analysisID, FileID: fileID, Status: domain.AnalysisStatusCompleted}, nil)
	f.reportRepo.On("GetByAnalysisID", mock.Anything, analysisID).Return(nil, domain.ErrReportNotFound)
	f.fileRepo.On("GetByID", mock.Anything, fileID).Return(file, nil)
	f.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).Return([]byte("note text"), nil)
	f.client.On("Request", mock.Anything, mock.Anything).
		Return(`{"summary": "All clear.", "confidence": 0.9}`, nil)
	f.reportRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	report, err := f.service.RequestInsight(context.Background(), analysisID)
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, analysisID, report.AnalysisID)
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, "All clear.", report.Summary)
	f.reportRepo.AssertCalled(t, "Create", mock.Anything, report)
}

func TestRequestInsight_NotConfigured(t *testing.T) {
	f := newAnalysisServiceFixture()
	analysisID := uuid.New()
	fileID := uuid.New()
	file := uploadedFile(fileID)

	f.analysisRepo.On("GetByID", mock.Anything, analysisID).
		Return(&domain.DocumentAnalysis{ID: analysisID, FileID: fileID, Status: domain.AnalysisStatusCompleted}, nil)
	f.reportRepo.On("GetByAnalysisID", mock.Anything, analysisID).Return(nil, domain.ErrReportNotFound)
	f.fileRepo.On("GetByID", mock.Anything, fileID).Return(file, nil)
	f.storage.On("Download", mock.Anything, file.S3Bucket, file.S3Key).Return([]byte("note text"), nil)
	f.client.On("Request", mock.Anything, mock.Anything).Return("", domain.ErrInsightNotConfigured)

	_, err := f.service.RequestInsight(context.Background(), analysisID)
	assert.ErrorIs(t, err, domain.ErrInsightNotConfigured)
	f.reportRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
