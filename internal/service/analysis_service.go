package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lifebook/internal/analysis"
	"lifebook/internal/domain"
	"lifebook/internal/insight"
	"lifebook/internal/port"
)

// CreateAnalysisInput is the DTO for creating an analysis over an uploaded file.
type CreateAnalysisInput struct {
	FileID uuid.UUID
}

// AnalysisService defines the document analysis contract.
type AnalysisService interface {
	CreateAndAnalyze(ctx context.Context, input *CreateAnalysisInput) (*domain.DocumentAnalysis, error)
	GetByID(ctx context.Context, analysisID uuid.UUID) (*domain.DocumentAnalysis, error)
	GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.DocumentAnalysis, error)
	List(ctx context.Context, category domain.DocumentCategory, offset, limit int) ([]domain.DocumentAnalysis, int, error)
	RequestInsight(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error)
	GetInsight(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error)
	AnalyzeDocument(ctx context.Context, a *domain.DocumentAnalysis)
}

type analysisService struct {
	analysisRepo port.AnalysisRepository
	fileRepo     port.FileMetaRepository
	reportRepo   port.InsightReportRepository
	pipeline     *analysis.Pipeline
	generator    *insight.ReportGenerator
	storage      port.ObjectStorage
}

// NewAnalysisService creates a new AnalysisService implementation.
func NewAnalysisService(
	analysisRepo port.AnalysisRepository,
	fileRepo port.FileMetaRepository,
	reportRepo port.InsightReportRepository,
	pipeline *analysis.Pipeline,
	generator *insight.ReportGenerator,
	storage port.ObjectStorage,
) AnalysisService {
	return &analysisService{
		analysisRepo: analysisRepo,
		fileRepo:     fileRepo,
		reportRepo:   reportRepo,
		pipeline:     pipeline,
		generator:    generator,
		storage:      storage,
	}
}

func (s *analysisService) CreateAndAnalyze(ctx context.Context, input *CreateAnalysisInput) (*domain.DocumentAnalysis, error) {
	// Verify the file exists and has been uploaded
	file, err := s.fileRepo.GetByID(ctx, input.FileID)
	if err != nil {
		return nil, fmt.Errorf("looking up file: %w", err)
	}
	if file.Status != domain.FileStatusUploaded {
		return nil, domain.ErrFileNotFound
	}

	a := &domain.DocumentAnalysis{
		ID:       uuid.New(),
		FileID:   input.FileID,
		Category: domain.CategoryGeneral,
		Tags:     domain.TagSet{},
		Entities: domain.EntitySet{},
		Status:   domain.AnalysisStatusPending,
	}

	log.Printf("analysisService.CreateAndAnalyze: creating analysis %s for file %s", a.ID, input.FileID)

	if err := s.analysisRepo.Create(ctx, a); err != nil {
		return nil, fmt.Errorf("creating analysis: %w", err)
	}

	// Copy before launching goroutine so the caller's value is independent of background work
	result := *a

	go s.analyzeInBackground(a.ID)

	return &result, nil
}

func (s *analysisService) analyzeInBackground(analysisID uuid.UUID) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Printf("analysisService.analyzeInBackground: starting analysis %s", analysisID)

	a, err := s.analysisRepo.GetByID(ctx, analysisID)
	if err != nil {
		log.Printf("analysisService.analyzeInBackground: failed to get analysis %s: %v", analysisID, err)
		return
	}
	a.Status = domain.AnalysisStatusProcessing
	if err := s.analysisRepo.Update(ctx, a); err != nil {
		log.Printf("analysisService.analyzeInBackground: failed to set processing status for %s: %v", analysisID, err)
		return
	}

	s.AnalyzeDocument(ctx, a)
}

// AnalyzeDocument performs the core analysis: file lookup, S3 download,
// pipeline run, and result saving. It is called by both analyzeInBackground
// and the queue worker. The analysis must already be in processing status.
func (s *analysisService) AnalyzeDocument(ctx context.Context, a *domain.DocumentAnalysis) {
	file, err := s.fileRepo.GetByID(ctx, a.FileID)
	if err != nil {
		s.failAnalysis(ctx, a, fmt.Sprintf("looking up file: %v", err))
		return
	}

	fileBytes, err := s.storage.Download(ctx, file.S3Bucket, file.S3Key)
	if err != nil {
		s.failAnalysis(ctx, a, fmt.Sprintf("downloading file: %v", err))
		return
	}

	result, err := s.pipeline.Analyze(ctx, domain.RawDocument{
		Content:     fileBytes,
		ContentType: file.ContentType,
		Filename:    file.OriginalName,
	})
	if err != nil {
		s.failAnalysis(ctx, a, fmt.Sprintf("analyzing document: %v", err))
		return
	}

	now := time.Now().UTC()
	a.Category = result.Category
	a.Tags = result.Tags
	a.ExtractedText = result.ExtractedText
	a.Language = result.Language
	a.Confidence = result.Confidence
	a.Entities = result.Entities
	a.Status = domain.AnalysisStatusCompleted
	a.AnalysisError = ""
	a.AnalyzedAt = &now

	if err := s.analysisRepo.Update(ctx, a); err != nil {
		log.Printf("analysisService.AnalyzeDocument: failed to save results for %s: %v", a.ID, err)
		return
	}

	log.Printf("analysisService.AnalyzeDocument: analysis %s completed (category %q, %d entities, confidence %.2f)",
		a.ID, a.Category, a.Entities.Count(), a.Confidence)
}

func (s *analysisService) failAnalysis(ctx context.Context, a *domain.DocumentAnalysis, errMsg string) {
	log.Printf("analysisService.failAnalysis: analysis %s failed: %s", a.ID, errMsg)
	a.Status = domain.AnalysisStatusFailed
	a.AnalysisError = errMsg
	if err := s.analysisRepo.Update(ctx, a); err != nil {
		log.Printf("analysisService.failAnalysis: failed to update status for %s: %v", a.ID, err)
	}
}

func (s *analysisService) GetByID(ctx context.Context, analysisID uuid.UUID) (*domain.DocumentAnalysis, error) {
	return s.analysisRepo.GetByID(ctx, analysisID)
}

func (s *analysisService) GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.DocumentAnalysis, error) {
	return s.analysisRepo.GetByFileID(ctx, fileID)
}

func (s *analysisService) List(ctx context.Context, category domain.DocumentCategory, offset, limit int) ([]domain.DocumentAnalysis, int, error) {
	if category != "" {
		return s.analysisRepo.ListByCategory(ctx, category, offset, limit)
	}
	return s.analysisRepo.List(ctx, offset, limit)
}

// RequestInsight asks the external insight service for a structured report on
// the analyzed document. The generator always produces a usable report when
// the service is configured; the only error surfaced to callers besides
// lookup failures is domain.ErrInsightNotConfigured.
func (s *analysisService) RequestInsight(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error) {
	a, err := s.analysisRepo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.AnalysisStatusCompleted {
		return nil, domain.ErrAnalysisNotCompleted
	}

	// Return the stored report if one already exists
	if existing, err := s.reportRepo.GetByAnalysisID(ctx, analysisID); err == nil {
		return existing, nil
	}

	file, err := s.fileRepo.GetByID(ctx, a.FileID)
	if err != nil {
		return nil, fmt.Errorf("looking up file: %w", err)
	}

	fileBytes, err := s.storage.Download(ctx, file.S3Bucket, file.S3Key)
	if err != nil {
		return nil, fmt.Errorf("downloading file: %w", err)
	}

	report, err := s.generator.Generate(ctx, domain.RawDocument{
		Content:     fileBytes,
		ContentType: file.ContentType,
		Filename:    file.OriginalName,
	})
	if err != nil {
		return nil, err
	}

	report.ID = uuid.New()
	report.AnalysisID = analysisID

	// A report that cannot be stored is still a valid report; persistence
	// failures are logged and the caller gets the result regardless.
	if storeErr := s.reportRepo.Create(ctx, report); storeErr != nil {
		log.Printf("analysisService.RequestInsight: failed to store report for %s: %v", analysisID, storeErr)
	}

	return report, nil
}

func (s *analysisService) GetInsight(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error) {
	if _, err := s.analysisRepo.GetByID(ctx, analysisID); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByAnalysisID(ctx, analysisID)
}
