package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"lifebook/internal/domain"
)

// FileMetaRepository abstracts file metadata persistence.
type FileMetaRepository interface {
	Create(ctx context.Context, meta *domain.FileMeta) error
	GetByID(ctx context.Context, fileID uuid.UUID) (*domain.FileMeta, error)
	List(ctx context.Context, offset, limit int) ([]domain.FileMeta, int, error)
	UpdateStatus(ctx context.Context, fileID uuid.UUID, status domain.FileStatus) error
	Delete(ctx context.Context, fileID uuid.UUID) error
}

// AnalysisRepository persists document analyses.
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *domain.DocumentAnalysis) error
	GetByID(ctx context.Context, analysisID uuid.UUID) (*domain.DocumentAnalysis, error)
	GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.DocumentAnalysis, error)
	List(ctx context.Context, offset, limit int) ([]domain.DocumentAnalysis, int, error)
	ListByCategory(ctx context.Context, category domain.DocumentCategory, offset, limit int) ([]domain.DocumentAnalysis, int, error)
	Update(ctx context.Context, analysis *domain.DocumentAnalysis) error
	// ClaimStale atomically claims analyses stuck in pending or processing
	// longer than staleAfter, flipping them back to processing for re-dispatch.
	ClaimStale(ctx context.Context, staleAfter time.Duration, limit int) ([]domain.DocumentAnalysis, error)
}

// InsightReportRepository persists validated insight reports.
type InsightReportRepository interface {
	Create(ctx context.Context, report *domain.MedicalInsightReport) error
	GetByAnalysisID(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error)
}

// VocabularyRepository loads the clinical vocabulary used by entity extraction.
type VocabularyRepository interface {
	ListByCategory(ctx context.Context, category domain.VocabularyCategory) ([]domain.VocabularyTerm, error)
}
