package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lifebook/internal/domain"
	"lifebook/internal/port"
)

type analysisRepo struct {
	db *sqlx.DB
}

// NewAnalysisRepo creates a new PostgreSQL-backed AnalysisRepository.
func NewAnalysisRepo(db *sqlx.DB) port.AnalysisRepository {
	return &analysisRepo{db: db}
}

func (r *analysisRepo) Create(ctx context.Context, analysis *domain.DocumentAnalysis) error {
	now := time.Now().UTC()
	analysis.CreatedAt = now
	analysis.UpdatedAt = now

	query := `INSERT INTO analyses (
		id, file_id, category, tags, extracted_text, language, confidence,
		entities, status, analysis_error, analyzed_at, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.ExecContext(ctx, query,
		analysis.ID, analysis.FileID, analysis.Category, analysis.Tags,
		analysis.ExtractedText, analysis.Language, analysis.Confidence,
		analysis.Entities, analysis.Status, analysis.AnalysisError,
		analysis.AnalyzedAt, analysis.CreatedAt, analysis.UpdatedAt)
	if err != nil {
		return fmt.Errorf("analysisRepo.Create: %w", err)
	}
	return nil
}

func (r *analysisRepo) GetByID(ctx context.Context, analysisID uuid.UUID) (*domain.DocumentAnalysis, error) {
	var analysis domain.DocumentAnalysis
	err := r.db.GetContext(ctx, &analysis, "SELECT * FROM analyses WHERE id = $1", analysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByID: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepo) GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.DocumentAnalysis, error) {
	var analysis domain.DocumentAnalysis
	err := r.db.GetContext(ctx, &analysis,
		"SELECT * FROM analyses WHERE file_id = $1 ORDER BY created_at DESC LIMIT 1", fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("analysisRepo.GetByFileID: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepo) List(ctx context.Context, offset, limit int) ([]domain.DocumentAnalysis, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM analyses"); err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List count: %w", err)
	}

	var analyses []domain.DocumentAnalysis
	err := r.db.SelectContext(ctx, &analyses,
		"SELECT * FROM analyses ORDER BY created_at DESC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.List: %w", err)
	}
	return analyses, total, nil
}

func (r *analysisRepo) ListByCategory(ctx context.Context, category domain.DocumentCategory, offset, limit int) ([]domain.DocumentAnalysis, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM analyses WHERE category = $1", category); err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListByCategory count: %w", err)
	}

	var analyses []domain.DocumentAnalysis
	err := r.db.SelectContext(ctx, &analyses,
		`SELECT * FROM analyses WHERE category = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("analysisRepo.ListByCategory: %w", err)
	}
	return analyses, total, nil
}

func (r *analysisRepo) Update(ctx context.Context, analysis *domain.DocumentAnalysis) error {
	analysis.UpdatedAt = time.Now().UTC()

	query := `UPDATE analyses SET
		category = $1, tags = $2, extracted_text = $3, language = $4,
		confidence = $5, entities = $6, status = $7, analysis_error = $8,
		analyzed_at = $9, updated_at = $10
	WHERE id = $11`

	res, err := r.db.ExecContext(ctx, query,
		analysis.Category, analysis.Tags, analysis.ExtractedText, analysis.Language,
		analysis.Confidence, analysis.Entities, analysis.Status, analysis.AnalysisError,
		analysis.AnalyzedAt, analysis.UpdatedAt, analysis.ID)
	if err != nil {
		return fmt.Errorf("analysisRepo.Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAnalysisNotFound
	}
	return nil
}

// ClaimStale atomically claims analyses that have been sitting in pending or
// processing longer than staleAfter. Claimed rows are flipped to processing
// with a fresh updated_at so concurrent workers do not pick them up twice.
func (r *analysisRepo) ClaimStale(ctx context.Context, staleAfter time.Duration, limit int) ([]domain.DocumentAnalysis, error) {
	cutoff := time.Now().UTC().Add(-staleAfter)

	query := `UPDATE analyses SET status = $1, updated_at = $2
	WHERE id IN (
		SELECT id FROM analyses
		WHERE status IN ($3, $4) AND updated_at < $5
		ORDER BY updated_at ASC
		LIMIT $6
		FOR UPDATE SKIP LOCKED
	)
	RETURNING *`

	var analyses []domain.DocumentAnalysis
	err := r.db.SelectContext(ctx, &analyses, query,
		domain.AnalysisStatusProcessing, time.Now().UTC(),
		domain.AnalysisStatusPending, domain.AnalysisStatusProcessing, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("analysisRepo.ClaimStale: %w", err)
	}
	return analyses, nil
}
