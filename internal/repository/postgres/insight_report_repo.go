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

type insightReportRepo struct {
	db *sqlx.DB
}

// NewInsightReportRepo creates a new PostgreSQL-backed InsightReportRepository.
func NewInsightReportRepo(db *sqlx.DB) port.InsightReportRepository {
	return &insightReportRepo{db: db}
}

func (r *insightReportRepo) Create(ctx context.Context, report *domain.MedicalInsightReport) error {
	report.CreatedAt = time.Now().UTC()

	query := `INSERT INTO insight_reports (
		id, analysis_id, summary, key_findings, recommendations,
		medical_terms, metrics, urgent_items, confidence, category, source, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.AnalysisID, report.Summary, report.KeyFindings,
		report.Recommendations, report.MedicalTerms, report.Metrics,
		report.UrgentItems, report.Confidence, report.Category, report.Source, report.CreatedAt)
	if err != nil {
		return fmt.Errorf("insightReportRepo.Create: %w", err)
	}
	return nil
}

func (r *insightReportRepo) GetByAnalysisID(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error) {
	var report domain.MedicalInsightReport
	err := r.db.GetContext(ctx, &report,
		"SELECT * FROM insight_reports WHERE analysis_id = $1 ORDER BY created_at DESC LIMIT 1", analysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, fmt.Errorf("insightReportRepo.GetByAnalysisID: %w", err)
	}
	return &report, nil
}
