package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lifebook/internal/domain"
	"lifebook/internal/port"
)

type vocabRepo struct {
	db *sqlx.DB
}

// NewVocabRepo creates a new PostgreSQL-backed VocabularyRepository.
func NewVocabRepo(db *sqlx.DB) port.VocabularyRepository {
	return &vocabRepo{db: db}
}

func (r *vocabRepo) ListByCategory(ctx context.Context, category domain.VocabularyCategory) ([]domain.VocabularyTerm, error) {
	var terms []domain.VocabularyTerm
	err := r.db.SelectContext(ctx, &terms,
		"SELECT * FROM vocabulary_terms WHERE category = $1 ORDER BY term ASC", category)
	if err != nil {
		return nil, fmt.Errorf("vocabRepo.ListByCategory: %w", err)
	}
	return terms, nil
}
