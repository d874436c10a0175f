package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lifebook/internal/domain"
)

// MockVocabularyRepository is a mock implementation of port.VocabularyRepository.
type MockVocabularyRepository struct {
	mock.Mock
}

func (m *MockVocabularyRepository) ListByCategory(ctx context.Context, category domain.VocabularyCategory) ([]domain.VocabularyTerm, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VocabularyTerm), args.Error(1)
}
