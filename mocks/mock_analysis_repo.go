package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lifebook/internal/domain"
)

// MockAnalysisRepository is a mock implementation of port.AnalysisRepository.
type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, analysis *domain.DocumentAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepository) GetByID(ctx context.Context, analysisID uuid.UUID) (*domain.DocumentAnalysis, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisRepository) GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.DocumentAnalysis, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisRepository) List(ctx context.Context, offset, limit int) ([]domain.DocumentAnalysis, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DocumentAnalysis), args.Int(1), args.Error(2)
}

func (m *MockAnalysisRepository) ListByCategory(ctx context.Context, category domain.DocumentCategory, offset, limit int) ([]domain.DocumentAnalysis, int, error) {
	args := m.Called(ctx, category, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DocumentAnalysis), args.Int(1), args.Error(2)
}

func (m *MockAnalysisRepository) Update(ctx context.Context, analysis *domain.DocumentAnalysis) error {
	args := m.Called(ctx, analysis)
	return args.Error(0)
}

func (m *MockAnalysisRepository) ClaimStale(ctx context.Context, staleAfter time.Duration, limit int) ([]domain.DocumentAnalysis, error) {
	args := m.Called(ctx, staleAfter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentAnalysis), args.Error(1)
}
