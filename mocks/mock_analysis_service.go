package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lifebook/internal/domain"
	"lifebook/internal/service"
)

// MockAnalysisService is a mock implementation of service.AnalysisService.
type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) CreateAndAnalyze(ctx context.Context, input *service.CreateAnalysisInput) (*domain.DocumentAnalysis, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisService) GetByID(ctx context.Context, analysisID uuid.UUID) (*domain.DocumentAnalysis, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisService) GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.DocumentAnalysis, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisService) List(ctx context.Context, category domain.DocumentCategory, offset, limit int) ([]domain.DocumentAnalysis, int, error) {
	args := m.Called(ctx, category, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DocumentAnalysis), args.Int(1), args.Error(2)
}

func (m *MockAnalysisService) RequestInsight(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MedicalInsightReport), args.Error(1)
}

func (m *MockAnalysisService) GetInsight(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MedicalInsightReport), args.Error(1)
}

func (m *MockAnalysisService) AnalyzeDocument(ctx context.Context, a *domain.DocumentAnalysis) {
	m.Called(ctx, a)
}
