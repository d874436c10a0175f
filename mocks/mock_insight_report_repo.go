package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"lifebook/internal/domain"
)

// MockInsightReportRepository is a mock implementation of port.InsightReportRepository.
type MockInsightReportRepository struct {
	mock.Mock
}

func (m *MockInsightReportRepository) Create(ctx context.Context, report *domain.MedicalInsightReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockInsightReportRepository) GetByAnalysisID(ctx context.Context, analysisID uuid.UUID) (*domain.MedicalInsightReport, error) {
	args := m.Called(ctx, analysisID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MedicalInsightReport), args.Error(1)
}
