package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lifebook/internal/domain"
	"lifebook/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, doc domain.RawDocument) (*port.ExtractionResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractionResult), args.Error(1)
}

func (m *MockTextExtractor) Name() string {
	args := m.Called()
	return args.String(0)
}
