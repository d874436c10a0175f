package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lifebook/internal/domain"
)

// MockInsightClient is a mock implementation of port.InsightClient.
type MockInsightClient struct {
	mock.Mock
}

func (m *MockInsightClient) Request(ctx context.Context, doc domain.RawDocument) (string, error) {
	args := m.Called(ctx, doc)
	return args.String(0), args.Error(1)
}
