package insight_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lifebook/internal/domain"
	"lifebook/internal/insight"
	"lifebook/mocks"
)

func TestGenerate_ParsesServiceResponse(t *testing.T) {
	client := new(mocks.MockInsightClient)
	client.On("Request", mock.Anything, mock.Anything).
		Return(`{"summary": "All clear.", "recommendations": ["one long enough", "two", "three", "four"], "confidence": 0.9}`, nil)

	gen := insight.NewReportGenerator(client)

	report, err := gen.Generate(context.Background(), domain.RawDocument{Filename: "note.txt"})
	require.NoError(t, err)
	assert.Equal(t, domain.InsightSourceJSON, report.Source)
	assert.Equal(t, "All clear.", report.Summary)
	assert.Equal(t, 0.9, report.Confidence)
}

func TestGenerate_ServiceFailureYieldsFallbackReport(t *testing.T) {
	client := new(mocks.MockInsightClient)
	client.On("Request", mock.Anything, mock.Anything).
		Return("", errors.New("connection reset"))

	gen := insight.NewReportGenerator(client)

	report, err := gen.Generate(context.Background(), domain.RawDocument{Filename: "note.txt"})
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, domain.InsightSourceFallback, report.Source)
	assert.Equal(t, 0.75, report.Confidence)
	assert.GreaterOrEqual(t, len(report.Recommendations), 4)
	assert.NotEmpty(t, report.KeyFindings)
	assert.NotEmpty(t, report.Summary)
}

func TestGenerate_NotConfiguredIsSurfaced(t *testing.T) {
	client := new(mocks.MockInsightClient)
	client.On("Request", mock.Anything, mock.Anything).
		Return("", domain.ErrInsightNotConfigured)

	gen := insight.NewReportGenerator(client)

	report, err := gen.Generate(context.Background(), domain.RawDocument{Filename: "note.txt"})
	assert.ErrorIs(t, err, domain.ErrInsightNotConfigured)
	assert.Nil(t, report)
}

func TestGenerate_GarbageResponseStillValidReport(t *testing.T) {
	client := new(mocks.MockInsightClient)
	client.On("Request", mock.Anything, mock.Anything).
		Return("complete nonsense with no structure whatsoever", nil)

	gen := insight.NewReportGenerator(client)

	report, err := gen.Generate(context.Background(), domain.RawDocument{Filename: "note.txt"})
	require.NoError(t, err)
	assert.Equal(t, domain.InsightSourceFreeText, report.Source)
	assert.GreaterOrEqual(t, len(report.Recommendations), 4)
	assert.NotEmpty(t, report.Summary)
}
