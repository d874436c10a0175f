package extract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifebook/internal/domain"
)

func TestSalvage_RecoversPrintableText(t *testing.T) {
	s := NewSalvageExtractor()

	content := append([]byte{0x00, 0x01, 0xFF}, []byte("Patient seen 01/15/2024, BP meds 10 mg daily")...)
	content = append(content, 0x00, 0x02)

	result, err := s.Extract(context.Background(), domain.RawDocument{
		Content:     content,
		ContentType: "application/octet-stream",
		Filename:    "dump.bin",
	})
	require.NoError(t, err)

	assert.Equal(t, "Patient seen 01/15/2024, BP meds 10 mg daily", result.Text)
	assert.Equal(t, "en", result.Language)
}

func TestSalvage_FailsOnBinaryOnly(t *testing.T) {
	s := NewSalvageExtractor()

	_, err := s.Extract(context.Background(), domain.RawDocument{
		Content:     []byte{0x00, 0x01, 0x02, 0x03, 0xFF, 0xFE},
		ContentType: "application/octet-stream",
		Filename:    "noise.bin",
	})
	assert.Error(t, err)
}

func TestHeuristicConfidence(t *testing.T) {
	// Bare text scores the base only.
	assert.InDelta(t, 0.25, heuristicConfidence("short fragment"), 1e-9)

	// Date and dosage markers each add a boost.
	withMarkers := "Seen 01/15/2024, prescribed 10 mg daily"
	assert.InDelta(t, 0.55, heuristicConfidence(withMarkers), 1e-9)

	// Provider hint adds more.
	withProvider := withMarkers + " by Dr. Smith"
	assert.InDelta(t, 0.65, heuristicConfidence(withProvider), 1e-9)
}

func TestHeuristicConfidence_Cap(t *testing.T) {
	long := "Seen 01/15/2024, prescribed 10 mg daily by Dr. Smith. "
	for len(long) < 300 {
		long += "Additional clinical narrative with many words follows here. "
	}
	assert.InDelta(t, 0.75, heuristicConfidence(long), 1e-9)
}
