package port

import (
	"context"

	"lifebook/internal/domain"
)

// ExtractionResult is the output of a single text extraction attempt.
type ExtractionResult struct {
	Text       string
	Confidence float64
	Language   string
}

// TextExtractor recovers machine-readable text from an uploaded document.
// Implementations must not fail for merely unknown content types; an error
// signals an actual I/O or processing failure.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.RawDocument) (*ExtractionResult, error)
	Name() string
}
