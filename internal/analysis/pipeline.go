package analysis

import (
	"context"
	"fmt"
	"log"

	"lifebook/internal/classify"
	"lifebook/internal/domain"
	"lifebook/internal/entities"
	"lifebook/internal/port"
)

// Pipeline composes text extraction, entity extraction, classification and
// confidence aggregation into a single analyze call. It is stateless between
// calls and safe to use concurrently.
type Pipeline struct {
	primary    port.TextExtractor
	fallback   port.TextExtractor
	entities   *entities.Extractor
	classifier *classify.Classifier
	policy     ConfidencePolicy
}

// NewPipeline wires the pipeline components.
func NewPipeline(
	primary port.TextExtractor,
	fallback port.TextExtractor,
	entityExtractor *entities.Extractor,
	classifier *classify.Classifier,
	policy ConfidencePolicy,
) *Pipeline {
	return &Pipeline{
		primary:    primary,
		fallback:   fallback,
		entities:   entityExtractor,
		classifier: classifier,
		policy:     policy,
	}
}

// Analyze runs the full pipeline over one document. It fails only when both
// extraction strategies fail; everything after extraction is total.
func (p *Pipeline) Analyze(ctx context.Context, doc domain.RawDocument) (*domain.DocumentAnalysis, error) {
	extraction, err := p.extractWithFallback(ctx, doc)
	if err != nil {
		return nil, err
	}

	entitySet := p.entities.Extract(extraction.Text)
	category, tags := p.classifier.Classify(doc.Filename, extraction.Text, entitySet)
	confidence := p.policy.Aggregate(extraction.Confidence, entitySet)

	return &domain.DocumentAnalysis{
		Category:      category,
		Tags:          tags,
		ExtractedText: extraction.Text,
		Language:      extraction.Language,
		Confidence:    confidence,
		Entities:      entitySet,
	}, nil
}

// extractWithFallback tries the primary strategy and retries transparently
// with the fallback on any failure. The winning strategy is logged for
// telemetry only; it is not part of the analysis record.
func (p *Pipeline) extractWithFallback(ctx context.Context, doc domain.RawDocument) (*port.ExtractionResult, error) {
	result, primaryErr := p.primary.Extract(ctx, doc)
	if primaryErr == nil {
		log.Printf("analysis.Pipeline: extracted %q via %s strategy (confidence %.2f)",
			doc.Filename, p.primary.Name(), result.Confidence)
		return result, nil
	}

	log.Printf("analysis.Pipeline: %s extraction failed for %q, retrying with %s: %v",
		p.primary.Name(), doc.Filename, p.fallback.Name(), primaryErr)

	result, err := p.fallback.Extract(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w (primary: %v; fallback: %v)", domain.ErrExtractionFailed, primaryErr, err)
	}
	log.Printf("analysis.Pipeline: extracted %q via %s strategy (confidence %.2f)",
		doc.Filename, p.fallback.Name(), result.Confidence)
	return result, nil
}
