package insight

import (
	"context"
	"errors"
	"log"

	"lifebook/internal/domain"
	"lifebook/internal/port"
)

// ReportGenerator drives the insight path end to end: one request to the
// external service, then local interpretation of whatever came back.
//
// The only error ever surfaced is domain.ErrInsightNotConfigured, raised
// before any request is attempted. Every other failure mode degrades into a
// valid report: this is an auxiliary enrichment step, not a critical path.
type ReportGenerator struct {
	client port.InsightClient
	parser *Parser
}

// NewReportGenerator creates a ReportGenerator.
func NewReportGenerator(client port.InsightClient) *ReportGenerator {
	return &ReportGenerator{client: client, parser: NewParser()}
}

// Generate requests an insight report for the document. There is no retry
// loop against the external service; a single call is made and the response
// is interpreted resiliently.
func (g *ReportGenerator) Generate(ctx context.Context, doc domain.RawDocument) (*domain.MedicalInsightReport, error) {
	raw, err := g.client.Request(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrInsightNotConfigured) {
			return nil, err
		}
		log.Printf("insight.ReportGenerator: service call failed for %q, using fallback report: %v", doc.Filename, err)
		return Normalize(FallbackReport()), nil
	}
	return g.parser.Parse(raw), nil
}
