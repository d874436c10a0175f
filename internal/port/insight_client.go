package port

import (
	"context"

	"lifebook/internal/domain"
)

// InsightClient talks to the external LLM service. The response is free-form
// text expected, but not guaranteed, to contain a JSON object.
//
// Request returns domain.ErrInsightNotConfigured before any network call when
// no credential is configured. Any other error is a transport or service
// failure that the caller recovers from locally.
type InsightClient interface {
	Request(ctx context.Context, doc domain.RawDocument) (string, error)
}
