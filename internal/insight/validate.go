package insight

import (
	"math"
	"strings"

	"lifebook/internal/domain"
)

const (
	minRecommendations = 4
	defaultConfidence  = 0.85
	fallbackConfidence = 0.75
	defaultCategory    = "General Medical Document"
	defaultSummary     = "This medical document has been reviewed."
)

// defaultRecommendationList pads reports that came back with too few
// actionable items. The order is fixed so padding is deterministic.
var defaultRecommendationList = []string{
	"Review this document with your healthcare provider",
	"Keep this record accessible for future appointments",
	"Verify all medication details with your pharmacist",
	"Schedule a follow-up visit if symptoms persist or worsen",
	"Maintain a personal log of symptoms and measurements",
	"Bring a list of current medications to your next visit",
}

var defaultKeyFindings = []string{
	"Document reviewed; no specific findings were highlighted",
}

// Normalize is the terminal validation pass: whichever path produced the
// candidate report, the result always satisfies the report invariants.
// Every list field is non-nil, KeyFindings has at least one entry,
// Recommendations at least four (the full default list when none survived),
// confidence is finite in [0,1] and category is never empty.
func Normalize(report *domain.MedicalInsightReport) *domain.MedicalInsightReport {
	if report == nil {
		report = FallbackReport()
	}

	report.Summary = strings.TrimSpace(report.Summary)
	if report.Summary == "" {
		report.Summary = defaultSummary
	}

	report.KeyFindings = dropEmpty(report.KeyFindings)
	if len(report.KeyFindings) == 0 {
		report.KeyFindings = append(domain.StringList{}, defaultKeyFindings...)
	}

	report.Recommendations = dropEmpty(report.Recommendations)
	if len(report.Recommendations) == 0 {
		// Nothing usable came back at all; the reader gets the full
		// default list, not just the minimum.
		report.Recommendations = append(domain.StringList{}, defaultRecommendationList...)
	}
	for _, def := range defaultRecommendationList {
		if len(report.Recommendations) >= minRecommendations {
			break
		}
		if !containsFold(report.Recommendations, def) {
			report.Recommendations = append(report.Recommendations, def)
		}
	}

	report.MedicalTerms = dropEmpty(report.MedicalTerms)
	report.Metrics = dropEmpty(report.Metrics)
	report.UrgentItems = dropEmpty(report.UrgentItems)

	if math.IsNaN(report.Confidence) || math.IsInf(report.Confidence, 0) ||
		report.Confidence < 0 || report.Confidence > 1 {
		report.Confidence = defaultConfidence
	}

	report.Category = strings.TrimSpace(report.Category)
	if report.Category == "" {
		report.Category = defaultCategory
	}

	if report.Source == "" {
		report.Source = domain.InsightSourceFreeText
	}

	return report
}

// FallbackReport is the deterministic canned report used when the service
// call itself fails. It is valid as-is but still goes through Normalize.
func FallbackReport() *domain.MedicalInsightReport {
	return &domain.MedicalInsightReport{
		Summary: "This document was saved to your health record. A detailed analysis was not available, so the content should be reviewed manually.",
		KeyFindings: domain.StringList{
			"Document stored successfully",
			"Automated analysis was unavailable for this document",
		},
		Recommendations: append(domain.StringList{}, defaultRecommendationList...),
		MedicalTerms:    domain.StringList{},
		Metrics:         domain.StringList{},
		UrgentItems:     domain.StringList{},
		Confidence:      fallbackConfidence,
		Category:        defaultCategory,
		Source:          domain.InsightSourceFallback,
	}
}

func dropEmpty(list domain.StringList) domain.StringList {
	out := make(domain.StringList, 0, len(list))
	for _, item := range list {
		if strings.TrimSpace(item) != "" {
			out = append(out, strings.TrimSpace(item))
		}
	}
	return out
}

func containsFold(list domain.StringList, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
