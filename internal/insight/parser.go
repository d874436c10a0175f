package insight

import (
	"encoding/json"
	"regexp"
	"strings"

	"lifebook/internal/domain"
)

const maxMinedRecommendations = 6

// recommendationPatterns are the ordered clause families mined from free text
// when the response carries no parseable JSON.
var recommendationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\brecommends?\s+(?:that\s+)?([^.\n;]{8,160})`),
	regexp.MustCompile(`(?i)\bshould\s+([^.\n;]{8,160})`),
	regexp.MustCompile(`(?i)\bconsider\s+([^.\n;]{8,160})`),
	regexp.MustCompile(`(?i)\bfollow[- ]?up\s+([^.\n;]{8,160})`),
}

var (
	reRatioTerm  = regexp.MustCompile(`\b\d{2,3}/\d{2,3}\b`)
	reDosageTerm = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:mg|mcg|ml|units?)\b`)

	// clinicalNouns are common terms worth surfacing even without structure.
	clinicalNouns = []string{
		"blood pressure", "heart rate", "cholesterol", "glucose",
		"medication", "dosage", "prescription", "diagnosis",
		"symptoms", "treatment", "lab results", "follow-up",
	}
)

// Parser turns the raw response of the external service into a candidate
// report. It never fails: a response with an embedded JSON object is parsed
// directly, anything else is mined heuristically, and the result is always
// normalized before being returned.
type Parser struct{}

// NewParser creates a Parser.
func NewParser() *Parser { return &Parser{} }

// insightPayload mirrors the field names the external service is instructed
// to use.
type insightPayload struct {
	Summary         string   `json:"summary"`
	KeyFindings     []string `json:"keyFindings"`
	Recommendations []string `json:"recommendations"`
	MedicalTerms    []string `json:"medicalTerms"`
	Metrics         []string `json:"metrics"`
	UrgentItems     []string `json:"urgentItems"`
	Confidence      *float64 `json:"confidence"`
	Category        string   `json:"category"`
}

// Parse interprets the raw response text. The returned report always
// satisfies the validation invariants.
func (p *Parser) Parse(raw string) *domain.MedicalInsightReport {
	if obj, ok := extractJSONObject(raw); ok {
		var payload insightPayload
		if err := json.Unmarshal([]byte(obj), &payload); err == nil {
			report := &domain.MedicalInsightReport{
				Summary:         payload.Summary,
				KeyFindings:     payload.KeyFindings,
				Recommendations: payload.Recommendations,
				MedicalTerms:    payload.MedicalTerms,
				Metrics:         payload.Metrics,
				UrgentItems:     payload.UrgentItems,
				Category:        payload.Category,
				Source:          domain.InsightSourceJSON,
			}
			if payload.Confidence != nil {
				report.Confidence = *payload.Confidence
			} else {
				report.Confidence = -1 // normalized to the default
			}
			return Normalize(report)
		}
	}

	report := &domain.MedicalInsightReport{
		Summary:         summarize(raw),
		Recommendations: MineRecommendations(raw),
		MedicalTerms:    MineMedicalTerms(raw),
		Confidence:      -1,
		Source:          domain.InsightSourceFreeText,
	}
	return Normalize(report)
}

// extractJSONObject locates the first '{' and scans to its matching '}',
// honoring string literals and escapes. Returns false when the text contains
// no balanced object.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// MineRecommendations scans free text for recommendation-like clauses using
// the fixed, ordered pattern families, capped at six extracted clauses.
func MineRecommendations(text string) []string {
	var out []string
	seen := map[string]struct{}{}

	for _, re := range recommendationPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			clause := strings.TrimSpace(strings.Trim(m[1], " ,:-"))
			if clause == "" {
				continue
			}
			key := strings.ToLower(clause)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, clause)
			if len(out) >= maxMinedRecommendations {
				return out
			}
		}
	}
	return out
}

// MineMedicalTerms scans free text for medical-looking tokens: pressure
// ratios, dosage values, and common clinical nouns.
func MineMedicalTerms(text string) []string {
	var out []string
	seen := map[string]struct{}{}
	add := func(term string) {
		key := strings.ToLower(strings.TrimSpace(term))
		if key == "" {
			return
		}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(term))
	}

	for _, m := range reRatioTerm.FindAllString(text, -1) {
		add(m)
	}
	for _, m := range reDosageTerm.FindAllString(text, -1) {
		add(m)
	}
	lower := strings.ToLower(text)
	for _, noun := range clinicalNouns {
		if strings.Contains(lower, noun) {
			add(noun)
		}
	}
	return out
}

// summarize takes the leading sentence of the response as a summary.
func summarize(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if i := strings.IndexAny(text, ".\n"); i > 0 && i < 240 {
		return strings.TrimSpace(text[:i+1])
	}
	if len(text) > 240 {
		return strings.TrimSpace(text[:240]) + "..."
	}
	return text
}
