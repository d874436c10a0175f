package entities

import (
	"regexp"
	"strings"

	"lifebook/internal/domain"
	"lifebook/internal/vocab"
)

// Per-category match confidences, reproduced from observed scoring behavior.
const (
	conditionConfidence   = 0.85
	medicationConfidence  = 0.90
	procedureConfidence   = 0.88
	dateConfidence        = 0.95
	providerConfidence    = 0.92
	measurementConfidence = 0.85
)

var (
	// Date pattern families: MM/DD/YYYY, ISO, and long month-name form.
	reDateSlash = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	reDateISO   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	reDateLong  = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},\s+\d{4}\b`)

	// Provider: "Dr." or "Dr" followed by capitalized name tokens, with an
	// optional credential suffix.
	reProvider = regexp.MustCompile(`\bDr\.?\s+[A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+)*(?:,?\s+(?:MD|DO|MBBS|NP|PA|RN))?`)

	// Measurement pattern families: blood-pressure pairs, value + clinical
	// unit, and bare percentages.
	reBloodPressure = regexp.MustCompile(`\b\d{2,3}/\d{2,3}\s*mmHg`)
	reValueUnit     = regexp.MustCompile(`\b\d+(?:\.\d+)?\s*(?:mg/dL|mmol/L|mmHg|bpm|kg|lbs?|mcg|mg|mL|cm|mm)\b`)
	rePercentage    = regexp.MustCompile(`\b\d+(?:\.\d+)?%`)
)

// Extractor finds domain entities in extracted text. It is a pure function of
// its input and the injected vocabulary; extraction never fails.
type Extractor struct {
	vocabulary  *vocab.Vocabulary
	medPatterns []*regexp.Regexp
}

// NewExtractor creates an Extractor with the given vocabulary. Medication
// patterns are compiled once per term for whole-word matching.
func NewExtractor(v *vocab.Vocabulary) *Extractor {
	if v == nil {
		v = vocab.Default()
	}
	patterns := make([]*regexp.Regexp, 0, len(v.Medications))
	for _, med := range v.Medications {
		patterns = append(patterns, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(med)+`\b`))
	}
	return &Extractor{vocabulary: v, medPatterns: patterns}
}

// Extract runs all six category passes over the text. Categories with no
// matches are simply absent from the returned set.
func (e *Extractor) Extract(text string) domain.EntitySet {
	set := domain.EntitySet{}
	if strings.TrimSpace(text) == "" {
		return set
	}
	lower := strings.ToLower(text)

	e.matchVocabulary(set, lower, e.vocabulary.Conditions, domain.EntityCondition, conditionConfidence)
	e.matchMedications(set, text)
	e.matchVocabulary(set, lower, e.vocabulary.Procedures, domain.EntityProcedure, procedureConfidence)
	e.matchPatterns(set, text, domain.EntityDate, dateConfidence, reDateSlash, reDateISO, reDateLong)
	e.matchPatterns(set, text, domain.EntityProvider, providerConfidence, reProvider)
	e.matchMeasurements(set, text)

	return set
}

// matchVocabulary reports one entity per vocabulary term found as a
// case-insensitive substring. The entity text is the canonical term.
func (e *Extractor) matchVocabulary(set domain.EntitySet, lower string, terms []string, category domain.EntityCategory, confidence float64) {
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			set[category] = append(set[category], domain.Entity{
				Text:       term,
				Category:   category,
				Confidence: confidence,
			})
		}
	}
}

// matchMedications matches drug names as whole words. Every occurrence in the
// text is reported separately, preserving the casing found in the document.
func (e *Extractor) matchMedications(set domain.EntitySet, text string) {
	for _, re := range e.medPatterns {
		for _, match := range re.FindAllString(text, -1) {
			set[domain.EntityMedication] = append(set[domain.EntityMedication], domain.Entity{
				Text:       match,
				Category:   domain.EntityMedication,
				Confidence: medicationConfidence,
			})
		}
	}
}

// matchMeasurements runs the measurement families in order: blood-pressure
// pairs, value+unit, percentages. The unit regex also matches the second half
// of a pressure reading, so matches inside a blood-pressure span are skipped;
// one reading is one measurement.
func (e *Extractor) matchMeasurements(set domain.EntitySet, text string) {
	add := func(match string) {
		set[domain.EntityMeasurement] = append(set[domain.EntityMeasurement], domain.Entity{
			Text:       strings.TrimSpace(match),
			Category:   domain.EntityMeasurement,
			Confidence: measurementConfidence,
		})
	}

	bpSpans := reBloodPressure.FindAllStringIndex(text, -1)
	for _, span := range bpSpans {
		add(text[span[0]:span[1]])
	}
	for _, re := range []*regexp.Regexp{reValueUnit, rePercentage} {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if withinAny(loc, bpSpans) {
				continue
			}
			add(text[loc[0]:loc[1]])
		}
	}
}

func withinAny(loc []int, spans [][]int) bool {
	for _, span := range spans {
		if loc[0] >= span[0] && loc[1] <= span[1] {
			return true
		}
	}
	return false
}

func (e *Extractor) matchPatterns(set domain.EntitySet, text string, category domain.EntityCategory, confidence float64, patterns ...*regexp.Regexp) {
	for _, re := range patterns {
		for _, match := range re.FindAllString(text, -1) {
			set[category] = append(set[category], domain.Entity{
				Text:       strings.TrimSpace(match),
				Category:   category,
				Confidence: confidence,
			})
		}
	}
}
