package insight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifebook/internal/domain"
)

func TestParse_EmbeddedJSON(t *testing.T) {
	p := NewParser()

	raw := `Here is the analysis you asked for:
{"summary": "Routine visit, blood pressure slightly elevated.",
 "keyFindings": ["BP 145/92", "Weight stable"],
 "recommendations": ["Reduce sodium intake", "Re-check BP in two weeks", "Continue current medication", "Log readings daily"],
 "medicalTerms": ["hypertension"],
 "metrics": ["145/92"],
 "urgentItems": [],
 "confidence": 0.9,
 "category": "Visit Notes"}
Let me know if you need anything else.`

	report := p.Parse(raw)
	require.NotNil(t, report)

	assert.Equal(t, domain.InsightSourceJSON, report.Source)
	assert.Equal(t, "Routine visit, blood pressure slightly elevated.", report.Summary)
	assert.Equal(t, domain.StringList{"BP 145/92", "Weight stable"}, report.KeyFindings)
	assert.Len(t, report.Recommendations, 4)
	assert.Equal(t, 0.9, report.Confidence)
	assert.Equal(t, "Visit Notes", report.Category)
}

func TestParse_JSONWithoutConfidenceGetsDefault(t *testing.T) {
	p := NewParser()

	report := p.Parse(`{"summary": "Lab panel reviewed.", "keyFindings": ["Glucose normal"], "recommendations": ["a recommendation one", "two", "three", "four"]}`)

	assert.Equal(t, domain.InsightSourceJSON, report.Source)
	assert.Equal(t, 0.85, report.Confidence)
	assert.Equal(t, "General Medical Document", report.Category)
}

func TestParse_MalformedJSONFallsBackToMining(t *testing.T) {
	p := NewParser()

	report := p.Parse(`{"summary": not valid json. The patient should monitor blood pressure at home.`)

	assert.Equal(t, domain.InsightSourceFreeText, report.Source)
}

func TestParse_FreeText(t *testing.T) {
	p := NewParser()

	raw := "The document describes a routine checkup. " +
		"The physician recommends reducing salt intake going forward. " +
		"The patient should schedule a lipid panel within three months. " +
		"Consider increasing daily activity to thirty minutes. " +
		"Blood pressure was recorded at 145/92 with a dose of 10 mg."

	report := p.Parse(raw)
	require.NotNil(t, report)

	assert.Equal(t, domain.InsightSourceFreeText, report.Source)
	assert.Equal(t, "The document describes a routine checkup.", report.Summary)
	assert.Contains(t, report.Recommendations, "reducing salt intake going forward")
	assert.Contains(t, report.Recommendations, "schedule a lipid panel within three months")
	assert.Contains(t, report.MedicalTerms, "145/92")
	assert.Contains(t, report.MedicalTerms, "10 mg")
	assert.Contains(t, report.MedicalTerms, "blood pressure")
	assert.Equal(t, 0.85, report.Confidence)
	assert.GreaterOrEqual(t, len(report.Recommendations), 4)
	assert.NotEmpty(t, report.KeyFindings)
}

func TestParse_FreeTextWithoutClausesGetsAllDefaults(t *testing.T) {
	p := NewParser()

	report := p.Parse("lorem ipsum dolor sit amet nothing clinical here")

	assert.Equal(t, domain.InsightSourceFreeText, report.Source)
	assert.Equal(t, domain.StringList(defaultRecommendationList), report.Recommendations)
}

func TestMineRecommendations_CapsAtSix(t *testing.T) {
	text := "The doctor recommends option number one here. " +
		"She also recommends option number two here. " +
		"You should complete option number three here. " +
		"You should complete option number four here. " +
		"Consider doing option number five here. " +
		"Consider doing option number six here. " +
		"Consider doing option number seven here."

	recs := MineRecommendations(text)
	assert.Len(t, recs, 6)
}

func TestMineRecommendations_DeduplicatesCaseInsensitively(t *testing.T) {
	text := "You should monitor your glucose daily. Later note: you should Monitor Your Glucose Daily."

	recs := MineRecommendations(text)
	assert.Len(t, recs, 1)
}

func TestExtractJSONObject(t *testing.T) {
	obj, ok := extractJSONObject(`prefix {"a": "closing } inside a string", "b": {"nested": 1}} suffix`)
	require.True(t, ok)
	assert.Equal(t, `{"a": "closing } inside a string", "b": {"nested": 1}}`, obj)

	obj, ok = extractJSONObject(`escaped quote: {"a": "she said \"hi\""} done`)
	require.True(t, ok)
	assert.Equal(t, `{"a": "she said \"hi\""}`, obj)

	_, ok = extractJSONObject("no braces at all")
	assert.False(t, ok)

	_, ok = extractJSONObject(`{"never": "closed"`)
	assert.False(t, ok)
}
