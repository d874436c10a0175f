package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifebook/internal/domain"
)

func TestExtract_ClinicalNote(t *testing.T) {
	e := NewExtractor(nil)

	text := "Patient on Lisinopril 10mg, BP 145/92 mmHg, seen by Dr. Sarah Johnson on 2024-01-15"
	set := e.Extract(text)

	meds := set[domain.EntityMedication]
	require.Len(t, meds, 1)
	assert.Equal(t, "Lisinopril", meds[0].Text)
	assert.Equal(t, 0.90, meds[0].Confidence)

	measurements := set[domain.EntityMeasurement]
	require.NotEmpty(t, measurements)
	assert.Equal(t, "145/92 mmHg", measurements[0].Text)
	assert.Equal(t, 0.85, measurements[0].Confidence)

	providers := set[domain.EntityProvider]
	require.Len(t, providers, 1)
	assert.Equal(t, "Dr. Sarah Johnson", providers[0].Text)
	assert.Equal(t, 0.92, providers[0].Confidence)

	dates := set[domain.EntityDate]
	require.Len(t, dates, 1)
	assert.Equal(t, "2024-01-15", dates[0].Text)
	assert.Equal(t, 0.95, dates[0].Confidence)
}

func TestExtract_ConditionsUseCanonicalTerm(t *testing.T) {
	e := NewExtractor(nil)

	set := e.Extract("Assessment: HYPERTENSION, well controlled. History of Type 2 Diabetes.")

	conditions := set[domain.EntityCondition]
	require.NotEmpty(t, conditions)

	var texts []string
	for _, c := range conditions {
		texts = append(texts, c.Text)
		assert.Equal(t, 0.85, c.Confidence)
	}
	assert.Contains(t, texts, "hypertension")
	assert.Contains(t, texts, "diabetes")
}

func TestExtract_MedicationEveryOccurrence(t *testing.T) {
	e := NewExtractor(nil)

	set := e.Extract("Started metformin 500mg. Increase METFORMIN to 1000mg if tolerated.")

	meds := set[domain.EntityMedication]
	require.Len(t, meds, 2)
	// Document casing is preserved per occurrence.
	assert.Equal(t, "metformin", meds[0].Text)
	assert.Equal(t, "METFORMIN", meds[1].Text)
}

func TestExtract_MedicationWholeWordOnly(t *testing.T) {
	e := NewExtractor(nil)

	// "aspirins" should not match the whole-word pattern for "Aspirin"...
	set := e.Extract("no aspirinx here")
	assert.Empty(t, set[domain.EntityMedication])

	// ...but the exact word does, regardless of case.
	set = e.Extract("take aspirin daily")
	require.Len(t, set[domain.EntityMedication], 1)
}

func TestExtract_DateFormats(t *testing.T) {
	e := NewExtractor(nil)

	set := e.Extract("Seen 01/15/2024, labs drawn 2024-02-01, next visit March 3, 2024.")

	dates := set[domain.EntityDate]
	require.Len(t, dates, 3)

	var texts []string
	for _, d := range dates {
		texts = append(texts, d.Text)
	}
	assert.Contains(t, texts, "01/15/2024")
	assert.Contains(t, texts, "2024-02-01")
	assert.Contains(t, texts, "March 3, 2024")
}

func TestExtract_Measurements(t *testing.T) {
	e := NewExtractor(nil)

	set := e.Extract("Glucose 110 mg/dL, weight 82 kg, SpO2 97%, HR 72 bpm")

	var texts []string
	for _, m := range set[domain.EntityMeasurement] {
		texts = append(texts, m.Text)
	}
	assert.Contains(t, texts, "110 mg/dL")
	assert.Contains(t, texts, "82 kg")
	assert.Contains(t, texts, "97%")
	assert.Contains(t, texts, "72 bpm")
}

func TestExtract_BloodPressureIsOneMeasurement(t *testing.T) {
	e := NewExtractor(nil)

	set := e.Extract("BP 145/92 mmHg today")

	measurements := set[domain.EntityMeasurement]
	assert.Len(t, measurements, 1)
	assert.Equal(t, "145/92 mmHg", measurements[0].Text)
}

func TestExtract_EmptyText(t *testing.T) {
	e := NewExtractor(nil)

	set := e.Extract("   \n\t  ")
	assert.Equal(t, 0, set.Count())
}

func TestExtract_Idempotent(t *testing.T) {
	e := NewExtractor(nil)
	text := "Dr. Lee prescribed Lisinopril for hypertension on 2024-01-15."

	first := e.Extract(text)
	second := e.Extract(text)

	assert.Equal(t, first, second)
}

func TestExtract_Procedures(t *testing.T) {
	e := NewExtractor(nil)

	set := e.Extract("Chest X-Ray ordered; prior CT scan unremarkable.")

	var texts []string
	for _, p := range set[domain.EntityProcedure] {
		texts = append(texts, p.Text)
		assert.Equal(t, 0.88, p.Confidence)
	}
	assert.Contains(t, texts, "x-ray")
	assert.Contains(t, texts, "ct scan")
}
