package classify

import (
	"strings"

	"lifebook/internal/domain"
)

// rule is one entry in the prioritized classification chain.
type rule struct {
	category domain.DocumentCategory
	matches  func(in input) bool
}

type input struct {
	haystack string // lowercased filename + text
	entities domain.EntitySet
}

// imagingProcedures are the procedure keywords that force the Imaging category.
var imagingProcedures = []string{"x-ray", "ct", "mri", "ultrasound"}

// Classifier assigns a single category label and a set of supplementary tags.
type Classifier struct {
	rules []rule
}

// NewClassifier builds the fixed, ordered rule chain. Rules are evaluated in
// order; the first match wins.
func NewClassifier() *Classifier {
	return &Classifier{rules: []rule{
		{domain.CategoryPrescriptions, func(in input) bool {
			return len(in.entities[domain.EntityMedication]) > 0 &&
				containsAny(in.haystack, "prescription", "rx")
		}},
		{domain.CategoryLabResults, func(in input) bool {
			return len(in.entities[domain.EntityMeasurement]) > 2 &&
				containsAny(in.haystack, "blood", "lab", "test")
		}},
		{domain.CategoryImaging, func(in input) bool {
			for _, proc := range in.entities[domain.EntityProcedure] {
				if containsAny(strings.ToLower(proc.Text), imagingProcedures...) {
					return true
				}
			}
			return false
		}},
		{domain.CategoryVisitNotes, func(in input) bool {
			return containsAny(in.haystack, "visit", "consultation", "appointment")
		}},
		{domain.CategoryVaccinations, func(in input) bool {
			return containsAny(in.haystack, "vaccination", "vaccine", "immunization")
		}},
		{domain.CategoryProcedures, func(in input) bool {
			return containsAny(in.haystack, "surgery", "procedure", "operation")
		}},
		{domain.CategoryInsurance, func(in input) bool {
			return containsAny(in.haystack, "insurance", "claim", "coverage")
		}},
	}}
}

// Classify evaluates the rule chain against the filename, extracted text and
// entities, and derives tags. Tag generation is independent of the category.
func (c *Classifier) Classify(filename, text string, entities domain.EntitySet) (domain.DocumentCategory, domain.TagSet) {
	in := input{
		haystack: strings.ToLower(filename + " " + text),
		entities: entities,
	}

	category := domain.CategoryGeneral
	for _, r := range c.rules {
		if r.matches(in) {
			category = r.category
			break
		}
	}

	return category, c.tags(in)
}

// tags scans entities and raw text for supplementary labels. Purely additive;
// duplicates collapse in the set.
func (c *Classifier) tags(in input) domain.TagSet {
	tags := domain.TagSet{}

	for _, cond := range in.entities[domain.EntityCondition] {
		lower := strings.ToLower(cond.Text)
		switch {
		case strings.Contains(lower, "diabetes"):
			tags.Add("Diabetes")
		case strings.Contains(lower, "hypertension"), strings.Contains(lower, "blood pressure"):
			tags.Add("Blood Pressure")
		case strings.Contains(lower, "cholesterol"), strings.Contains(lower, "hyperlipidemia"):
			tags.Add("Cholesterol")
		case strings.Contains(lower, "asthma"), strings.Contains(lower, "respiratory"),
			strings.Contains(lower, "bronchitis"), strings.Contains(lower, "copd"):
			tags.Add("Respiratory")
		}
	}

	for _, proc := range in.entities[domain.EntityProcedure] {
		lower := strings.ToLower(proc.Text)
		if containsAny(lower, "ekg", "ecg", "echocardiogram", "stress test", "angioplasty") {
			tags.Add("Cardiology")
		}
		if containsAny(lower, imagingProcedures...) || strings.Contains(lower, "mammogram") {
			tags.Add("Imaging")
		}
	}

	switch {
	case containsAny(in.haystack, "urgent", "emergency", "stat"):
		tags.Add("Urgent")
	case containsAny(in.haystack, "annual", "routine", "regular"):
		tags.Add("Routine")
	}
	if strings.Contains(in.haystack, "follow") {
		tags.Add("Follow-up")
	}

	return tags
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
