package vocab

import (
	"context"
	"log"

	"lifebook/internal/domain"
	"lifebook/internal/port"
)

// Vocabulary holds the curated term lists that drive entity extraction.
// Terms are treated as versioned configuration: they are loaded from the
// vocabulary store at startup and can be extended without touching the
// extraction logic.
type Vocabulary struct {
	Conditions  []string
	Medications []string
	Procedures  []string
}

// Default returns the built-in vocabulary used when the store is empty or
// unavailable.
func Default() *Vocabulary {
	return &Vocabulary{
		Conditions: []string{
			"diabetes", "hypertension", "high blood pressure", "asthma",
			"arthritis", "migraine", "anemia", "bronchitis", "pneumonia",
			"depression", "anxiety", "high cholesterol", "hyperlipidemia",
			"obesity", "osteoporosis", "hypothyroidism", "gerd",
			"atrial fibrillation", "coronary artery disease", "copd",
			"chronic kidney disease", "allergic rhinitis", "eczema",
		},
		Medications: []string{
			"Lisinopril", "Metformin", "Atorvastatin", "Amlodipine",
			"Omeprazole", "Levothyroxine", "Simvastatin", "Losartan",
			"Albuterol", "Gabapentin", "Hydrochlorothiazide", "Sertraline",
			"Metoprolol", "Ibuprofen", "Acetaminophen", "Aspirin",
			"Amoxicillin", "Azithromycin", "Prednisone", "Insulin",
			"Warfarin", "Clopidogrel", "Furosemide", "Pantoprazole",
		},
		Procedures: []string{
			"x-ray", "ct scan", "mri", "ultrasound", "echocardiogram",
			"colonoscopy", "endoscopy", "biopsy", "blood test",
			"ekg", "ecg", "stress test", "mammogram", "vaccination",
			"physical examination", "surgery", "angioplasty",
		},
	}
}

// Load builds a Vocabulary from the repository, falling back to the built-in
// defaults for any category with no stored terms.
func Load(ctx context.Context, repo port.VocabularyRepository) *Vocabulary {
	def := Default()
	if repo == nil {
		return def
	}

	v := &Vocabulary{
		Conditions:  load(ctx, repo, domain.VocabCondition, def.Conditions),
		Medications: load(ctx, repo, domain.VocabMedication, def.Medications),
		Procedures:  load(ctx, repo, domain.VocabProcedure, def.Procedures),
	}
	return v
}

func load(ctx context.Context, repo port.VocabularyRepository, category domain.VocabularyCategory, fallback []string) []string {
	terms, err := repo.ListByCategory(ctx, category)
	if err != nil {
		log.Printf("vocab.Load: falling back to built-in %s terms: %v", category, err)
		return fallback
	}
	if len(terms) == 0 {
		return fallback
	}
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		out = append(out, t.Term)
	}
	return out
}
