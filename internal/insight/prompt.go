package insight

import "fmt"

// BuildInsightPrompt returns the instruction sent alongside the document.
// The external model is asked for a JSON object with fixed field names; the
// resilient parser copes when it answers in prose anyway.
func BuildInsightPrompt(filename string) string {
	return fmt.Sprintf(`You are a medical document analyst. Analyze the attached document (%s) and respond with a single JSON object using exactly these fields:

{
  "summary": "2-3 sentence plain-language summary of the document",
  "keyFindings": ["notable clinical findings"],
  "recommendations": ["actionable next steps for the patient"],
  "medicalTerms": ["medical terms that appear in the document"],
  "metrics": ["measurements and values found, with units"],
  "urgentItems": ["anything requiring prompt attention"],
  "confidence": 0.0,
  "category": "short category label for this document"
}

Rules:
- Respond with the JSON object only, no surrounding prose.
- Provide at least 4 recommendations.
- Set confidence between 0 and 1.
- Use empty arrays rather than omitting fields.`, filename)
}
