package analysis

import "lifebook/internal/domain"

// ConfidencePolicy controls how entity yield adjusts the base OCR confidence.
// The values reproduce observed scoring behavior but are injected so they can
// be retuned through configuration.
type ConfidencePolicy struct {
	EntityBonus float64
	Cap         float64
}

// DefaultConfidencePolicy returns the standard scoring policy: a small bonus
// per matched entity, capped short of certainty.
func DefaultConfidencePolicy() ConfidencePolicy {
	return ConfidencePolicy{EntityBonus: 0.02, Cap: 0.98}
}

// Aggregate combines OCR confidence with entity yield. Documents where
// pattern matching found substantial structure score above their raw OCR
// confidence, but the result never exceeds the cap.
func (p ConfidencePolicy) Aggregate(ocrConfidence float64, entities domain.EntitySet) float64 {
	score := ocrConfidence
	if score < 0 {
		score = 0
	}
	score += p.EntityBonus * float64(entities.Count())
	if score > p.Cap {
		score = p.Cap
	}
	if score > 1 {
		score = 1
	}
	return score
}
