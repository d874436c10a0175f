package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lifebook/internal/domain"
)

func entitySet(n int) domain.EntitySet {
	list := make([]domain.Entity, n)
	for i := range list {
		list[i] = domain.Entity{Text: "x", Category: domain.EntityDate, Confidence: 0.95}
	}
	return domain.EntitySet{domain.EntityDate: list}
}

func TestAggregate_BonusPerEntity(t *testing.T) {
	p := DefaultConfidencePolicy()

	assert.InDelta(t, 0.78, p.Aggregate(0.78, domain.EntitySet{}), 1e-9)
	assert.InDelta(t, 0.84, p.Aggregate(0.78, entitySet(3)), 1e-9)
}

func TestAggregate_Cap(t *testing.T) {
	p := DefaultConfidencePolicy()

	// 0.92 + 20*0.02 = 1.32, capped.
	assert.InDelta(t, 0.98, p.Aggregate(0.92, entitySet(20)), 1e-9)
}

func TestAggregate_NegativeBaseClamped(t *testing.T) {
	p := DefaultConfidencePolicy()

	assert.InDelta(t, 0.02, p.Aggregate(-0.5, entitySet(1)), 1e-9)
}

func TestAggregate_CustomPolicy(t *testing.T) {
	p := ConfidencePolicy{EntityBonus: 0.05, Cap: 0.90}

	assert.InDelta(t, 0.90, p.Aggregate(0.80, entitySet(4)), 1e-9)
}
