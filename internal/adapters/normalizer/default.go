package normalizer

import (
	"github.com/baditaflorin/go_allele_names/internal/core/allele"
	"github.com/baditaflorin/go_allele_names/internal/ports"
)

// DefaultNormalizer applies the sequential replace pipeline of allele.Normalize.
type DefaultNormalizer struct{}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer() ports.Normalizer {
	return &DefaultNormalizer{}
}

// Normalize upper-cases name, folds "CW" into "C" and strips "HLA-", "-", "*" and ":".
func (n *DefaultNormalizer) Normalize(name string) string {
	return allele.Normalize(name)
}
