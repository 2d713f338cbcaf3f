package normalizer

import (
	"fmt"
	"strings"

	"github.com/baditaflorin/go_allele_names/internal/ports"
)

// NormalizerFactory creates the appropriate normalizer based on performance requirements
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// NormalizerType selects a normalizer implementation.
type NormalizerType int

const (
	// DefaultNormalizerType is the reference replace pipeline
	DefaultNormalizerType NormalizerType = iota
	// OptimizedNormalizerType uses buffer pooling and a byte-level fast path
	OptimizedNormalizerType
)

func (t NormalizerType) String() string {
	switch t {
	case OptimizedNormalizerType:
		return "optimized"
	default:
		return "default"
	}
}

// ParseNormalizerType maps "default" or "optimized" to a NormalizerType.
func ParseNormalizerType(s string) (NormalizerType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default":
		return DefaultNormalizerType, nil
	case "optimized":
		return OptimizedNormalizerType, nil
	}
	return DefaultNormalizerType, fmt.Errorf("unknown normalizer type %q", s)
}

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case OptimizedNormalizerType:
		return NewOptimizedNormalizer()
	default:
		return NewDefaultNormalizer()
	}
}
