package ports

// Normalizer defines the interface for allele-name normalization.
type Normalizer interface {
	Normalize(name string) string
}
