package alleles

import (
	"github.com/baditaflorin/go_allele_names/internal/adapters/logger"
	"github.com/baditaflorin/go_allele_names/internal/adapters/normalizer"
	"github.com/baditaflorin/go_allele_names/internal/ports"
	"github.com/baditaflorin/go_allele_names/internal/warmup"
	"github.com/baditaflorin/l"
)

// NormalizerType selects a built-in normalizer.
type NormalizerType = normalizer.NormalizerType

// Built-in normalizers.
const (
	DefaultNormalizer   = normalizer.DefaultNormalizerType
	OptimizedNormalizer = normalizer.OptimizedNormalizerType
)

// ParseNormalizerType maps "default" or "optimized" to a NormalizerType.
func ParseNormalizerType(s string) (NormalizerType, error) {
	return normalizer.ParseNormalizerType(s)
}

// WarmUpConfig controls normalizer warm-up.
type WarmUpConfig = warmup.WarmupConfig

// DefaultWarmUpConfig returns the warm-up configuration used by WithWarmUp.
func DefaultWarmUpConfig() WarmUpConfig {
	return warmup.DefaultWarmupConfig()
}

// Option defines a functional option for configuring a Parser.
type Option func(*parserConfig)

type parserConfig struct {
	Separator    string
	SkipEmpty    bool
	Logger       ports.Logger
	Normalizer   ports.Normalizer
	Parallel     bool
	Workers      int
	BatchSize    int
	ChunkSize    int
	WarmUp       bool
	WarmUpConfig warmup.WarmupConfig
}

// WithLogger sets a custom logger.
func WithLogger(l l.Logger) Option {
	return func(cfg *parserConfig) {
		cfg.Logger = logger.FromExisting(l)
	}
}

// WithNormalizer sets a custom allele-name normalizer.
func WithNormalizer(n ports.Normalizer) Option {
	return func(cfg *parserConfig) {
		cfg.Normalizer = n
	}
}

// WithNormalizerType selects one of the built-in normalizers.
func WithNormalizerType(t NormalizerType) Option {
	return func(cfg *parserConfig) {
		cfg.Normalizer = normalizer.NewNormalizerFactory().CreateNormalizer(t)
	}
}

// WithOptimizedNormalizer sets the buffer-pooling normalizer.
func WithOptimizedNormalizer() Option {
	return WithNormalizerType(normalizer.OptimizedNormalizerType)
}

// WithSeparator sets the token separator. The default is ",".
func WithSeparator(sep string) Option {
	return func(cfg *parserConfig) {
		cfg.Separator = sep
	}
}

// WithSkipEmpty drops tokens that are empty after trimming.
func WithSkipEmpty(skip bool) Option {
	return func(cfg *parserConfig) {
		cfg.SkipEmpty = skip
	}
}

// WithParallel enables parallel stream processing on the given number of
// workers. Zero or less means runtime.NumCPU().
func WithParallel(workers int) Option {
	return func(cfg *parserConfig) {
		cfg.Parallel = true
		cfg.Workers = workers
	}
}

// WithBatchSize sets how many lines a parallel stream run hands out at once.
func WithBatchSize(size int) Option {
	return func(cfg *parserConfig) {
		cfg.BatchSize = size
	}
}

// WithChunkSize sets the read size used by stream processing.
func WithChunkSize(size int) Option {
	return func(cfg *parserConfig) {
		cfg.ChunkSize = size
	}
}

// WithWarmUp enables normalizer warm-up on initialization.
func WithWarmUp(enable bool) Option {
	return func(cfg *parserConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration and enables warm-up.
func WithWarmUpConfig(config WarmUpConfig) Option {
	return func(cfg *parserConfig) {
		cfg.WarmUpConfig = config
		cfg.WarmUp = true
	}
}
