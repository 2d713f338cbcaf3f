package warmup

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/baditaflorin/go_allele_names/internal/ports"
)

// WarmupConfig defines configuration for warming up normalizers
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency: runtime.NumCPU(),
		Iterations:  1000,
		Duration:    5 * time.Second,
		ForceGC:     true,
	}
}

// SampleAlleles covers the notations a normalizer sees in practice.
var SampleAlleles = []string{
	"HLA-A*02:01",
	"HLA-B*07:02",
	"Cw*01:02",
	"HLA-Cw*07:02",
	"hla-c*03:04",
	"HLA-DRB1*15:01",
	"H-2-Kb",
	"A0201",
}

// Manager primes the buffer pools of registered normalizers.
type Manager struct {
	logger      ports.Logger
	normalizers []ports.Normalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs every registered normalizer over SampleAlleles and returns the
// number of normalizations performed.
func (wm *Manager) WarmUp(ctx context.Context) int {
	startTime := time.Now()
	wm.logger.Info("Starting normalizer warmup",
		"normalizers", len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	if wm.config.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	}

	var mu sync.Mutex
	total := 0

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			done := 0
			for j := 0; j < wm.config.Iterations; j++ {
				if ctx.Err() != nil {
					break
				}
				name := SampleAlleles[j%len(SampleAlleles)]
				for _, normalizer := range wm.normalizers {
					_ = normalizer.Normalize(name)
					done++
				}
			}

			mu.Lock()
			total += done
			mu.Unlock()
		}()
	}
	wg.Wait()

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("Normalizer warmup completed",
		"normalizations", total,
		"duration", time.Since(startTime),
	)
	return total
}
