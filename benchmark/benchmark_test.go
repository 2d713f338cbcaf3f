package benchmark

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/baditaflorin/go_allele_names/internal/adapters/logger"
	"github.com/baditaflorin/go_allele_names/internal/adapters/normalizer"
	"github.com/baditaflorin/go_allele_names/internal/adapters/stream/lineprocessor"
	"github.com/baditaflorin/go_allele_names/internal/core/allele"
	"github.com/baditaflorin/go_allele_names/internal/core/commalist"
	"github.com/baditaflorin/go_allele_names/internal/ports"
)

var sampleNames = []string{
	"HLA-A*02:01",
	"Cw*01:02",
	"hla-b*57:01",
	"HLA-DRB1*15:01",
	"H-2-Kb",
	"A0201",
}

// generateLists creates n lines, each a comma-separated list of allele names.
func generateLists(n int) string {
	var sb strings.Builder
	for i := 0; i < n; i++ {
		for j := 0; j < 4; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(sampleNames[(i+j)%len(sampleNames)])
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// BenchmarkNormalizers compares the performance of the normalizer strategies
func BenchmarkNormalizers(b *testing.B) {
	factory := normalizer.NewNormalizerFactory()
	normalizers := map[string]ports.Normalizer{
		"Default":   factory.CreateNormalizer(normalizer.DefaultNormalizerType),
		"Optimized": factory.CreateNormalizer(normalizer.OptimizedNormalizerType),
	}

	for name, n := range normalizers {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = n.Normalize(sampleNames[i%len(sampleNames)])
			}
		})
	}
}

// BenchmarkLineProcessor compares sequential and parallel stream processing
func BenchmarkLineProcessor(b *testing.B) {
	n := normalizer.NewOptimizedNormalizer()
	transformer := ports.ListTransformerFunc(func(_ context.Context, list string) ([]string, error) {
		return allele.SplitNames(list, commalist.DefaultOptions(), n.Normalize), nil
	})

	for _, lines := range []int{100, 10000} {
		input := generateLists(lines)
		for _, parallel := range []bool{false, true} {
			b.Run(fmt.Sprintf("lines=%d/parallel=%v", lines, parallel), func(b *testing.B) {
				p := lineprocessor.NewProcessor(logger.NewNopLogger(), transformer, lineprocessor.ProcessingConfig{
					UseParallel: parallel,
				})
				b.SetBytes(int64(len(input)))
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					if _, err := p.ProcessLines(context.Background(), strings.NewReader(input), io.Discard); err != nil {
						b.Fatal(err)
					}
				}
			})
		}
	}
}
