package alleles

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/baditaflorin/l"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser(t *testing.T, opts ...Option) *Parser {
	t.Helper()
	lg, err := l.NewStandardFactory().CreateLogger(l.Config{Output: io.Discard})
	require.NoError(t, err)

	p, err := New(append([]Option{WithLogger(lg)}, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Close() })
	return p
}

func TestParserDefaults(t *testing.T) {
	ctx := context.Background()
	p := newTestParser(t)

	ints, err := p.ParseIntList(ctx, "1, 2,3")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ints)

	assert.Equal(t, []string{"A", "B", "C"}, p.SplitUppercaseSequences(ctx, " a, B ,c"))
	assert.Equal(t, []string{""}, p.SplitUppercaseSequences(ctx, ""))
	assert.Equal(t, "A0201", p.NormalizeAlleleName(ctx, "HLA-A*02:01"))
	assert.Equal(t, "C0102", p.NormalizeAlleleName(ctx, "Cw*01:02"))
	assert.Equal(t, []string{"A0201", "C0102"}, p.SplitAlleleNames(ctx, "HLA-A*02:01, Cw*01:02"))
}

func TestParserOptimizedNormalizer(t *testing.T) {
	ctx := context.Background()
	p := newTestParser(t, WithOptimizedNormalizer())
	assert.Equal(t, []string{"A0201", "C0102"}, p.SplitAlleleNames(ctx, "HLA-A*02:01, Cw*01:02"))
}

type reverseNormalizer struct{}

func (reverseNormalizer) Normalize(name string) string {
	r := []rune(name)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func TestParserCustomNormalizer(t *testing.T) {
	p := newTestParser(t, WithNormalizer(reverseNormalizer{}))
	assert.Equal(t, []string{"cba", "fed"}, p.SplitAlleleNames(context.Background(), "abc, def"))
}

func TestParserSeparatorAndSkipEmpty(t *testing.T) {
	ctx := context.Background()
	p := newTestParser(t, WithSeparator(";"), WithSkipEmpty(true))

	assert.Equal(t, []string{"A0201", "B0702"}, p.SplitAlleleNames(ctx, "HLA-A*02:01; ;HLA-B*07:02;"))
	ints, err := p.ParseIntList(ctx, "4;;5")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, ints)
}

func TestNewRejectsEmptySeparator(t *testing.T) {
	_, err := New(WithSeparator(""))
	assert.ErrorIs(t, err, ErrEmptySeparator)
}

func TestParseIntListError(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseIntList(context.Background(), "1, two, 3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInteger))

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Index)
	assert.Equal(t, "two", pe.Token)
}

func TestTransform(t *testing.T) {
	ctx := context.Background()
	p := newTestParser(t)

	got, err := p.Transform(ctx, KindAlleles, "hla-a*02:01")
	require.NoError(t, err)
	assert.Equal(t, []string{"A0201"}, got)

	got, err = p.Transform(ctx, KindSequences, "siinfekl")
	require.NoError(t, err)
	assert.Equal(t, []string{"SIINFEKL"}, got)

	got, err = p.Transform(ctx, KindInts, " 8, 9")
	require.NoError(t, err)
	assert.Equal(t, []string{"8", "9"}, got)

	_, err = p.Transform(ctx, KindInts, "8,nine")
	assert.ErrorIs(t, err, ErrInvalidInteger)

	_, err = p.Transform(ctx, ListKind("peptides"), "x")
	assert.Error(t, err)
}

func TestCancelledContext(t *testing.T) {
	p := newTestParser(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Transform(ctx, KindAlleles, "HLA-A*02:01")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = p.ParseIntList(ctx, "1,2")
	assert.ErrorIs(t, err, context.Canceled)

	expired, cancelExpired := context.WithTimeout(context.Background(), -time.Second)
	defer cancelExpired()
	_, err = p.Transform(expired, KindInts, "1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestProcessStream(t *testing.T) {
	in := "HLA-A*02:01, Cw*01:02\nhla-b*57:01\n"
	for _, opts := range [][]Option{nil, {WithParallel(2), WithBatchSize(1)}} {
		p := newTestParser(t, opts...)
		var out bytes.Buffer
		stats, err := p.ProcessStream(context.Background(), KindAlleles, strings.NewReader(in), &out)
		require.NoError(t, err)
		assert.Equal(t, "A0201,C0102\nB5701\n", out.String())
		assert.Equal(t, 2, stats.Lines)
		assert.Equal(t, 3, stats.Tokens)
	}
}

func TestProcessStreamUnknownKind(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ProcessStream(context.Background(), ListKind("nope"), strings.NewReader("a"), io.Discard)
	assert.Error(t, err)
}

func TestParseNormalizerType(t *testing.T) {
	typ, err := ParseNormalizerType("optimized")
	require.NoError(t, err)
	assert.Equal(t, OptimizedNormalizer, typ)
}

func TestWarmUp(t *testing.T) {
	cfg := DefaultWarmUpConfig()
	cfg.Concurrency = 2
	cfg.Iterations = 5
	cfg.ForceGC = false

	p := newTestParser(t, WithOptimizedNormalizer(), WithWarmUpConfig(cfg))
	// A second call is a no-op.
	p.WarmUp(context.Background(), cfg)
	assert.Equal(t, "A0201", p.NormalizeAlleleName(context.Background(), "HLA-A*02:01"))
}
