// Package alleles parses comma-separated lists of HLA allele names, peptide
// sequences and integers.
//
// A Parser is safe for concurrent use.
package alleles

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/baditaflorin/go_allele_names/internal/adapters/logger"
	"github.com/baditaflorin/go_allele_names/internal/adapters/normalizer"
	"github.com/baditaflorin/go_allele_names/internal/adapters/stream/lineprocessor"
	"github.com/baditaflorin/go_allele_names/internal/core/allele"
	"github.com/baditaflorin/go_allele_names/internal/core/commalist"
	"github.com/baditaflorin/go_allele_names/internal/core/domain"
	"github.com/baditaflorin/go_allele_names/internal/ports"
	"github.com/baditaflorin/go_allele_names/internal/warmup"
)

// ListKind selects the transform applied to a list.
type ListKind = domain.ListKind

// List kinds accepted by Transform and ProcessStream.
const (
	KindAlleles   = domain.KindAlleles
	KindSequences = domain.KindSequences
	KindInts      = domain.KindInts
)

// StreamStats summarizes a ProcessStream run.
type StreamStats = domain.StreamStats

// ParseError reports the token of an integer list that failed to convert.
type ParseError = domain.ParseError

// ErrInvalidInteger matches every integer conversion failure.
var ErrInvalidInteger = domain.ErrInvalidInteger

// ErrEmptySeparator is returned by New when WithSeparator("") was given.
var ErrEmptySeparator = errors.New("separator must not be empty")

// Parser splits and normalizes comma-separated lists.
type Parser struct {
	opts       commalist.Options
	logger     ports.Logger
	normalizer ports.Normalizer
	procConfig lineprocessor.ProcessingConfig
	warmOnce   sync.Once
}

// New creates a Parser. If no logger is provided, a default logger is created.
func New(opts ...Option) (*Parser, error) {
	config := &parserConfig{
		Separator:    domain.DefaultSeparator,
		WarmUpConfig: warmup.DefaultWarmupConfig(),
	}
	for _, opt := range opts {
		opt(config)
	}

	if config.Separator == "" {
		return nil, ErrEmptySeparator
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewDefaultNormalizer()
	}

	p := &Parser{
		opts: commalist.Options{
			Separator: config.Separator,
			SkipEmpty: config.SkipEmpty,
		},
		logger:     config.Logger,
		normalizer: config.Normalizer,
		procConfig: lineprocessor.ProcessingConfig{
			ChunkSize:       config.ChunkSize,
			BatchSize:       config.BatchSize,
			Workers:         config.Workers,
			UseParallel:     config.Parallel,
			OutputSeparator: config.Separator,
		},
	}

	if config.WarmUp {
		p.WarmUp(context.Background(), config.WarmUpConfig)
	}

	return p, nil
}

// WarmUp primes the normalizer's buffer pools. Calls after the first are no-ops.
func (p *Parser) WarmUp(ctx context.Context, config WarmUpConfig) {
	p.warmOnce.Do(func() {
		warmupMgr := warmup.NewManager(p.logger, config)
		warmupMgr.RegisterNormalizer(p.normalizer)
		warmupMgr.WarmUp(ctx)
	})
}

// ParseIntList converts every token of s to an int, in input order.
// It fails with ctx.Err() if ctx is already done.
func (p *Parser) ParseIntList(ctx context.Context, s string) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, err := commalist.ParseInts(s, p.opts)
	if err != nil {
		p.logger.Debug("Integer list rejected", "input", s, "error", err)
		return nil, err
	}
	return values, nil
}

// SplitUppercaseSequences trims and upper-cases every token of s.
func (p *Parser) SplitUppercaseSequences(ctx context.Context, s string) []string {
	return commalist.UppercaseTokens(s, p.opts)
}

// NormalizeAlleleName normalizes a single allele name, e.g. "HLA-A*02:01" -> "A0201".
func (p *Parser) NormalizeAlleleName(ctx context.Context, name string) string {
	normalized := p.normalizer.Normalize(name)
	p.logger.Debug("Normalized allele name", "input", name, "normalized", normalized)
	return normalized
}

// SplitAlleleNames trims and normalizes every token of s.
func (p *Parser) SplitAlleleNames(ctx context.Context, s string) []string {
	return allele.SplitNames(s, p.opts, p.normalizer.Normalize)
}

// Transform applies the transform selected by kind to s. Integers are
// returned in decimal form. It fails with ctx.Err() if ctx is already done.
func (p *Parser) Transform(ctx context.Context, kind ListKind, s string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch kind {
	case KindAlleles:
		return p.SplitAlleleNames(ctx, s), nil
	case KindSequences:
		return p.SplitUppercaseSequences(ctx, s), nil
	case KindInts:
		values, err := p.ParseIntList(ctx, s)
		if err != nil {
			return nil, err
		}
		return commalist.FormatInts(values), nil
	}
	_, err := domain.ParseListKind(string(kind))
	return nil, err
}

// ProcessStream transforms every non-blank line of r as one list and writes
// the results to w, one line each, joined by the configured separator.
func (p *Parser) ProcessStream(ctx context.Context, kind ListKind, r io.Reader, w io.Writer) (StreamStats, error) {
	if _, err := domain.ParseListKind(string(kind)); err != nil {
		return StreamStats{}, err
	}
	transformer := ports.ListTransformerFunc(func(ctx context.Context, list string) ([]string, error) {
		return p.Transform(ctx, kind, list)
	})
	proc := lineprocessor.NewProcessor(p.logger, transformer, p.procConfig)
	return proc.ProcessLines(ctx, r, w)
}

// Close releases the logger.
func (p *Parser) Close() error {
	return p.logger.Close()
}
