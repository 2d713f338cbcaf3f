package lineprocessor

import (
	"bufio"
	"context"
	"io"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/baditaflorin/go_allele_names/internal/core/commalist"
	"github.com/baditaflorin/go_allele_names/internal/core/domain"
)

// DefaultWorkers is the worker count used when none is configured.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

type lineJob struct {
	line int
	text string
}

// processLinesParallel reads lines in batches and transforms each batch on up
// to p.workers goroutines. Batches are written in input order.
func (p *Processor) processLinesParallel(
	ctx context.Context,
	reader io.Reader,
	out *bufio.Writer,
	stats *domain.StreamStats,
) error {
	batch := make([]lineJob, 0, p.batchSize)
	lineNo := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		results, err := p.transformBatch(ctx, batch)
		if err != nil {
			return err
		}
		for _, tokens := range results {
			stats.Lines++
			stats.Tokens += len(tokens)
			if err := p.writeTokens(out, tokens); err != nil {
				return err
			}
		}
		batch = batch[:0]
		return nil
	}

	n, err := p.scanLines(ctx, reader, func(line []byte) error {
		lineNo++
		text := string(line)
		if commalist.TrimSpace(text) == "" {
			return nil
		}
		batch = append(batch, lineJob{line: lineNo, text: text})
		if len(batch) < p.batchSize {
			return nil
		}
		return flush()
	})
	stats.BytesProcessed = n
	if err != nil {
		return err
	}
	return flush()
}

// transformBatch returns the tokens of every job in order. When several lines
// fail, the error of the earliest line wins. After a failure no job past the
// failing one is started, so every job before it still runs to completion.
func (p *Processor) transformBatch(ctx context.Context, batch []lineJob) ([][]string, error) {
	results := make([][]string, len(batch))
	errs := make([]error, len(batch))

	var failedAt atomic.Int64
	failedAt.Store(math.MaxInt64)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range batch {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if int64(i) > failedAt.Load() {
				return nil
			}
			// ctx, not gctx: a later failure must not cancel an earlier line.
			tokens, err := p.transformer.TransformList(ctx, batch[i].text)
			if err != nil {
				errs[i] = &LineError{Line: batch[i].line, Err: err}
				for {
					cur := failedAt.Load()
					if int64(i) >= cur || failedAt.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return errs[i]
			}
			results[i] = tokens
			return nil
		})
	}
	waitErr := g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, waitErr
}
