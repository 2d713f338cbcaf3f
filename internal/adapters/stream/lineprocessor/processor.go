package lineprocessor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/baditaflorin/go_allele_names/internal/core/commalist"
	"github.com/baditaflorin/go_allele_names/internal/core/domain"
	"github.com/baditaflorin/go_allele_names/internal/pool"
	"github.com/baditaflorin/go_allele_names/internal/ports"
)

// Constants for line processing
const (
	// DefaultChunkSize defines the default size of each chunk for reading
	DefaultChunkSize = 64 * 1024 // 64KB

	// DefaultBatchSize defines how many lines to process in one batch
	DefaultBatchSize = 100

	// Common newline characters
	CR = '\r'
	LF = '\n'
)

// LineError reports the input line on which a transform failed.
type LineError struct {
	// Line is 1-based and counts blank lines too.
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Processor transforms newline-delimited lists read from a stream.
type Processor struct {
	logger      ports.Logger
	transformer ports.ListTransformer

	chunkPool *pool.BufferPool

	// Configuration
	chunkSize       int
	batchSize       int
	workers         int
	useParallel     bool
	outputSeparator string
}

// ProcessingConfig defines configuration for line processing
type ProcessingConfig struct {
	ChunkSize   int
	BatchSize   int
	Workers     int
	UseParallel bool
	// OutputSeparator joins the tokens of one output line.
	OutputSeparator string
}

// NewProcessor creates a new line processor
func NewProcessor(
	logger ports.Logger,
	transformer ports.ListTransformer,
	config ProcessingConfig,
) *Processor {
	// Use defaults if not specified
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkSize
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}
	if config.Workers <= 0 {
		config.Workers = DefaultWorkers()
	}
	if config.OutputSeparator == "" {
		config.OutputSeparator = domain.DefaultSeparator
	}

	return &Processor{
		logger:          logger,
		transformer:     transformer,
		chunkPool:       pool.NewBufferPool(config.ChunkSize),
		chunkSize:       config.ChunkSize,
		batchSize:       config.BatchSize,
		workers:         config.Workers,
		useParallel:     config.UseParallel,
		outputSeparator: config.OutputSeparator,
	}
}

// ProcessLines transforms every non-blank line of reader and writes one output
// line per input line to writer. A nil writer only collects statistics.
func (p *Processor) ProcessLines(
	ctx context.Context,
	reader io.Reader,
	writer io.Writer,
) (domain.StreamStats, error) {
	startTime := time.Now()

	var out *bufio.Writer
	if writer != nil {
		out = bufio.NewWriter(writer)
	}

	var stats domain.StreamStats
	var err error
	if p.useParallel {
		err = p.processLinesParallel(ctx, reader, out, &stats)
	} else {
		err = p.processLinesSequential(ctx, reader, out, &stats)
	}
	if out != nil {
		if flushErr := out.Flush(); err == nil && flushErr != nil {
			err = fmt.Errorf("flush output: %w", flushErr)
		}
	}
	stats.Duration = time.Since(startTime)

	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			p.logger.Warn("Processing cancelled by context", "error", err)
		} else {
			p.logger.Warn("Line processing failed", "error", err)
		}
		return stats, err
	}

	p.logger.Debug("Line processing completed",
		"lines", stats.Lines,
		"tokens", stats.Tokens,
		"bytes_processed", stats.BytesProcessed,
		"duration", stats.Duration,
		"parallel", p.useParallel,
	)
	return stats, nil
}

func (p *Processor) processLinesSequential(
	ctx context.Context,
	reader io.Reader,
	out *bufio.Writer,
	stats *domain.StreamStats,
) error {
	lineNo := 0
	n, err := p.scanLines(ctx, reader, func(line []byte) error {
		lineNo++
		text := string(line)
		if commalist.TrimSpace(text) == "" {
			return nil
		}
		tokens, err := p.transformer.TransformList(ctx, text)
		if err != nil {
			return &LineError{Line: lineNo, Err: err}
		}
		stats.Lines++
		stats.Tokens += len(tokens)
		return p.writeTokens(out, tokens)
	})
	stats.BytesProcessed = n
	return err
}

// scanLines reads reader in pooled chunks and calls emit for every line.
// LF, CRLF and CR terminators are accepted; CRLF may straddle two chunks.
// The slice passed to emit is only valid until emit returns.
func (p *Processor) scanLines(
	ctx context.Context,
	reader io.Reader,
	emit func(line []byte) error,
) (int64, error) {
	chunkBuffer := p.chunkPool.Get()
	defer p.chunkPool.Put(chunkBuffer)
	chunk := (*chunkBuffer)[:cap(*chunkBuffer)]

	var bytesProcessed int64
	var partial []byte
	skipLF := false

	for {
		if err := ctx.Err(); err != nil {
			return bytesProcessed, err
		}

		n, readErr := reader.Read(chunk)
		if n > 0 {
			bytesProcessed += int64(n)
			data := chunk[:n]
			lineStart := 0

			for i := 0; i < n; i++ {
				b := data[i]
				if skipLF {
					skipLF = false
					if b == LF {
						lineStart = i + 1
						continue
					}
				}
				if b != LF && b != CR {
					continue
				}

				line := data[lineStart:i]
				if len(partial) > 0 {
					partial = append(partial, line...)
					line = partial
				}
				if err := emit(line); err != nil {
					return bytesProcessed, err
				}
				partial = partial[:0]
				lineStart = i + 1
				skipLF = b == CR
			}

			// Carry the unterminated tail into the next chunk.
			if lineStart < n {
				partial = append(partial, data[lineStart:]...)
			}
		}

		if readErr != nil {
			if readErr != io.EOF {
				return bytesProcessed, fmt.Errorf("read input: %w", readErr)
			}
			break
		}
	}

	if len(partial) > 0 {
		if err := emit(partial); err != nil {
			return bytesProcessed, err
		}
	}
	return bytesProcessed, nil
}

func (p *Processor) writeTokens(out *bufio.Writer, tokens []string) error {
	if out == nil {
		return nil
	}
	if _, err := out.WriteString(strings.Join(tokens, p.outputSeparator)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	if err := out.WriteByte(LF); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
