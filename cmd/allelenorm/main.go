// Command allelenorm normalizes comma-separated lists of HLA allele names,
// peptide sequences or integers.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/baditaflorin/l"

	"github.com/baditaflorin/go_allele_names/pkg/alleles"
)

type options struct {
	kind       string
	input      string
	inputSet   bool
	file       string
	separator  string
	skipEmpty  bool
	parallel   int
	normalizer string
	output     string
	verbose    bool
	timeout    time.Duration
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	parser, err := newParser(opts, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error initializing parser: %v\n", err)
		return 1
	}
	defer parser.Close()

	kind := alleles.ListKind(opts.kind)
	if opts.inputSet {
		err = transformOne(ctx, parser, kind, opts, stdout)
	} else {
		err = transformStream(ctx, parser, kind, opts, stdin, stdout, stderr)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("allelenorm", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&opts.kind, "kind", string(alleles.KindAlleles), "List kind: 'alleles', 'sequences' or 'ints'")
	fs.StringVar(&opts.input, "input", "", "A single list to transform (otherwise lines are read from -file or stdin)")
	fs.StringVar(&opts.file, "file", "", "Read newline-delimited lists from this file")
	fs.StringVar(&opts.separator, "separator", ",", "Token separator")
	fs.BoolVar(&opts.skipEmpty, "skip-empty", false, "Drop tokens that are empty after trimming")
	fs.IntVar(&opts.parallel, "parallel", 1, "Worker count for line processing (1 = sequential, 0 = one per CPU)")
	fs.StringVar(&opts.normalizer, "normalizer", "default", "Allele normalizer: 'default' or 'optimized'")
	fs.StringVar(&opts.output, "output", "text", "Output format for -input: 'text' or 'json'")
	fs.BoolVar(&opts.verbose, "verbose", false, "Log processing details to stderr")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Abort after this duration (0 = no limit)")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: allelenorm [options]\n")
		fmt.Fprintf(stderr, "\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  allelenorm -input \"HLA-A*02:01, Cw*01:02\"\n")
		fmt.Fprintf(stderr, "  allelenorm -kind ints -input \"1, 2,3\" -output json\n")
		fmt.Fprintf(stderr, "  allelenorm -kind sequences -file peptides.csv -parallel 0\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "input" {
			opts.inputSet = true
		}
	})
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, validateOptions(opts)
}

// validateOptions validates the command-line inputs
func validateOptions(opts options) error {
	if _, err := alleles.ParseNormalizerType(opts.normalizer); err != nil {
		return err
	}
	switch alleles.ListKind(opts.kind) {
	case alleles.KindAlleles, alleles.KindSequences, alleles.KindInts:
	default:
		return fmt.Errorf("invalid kind: %s. Must be 'alleles', 'sequences' or 'ints'", opts.kind)
	}
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("invalid output format: %s. Must be 'text' or 'json'", opts.output)
	}
	if opts.inputSet && opts.file != "" {
		return errors.New("-input and -file are mutually exclusive")
	}
	if !opts.inputSet && opts.output == "json" {
		return errors.New("-output json requires -input")
	}
	if opts.separator == "" {
		return errors.New("separator must not be empty")
	}
	if opts.parallel < 0 {
		return errors.New("parallel must not be negative")
	}
	return nil
}

func newParser(opts options, stderr io.Writer) (*alleles.Parser, error) {
	var logOutput io.Writer = io.Discard
	if opts.verbose {
		logOutput = stderr
	}
	lg, err := l.NewStandardFactory().CreateLogger(l.Config{
		Output:     logOutput,
		JsonFormat: false,
		AddSource:  false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	normType, _ := alleles.ParseNormalizerType(opts.normalizer)
	parserOpts := []alleles.Option{
		alleles.WithLogger(lg),
		alleles.WithNormalizerType(normType),
		alleles.WithSeparator(opts.separator),
		alleles.WithSkipEmpty(opts.skipEmpty),
	}
	if opts.parallel != 1 {
		parserOpts = append(parserOpts, alleles.WithParallel(opts.parallel))
	}
	return alleles.New(parserOpts...)
}

// transformOne transforms the -input list and prints it.
func transformOne(ctx context.Context, parser *alleles.Parser, kind alleles.ListKind, opts options, stdout io.Writer) error {
	if kind == alleles.KindInts && opts.output == "json" {
		values, err := parser.ParseIntList(ctx, opts.input)
		if err != nil {
			return err
		}
		return json.NewEncoder(stdout).Encode(struct {
			Kind   alleles.ListKind `json:"kind"`
			Values []int            `json:"values"`
		}{Kind: kind, Values: values})
	}

	values, err := parser.Transform(ctx, kind, opts.input)
	if err != nil {
		return err
	}

	if opts.output == "json" {
		return json.NewEncoder(stdout).Encode(struct {
			Kind   alleles.ListKind `json:"kind"`
			Values []string         `json:"values"`
		}{Kind: kind, Values: values})
	}
	_, err = fmt.Fprintln(stdout, strings.Join(values, opts.separator))
	return err
}

// transformStream transforms every line of -file, or stdin when no file is given.
func transformStream(
	ctx context.Context,
	parser *alleles.Parser,
	kind alleles.ListKind,
	opts options,
	stdin io.Reader,
	stdout, stderr io.Writer,
) error {
	reader := stdin
	if opts.file != "" {
		f, err := os.Open(opts.file)
		if err != nil {
			return fmt.Errorf("error reading input file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	stats, err := parser.ProcessStream(ctx, kind, reader, stdout)
	if err != nil {
		return err
	}
	if opts.verbose {
		fmt.Fprintf(stderr, "Processed %d lines (%d tokens, %d bytes) in %.2f ms\n",
			stats.Lines, stats.Tokens, stats.BytesProcessed,
			float64(stats.Duration.Microseconds())/1000)
	}
	return nil
}
