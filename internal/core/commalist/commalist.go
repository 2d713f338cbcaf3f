// Package commalist splits separator-delimited strings into trimmed tokens
// and converts them.
package commalist

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/baditaflorin/go_allele_names/internal/core/caseconv"
	"github.com/baditaflorin/go_allele_names/internal/core/domain"
)

// Options controls how a list is split.
type Options struct {
	// Separator between tokens. Empty means domain.DefaultSeparator.
	Separator string
	// SkipEmpty drops tokens that are empty after trimming.
	SkipEmpty bool
}

// DefaultOptions splits on "," and keeps empty tokens, so "" yields [""].
func DefaultOptions() Options {
	return Options{Separator: domain.DefaultSeparator}
}

// Split returns the whitespace-trimmed tokens of s in input order.
func Split(s string, opts Options) []string {
	sep := opts.Separator
	if sep == "" {
		sep = domain.DefaultSeparator
	}
	parts := strings.Split(s, sep)
	out := parts[:0]
	for _, p := range parts {
		p = TrimSpace(p)
		if p == "" && opts.SkipEmpty {
			continue
		}
		out = append(out, p)
	}
	return out
}

// TrimSpace removes leading and trailing white space. Besides the Unicode
// white space of strings.TrimSpace it also trims the ASCII information
// separators U+001C to U+001F.
func TrimSpace(s string) string {
	return strings.TrimFunc(s, isSpace)
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// Map splits s and applies fn to every token.
func Map(s string, opts Options, fn func(string) string) []string {
	tokens := Split(s, opts)
	for i, tok := range tokens {
		tokens[i] = fn(tok)
	}
	return tokens
}

// ParseInts converts every token of s to an int. The first token that is not
// a base-10 integer fails the whole list with a *domain.ParseError.
func ParseInts(s string, opts Options) ([]int, error) {
	tokens := Split(s, opts)
	values := make([]int, 0, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, &domain.ParseError{Index: i, Token: tok, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}

// UppercaseTokens splits s and upper-cases every token.
func UppercaseTokens(s string, opts Options) []string {
	return Map(s, opts, caseconv.Upper)
}

// FormatInts renders values as decimal strings.
func FormatInts(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}
