// allele_names.go
// Package allelenames provides helpers for comma-separated lists used when
// describing MHC binding data: integer lists, peptide sequence lists and
// HLA allele names.
//
// Allele names are normalized by upper-casing, folding the legacy "Cw"
// serotype prefix into "C" and stripping "HLA-", "-", "*" and ":":
//
//	NormalizeAlleleName("HLA-A*02:01") == "A0201"
//	NormalizeAlleleName("Cw*01:02")    == "C0102"
//
// For configurable separators, pluggable normalizers, logging and stream
// processing see the pkg/alleles package.
package allelenames

import (
	"github.com/baditaflorin/go_allele_names/internal/core/allele"
	"github.com/baditaflorin/go_allele_names/internal/core/commalist"
)

// ParseIntList splits s on commas, trims each token and converts it to an int.
// If any token is not a base-10 integer the returned error is a *ParseError.
func ParseIntList(s string) ([]int, error) {
	return commalist.ParseInts(s, commalist.DefaultOptions())
}

// SplitUppercaseSequences splits s on commas, trims each token and upper-cases it.
// An empty string yields a single empty token.
func SplitUppercaseSequences(s string) []string {
	return commalist.UppercaseTokens(s, commalist.DefaultOptions())
}

// NormalizeAlleleName upper-cases name, replaces "CW" with "C" and then removes
// every "HLA-", "-", "*" and ":" in that order. The result is not validated.
func NormalizeAlleleName(name string) string {
	return allele.Normalize(name)
}

// SplitAlleleNames splits s on commas, trims each token and normalizes it with
// NormalizeAlleleName.
func SplitAlleleNames(s string) []string {
	return allele.SplitNames(s, commalist.DefaultOptions(), allele.Normalize)
}
