// Package allele normalizes HLA allele names into a compact comparable form,
// e.g. "HLA-A*02:01" -> "A0201".
package allele

import (
	"strings"

	"github.com/baditaflorin/go_allele_names/internal/core/caseconv"
	"github.com/baditaflorin/go_allele_names/internal/core/commalist"
)

// Legacy HLA-C serotypes are written "Cw"; after upper-casing they fold to "C".
const (
	LegacySerotype = "CW"
	ModernSerotype = "C"
)

// StripPatterns are removed in this order after the serotype fold.
var StripPatterns = []string{"HLA-", "-", "*", ":"}

// Normalize upper-cases name, folds "CW" into "C" and strips StripPatterns.
// It is plain text substitution; the result is not validated.
func Normalize(name string) string {
	name = caseconv.Upper(name)
	name = strings.ReplaceAll(name, LegacySerotype, ModernSerotype)
	for _, p := range StripPatterns {
		name = strings.ReplaceAll(name, p, "")
	}
	return name
}

// SplitNames normalizes every token of a comma-separated list of names.
func SplitNames(s string, opts commalist.Options, normalize func(string) string) []string {
	if normalize == nil {
		normalize = Normalize
	}
	return commalist.Map(s, opts, normalize)
}
