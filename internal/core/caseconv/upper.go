// Package caseconv upper-cases text with full Unicode case mapping.
package caseconv

import (
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// A cases.Caser is stateful and must not be shared between goroutines.
var casers = sync.Pool{
	New: func() interface{} {
		c := cases.Upper(language.Und)
		return &c
	},
}

// Upper returns s upper-cased. Special mappings such as "ß" -> "SS" are applied,
// so the result may be longer than s.
func Upper(s string) string {
	if IsASCII(s) {
		return upperASCII(s)
	}
	c := casers.Get().(*cases.Caser)
	defer casers.Put(c)
	return c.String(s)
}

// IsASCII reports whether s contains only 7-bit characters.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func upperASCII(s string) string {
	first := -1
	for i := 0; i < len(s); i++ {
		if 'a' <= s[i] && s[i] <= 'z' {
			first = i
			break
		}
	}
	if first < 0 {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s[:first])
	for i := first; i < len(s); i++ {
		c := s[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		b[i] = c
	}
	return string(b)
}
