package caseconv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpper(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"already upper", "HLA-A*02:01", "HLA-A*02:01"},
		{"ascii lower", "hla-a*02:01", "HLA-A*02:01"},
		{"mixed", "Cw*01:02", "CW*01:02"},
		{"sharp s expands", "straße", "STRASSE"},
		{"greek", "αβγ", "ΑΒΓ"},
		{"non-letters untouched", "12-34_", "12-34_"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Upper(tc.in))
		})
	}
}

func TestIsASCII(t *testing.T) {
	assert.True(t, IsASCII(""))
	assert.True(t, IsASCII("HLA-A*02:01"))
	assert.False(t, IsASCII("é"))
}
