package normalizer

import (
	"github.com/baditaflorin/go_allele_names/internal/core/allele"
	"github.com/baditaflorin/go_allele_names/internal/core/caseconv"
	"github.com/baditaflorin/go_allele_names/internal/pool"
	"github.com/baditaflorin/go_allele_names/internal/ports"
)

const (
	actKeep byte = iota
	actUpper
	actStrip
)

const hlaPrefix = "HLA-"

// OptimizedNormalizer produces the same output as DefaultNormalizer using two
// in-place passes over a pooled buffer for ASCII input.
type OptimizedNormalizer struct {
	// Pre-computed decision table for ASCII characters (0-127)
	asciiTable [128]byte

	bytePool *pool.BufferPool
}

// NewOptimizedNormalizer creates a new optimized normalizer
func NewOptimizedNormalizer() ports.Normalizer {
	n := &OptimizedNormalizer{
		bytePool: pool.NewBufferPool(64),
	}
	for i := 'a'; i <= 'z'; i++ {
		n.asciiTable[i] = actUpper
	}
	for _, c := range []byte{'-', '*', ':'} {
		n.asciiTable[c] = actStrip
	}
	return n
}

// Normalize upper-cases name, folds "CW" into "C" and strips "HLA-", "-", "*" and ":".
func (n *OptimizedNormalizer) Normalize(name string) string {
	if len(name) == 0 {
		return ""
	}
	// Unicode case mapping can change byte lengths; leave it to the reference pipeline.
	if !caseconv.IsASCII(name) {
		return allele.Normalize(name)
	}

	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)
	if cap(*buffer) < len(name) {
		*buffer = make([]byte, 0, len(name))
	}
	buf := (*buffer)[:0]

	// Pass 1: upper-case and fold the legacy serotype.
	for i := 0; i < len(name); i++ {
		c := n.upper(name[i])
		if c == 'C' && i+1 < len(name) && n.upper(name[i+1]) == 'W' {
			i++
		}
		buf = append(buf, c)
	}

	// Pass 2: strip in place. The write index never passes the read index.
	w := 0
	for r := 0; r < len(buf); r++ {
		if buf[r] == 'H' && hasPrefixAt(buf, r, hlaPrefix) {
			r += len(hlaPrefix) - 1
			continue
		}
		if n.asciiTable[buf[r]] == actStrip {
			continue
		}
		buf[w] = buf[r]
		w++
	}
	*buffer = buf
	return string(buf[:w])
}

func (n *OptimizedNormalizer) upper(c byte) byte {
	if n.asciiTable[c] == actUpper {
		return c - ('a' - 'A')
	}
	return c
}

func hasPrefixAt(b []byte, at int, prefix string) bool {
	if len(b)-at < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		if b[at+i] != prefix[i] {
			return false
		}
	}
	return true
}
