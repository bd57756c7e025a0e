// Package normalize cleans free text before it is stored in the catalog
// Pipeline order
// 1 Sanitize drop controls and invalid UTF-8
// 2 Unicode NFC composition
// 3 Remove format chars such as ZWSP and BOM
// 4 Collapse whitespace, keeping line breaks in Text mode, and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Mode selects how whitespace is collapsed
type Mode uint8

const (
	// Line collapses every whitespace run, line breaks included, to one space
	Line Mode = iota
	// Block keeps line breaks, collapsing runs with a newline to one newline
	Block
)

// Normalizer is safe for concurrent use; transformers come from a pool
type Normalizer struct{}

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFC,
			runes.Remove(runes.In(unicode.Cf)), // ZWJ ZWNJ FEFF etc
		)
	},
}

// New constructs a Normalizer
func New() *Normalizer { return &Normalizer{} }

// Normalize returns the cleaned form of s for the given mode
// Case and punctuation are preserved
func (n *Normalizer) Normalize(s string, mode Mode) string {
	if s == "" {
		return ""
	}

	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		ns = s
	}

	if mode == Line {
		return strings.Join(strings.Fields(ns), " ")
	}
	return collapseSpaces(ns)
}

// collapseSpaces collapses whitespace within each line to one space and
// every run of line breaks, blank lines included, to one newline
func collapseSpaces(s string) string {
	lines := strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' })
	kept := lines[:0]
	for _, ln := range lines {
		if f := strings.Fields(ln); len(f) > 0 {
			kept = append(kept, strings.Join(f, " "))
		}
	}
	return strings.Join(kept, "\n")
}
