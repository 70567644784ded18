// Package prefilter accelerates unanchored searches by scanning for
// literal prefixes extracted from the pattern, so the engine only runs the
// automaton at positions where a match can start.
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/2win9s/simpleregex/literal"
	"github.com/2win9s/simpleregex/simd"
)

// Prefilter finds candidate match start positions.
type Prefilter interface {
	// Find returns the index of the first candidate at or after start, or
	// -1. A candidate is a position where a full match may begin; unless
	// IsComplete reports true, the caller must verify it with the real
	// engine.
	Find(haystack []byte, start int) int

	// IsComplete reports whether a candidate is itself a whole match, so
	// existence tests can skip verification.
	IsComplete() bool

	// LiteralLen returns the length of the shortest literal this
	// prefilter searches for.
	LiteralLen() int
}

// FromSeq builds the cheapest prefilter able to serve seq: memchr for one
// single-byte literal, memmem for one longer literal, an Aho-Corasick
// automaton for alternations. Returns nil when seq is nil, empty, or the
// automaton cannot be built.
func FromSeq(seq *literal.Seq) Prefilter {
	if seq == nil || seq.Len() == 0 {
		return nil
	}
	if seq.Len() == 1 {
		lit := seq.Lits[0]
		if len(lit.Bytes) == 1 {
			return &memchrPrefilter{needle: lit.Bytes[0], complete: lit.Complete}
		}
		return &memmemPrefilter{needle: lit.Bytes, complete: lit.Complete}
	}
	builder := ahocorasick.NewBuilder()
	for _, lit := range seq.Lits {
		builder.AddPattern(lit.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoPrefilter{auto: auto, complete: seq.Complete, minLen: seq.MinLen()}
}

// memchrPrefilter scans for a single byte with the SWAR kernel.
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := simd.Memchr(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }
func (p *memchrPrefilter) LiteralLen() int  { return 1 }

// memmemPrefilter scans for one multi-byte literal.
type memmemPrefilter struct {
	needle   []byte
	complete bool
}

func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start >= len(haystack) {
		return -1
	}
	i := simd.Memmem(haystack[start:], p.needle)
	if i < 0 {
		return -1
	}
	return start + i
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }
func (p *memmemPrefilter) LiteralLen() int  { return len(p.needle) }

// ahoPrefilter scans for any of several literals in one pass.
type ahoPrefilter struct {
	auto     *ahocorasick.Automaton
	complete bool
	minLen   int
}

func (p *ahoPrefilter) Find(haystack []byte, start int) int {
	if start > len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoPrefilter) IsComplete() bool { return p.complete }
func (p *ahoPrefilter) LiteralLen() int  { return p.minLen }
