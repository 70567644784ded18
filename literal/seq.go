// Package literal extracts required match prefixes from a compiled
// program. A prefilter built from these literals can skip input that
// cannot possibly start a match.
package literal

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Literal is one required prefix. When Complete, an occurrence of the
// literal is itself a full match, so a prefilter hit needs no
// verification for existence tests.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// Seq is a set of literals with the property that every match of the
// pattern starts with one of them.
type Seq struct {
	Lits []Literal

	// Complete is true when every literal is Complete, i.e. a candidate
	// found by any of them is a real match.
	Complete bool
}

// Len returns the number of literals.
func (s *Seq) Len() int {
	return len(s.Lits)
}

// MinLen returns the length of the shortest literal, 0 for an empty
// sequence.
func (s *Seq) MinLen() int {
	if len(s.Lits) == 0 {
		return 0
	}
	min := len(s.Lits[0].Bytes)
	for _, l := range s.Lits[1:] {
		if len(l.Bytes) < min {
			min = len(l.Bytes)
		}
	}
	return min
}

// minimize sorts, deduplicates, and drops every literal that has another
// literal as a prefix: the shorter one already covers all its candidate
// positions. The covering property is preserved; Complete is recomputed
// over the survivors.
func (s *Seq) minimize() {
	if len(s.Lits) == 0 {
		return
	}
	sort.Slice(s.Lits, func(i, j int) bool {
		return bytes.Compare(s.Lits[i].Bytes, s.Lits[j].Bytes) < 0
	})
	out := s.Lits[:0]
	for _, l := range s.Lits {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if bytes.HasPrefix(l.Bytes, prev.Bytes) {
				if bytes.Equal(l.Bytes, prev.Bytes) {
					// Same bytes: complete if any path says so.
					prev.Complete = prev.Complete || l.Complete
				}
				continue
			}
		}
		out = append(out, l)
	}
	s.Lits = out
	s.Complete = true
	for _, l := range s.Lits {
		if !l.Complete {
			s.Complete = false
			break
		}
	}
}

// String renders the sequence for debugging.
func (s *Seq) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, l := range s.Lits {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q", l.Bytes)
		if l.Complete {
			b.WriteByte('!')
		}
	}
	b.WriteByte(']')
	return b.String()
}
