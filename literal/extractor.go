package literal

import (
	"github.com/2win9s/simpleregex/nfa"

	"github.com/2win9s/simpleregex/internal/u8"
)

// Extraction bounds. Hitting any of them either truncates a literal
// (still sound, just less selective) or abandons extraction entirely.
const (
	maxLiterals = 64
	maxLitLen   = 16 // bytes
	maxSteps    = 4096
)

// Extract walks a save-stripped program from its start instruction and
// collects the required match prefixes. It returns nil when no useful
// prefilter exists: an empty prefix is required (the pattern can match
// starting with anything, or match empty), or the walk exceeds its
// budget.
//
// Soundness: when Extract returns a non-nil Seq, every match of the
// program starts with one of its literals.
func Extract(prog *nfa.Program) *Seq {
	e := &extractor{prog: prog, budget: maxSteps}
	e.walk(prog.Start, nil, make(map[uint32]bool))
	if e.failed {
		return nil
	}
	seq := &Seq{Lits: e.lits}
	seq.minimize()
	if seq.Len() == 0 {
		return nil
	}
	return seq
}

type extractor struct {
	prog   *nfa.Program
	lits   []Literal
	budget int
	failed bool
}

// walk explores every path from op, carrying the bytes consumed so far.
// seen guards against epsilon cycles (split loops with no consumption in
// between); it is reset whenever a codepoint is consumed.
func (e *extractor) walk(op uint32, prefix []byte, seen map[uint32]bool) {
	if e.failed {
		return
	}
	e.budget--
	if e.budget < 0 {
		e.failed = true
		return
	}
	inst := &e.prog.Insts[op]
	switch inst.Kind {
	case nfa.OpSplit:
		if seen[op] {
			// Re-entered without consuming: the continuations were
			// already explored with this same prefix.
			return
		}
		seen[op] = true
		e.walk(inst.LB, prefix, seen)
		e.walk(inst.RB, prefix, seen)
		delete(seen, op)
	case nfa.OpChar:
		if len(prefix) >= maxLitLen {
			e.emit(prefix, false)
			return
		}
		next := u8.Append(append([]byte(nil), prefix...), inst.Data)
		e.walk(inst.LB, next, make(map[uint32]bool))
	case nfa.OpClass, nfa.OpAny:
		// The prefix is no longer a fixed byte string past this point.
		e.emit(prefix, false)
	case nfa.OpMatch:
		e.emit(prefix, true)
	}
}

func (e *extractor) emit(prefix []byte, complete bool) {
	if len(prefix) == 0 {
		// A match can start with anything; no prefilter is possible.
		e.failed = true
		return
	}
	if len(e.lits) >= maxLiterals {
		e.failed = true
		return
	}
	e.lits = append(e.lits, Literal{Bytes: prefix, Complete: complete})
}
