package nfa

import (
	"fmt"

	"github.com/2win9s/simpleregex/internal/u8"
)

// thread is one live simulation path: an instruction pointer plus its
// capture vector. Capture vectors are shared between threads and cloned
// copy-on-write at each OpSave, so a recorded vector is never mutated
// afterwards.
type thread struct {
	op   uint32
	caps []int
}

// PikeVM runs a Program breadth-first over the input, all threads in lock
// step one codepoint at a time. Runtime is O(len(input) * len(program))
// regardless of the pattern. Scratch buffers are reused across searches;
// a PikeVM is not safe for concurrent use.
type PikeVM struct {
	prog *Program

	cur, nxt []thread
	// gen[op] is the id of the last thread list op was added to. Each
	// list gets a fresh id, deduplicating threads within one list without
	// a per-position clear.
	gen    []int64
	nextID int64
	stack  []thread

	matches [][]int
}

// NewPikeVM returns a VM for prog.
func NewPikeVM(prog *Program) *PikeVM {
	return &PikeVM{prog: prog}
}

// Matches returns the capture vectors recorded by the last Search, one per
// accepting thread in firing order (earlier positions first; at equal
// positions, earlier-spawned threads first). Each vector is
// [start0, end0, start1, end1, ...] with -1 for slots never written.
// Valid until the next Search.
func (v *PikeVM) Matches() [][]int {
	return v.matches
}

func (v *PikeVM) freshCaps() []int {
	caps := make([]int, v.prog.Slots)
	for i := range caps {
		caps[i] = -1
	}
	return caps
}

// add performs epsilon closure from op into list, recording position pos at
// each save passed. listID deduplicates: an op already in this list is
// skipped, so the first (highest-priority) path to it wins.
func (v *PikeVM) add(list []thread, listID int64, op uint32, caps []int, pos int) []thread {
	// Explicit work stack; split pushes rb first so lb is explored first.
	v.stack = v.stack[:0]
	v.stack = append(v.stack, thread{op: op, caps: caps})
	for len(v.stack) > 0 {
		t := v.stack[len(v.stack)-1]
		v.stack = v.stack[:len(v.stack)-1]
		if v.gen[t.op] == listID {
			continue
		}
		v.gen[t.op] = listID
		inst := &v.prog.Insts[t.op]
		switch inst.Kind {
		case OpSplit:
			v.stack = append(v.stack, thread{op: inst.RB, caps: t.caps})
			v.stack = append(v.stack, thread{op: inst.LB, caps: t.caps})
		case OpSave:
			caps := append([]int(nil), t.caps...)
			caps[inst.Data] = pos
			v.stack = append(v.stack, thread{op: inst.LB, caps: caps})
		default:
			list = append(list, t)
		}
	}
	return list
}

// Search runs the program over text. When unanchored, a fresh start thread
// is seeded at every position. When firstOnly, the search stops at the end
// of the first position where a thread accepts; otherwise it runs the input
// to completion and records every accepting thread's captures, retrievable
// via Matches.
//
// Errors: u8.ErrInvalidUTF8 if text is ill-formed. Position state from a
// failed search is discarded.
func (v *PikeVM) Search(text []byte, unanchored, firstOnly bool) (bool, error) {
	if v.gen == nil {
		v.gen = make([]int64, len(v.prog.Insts))
		for i := range v.gen {
			v.gen[i] = -1
		}
	}
	v.cur = v.cur[:0]
	v.nxt = v.nxt[:0]
	v.matches = v.matches[:0]

	curID := v.nextID
	v.nextID++
	v.cur = v.add(v.cur, curID, v.prog.Start, v.freshCaps(), 0)

	matched := false
	for i := 0; i < len(text); {
		c, w, err := u8.Decode(text, i)
		if err != nil {
			return false, fmt.Errorf("input at offset %d: %w", i, err)
		}
		if unanchored && i > 0 {
			v.cur = v.add(v.cur, curID, v.prog.Start, v.freshCaps(), i)
		}

		nxtID := v.nextID
		v.nextID++
		for j := 0; j < len(v.cur); j++ {
			t := v.cur[j]
			inst := &v.prog.Insts[t.op]
			switch inst.Kind {
			case OpChar:
				if inst.Data == c {
					v.nxt = v.add(v.nxt, nxtID, inst.LB, t.caps, i+w)
				}
			case OpClass:
				if v.prog.Classes[inst.Data].Contains(c) {
					v.nxt = v.add(v.nxt, nxtID, inst.LB, t.caps, i+w)
				}
			case OpAny:
				v.nxt = v.add(v.nxt, nxtID, inst.LB, t.caps, i+w)
			case OpMatch:
				matched = true
				v.matches = append(v.matches, t.caps)
			}
		}
		v.cur, v.nxt = v.nxt, v.cur[:0]
		curID = nxtID
		i += w

		if firstOnly && matched {
			return true, nil
		}
		if !unanchored && len(v.cur) == 0 {
			break
		}
	}

	for _, t := range v.cur {
		if v.prog.Insts[t.op].Kind == OpMatch {
			matched = true
			v.matches = append(v.matches, t.caps)
		}
	}
	return matched, nil
}

// FreeScratch drops the thread lists and generation marks, keeping the
// program. The next Search reallocates them.
func (v *PikeVM) FreeScratch() {
	v.cur, v.nxt, v.gen, v.stack, v.matches = nil, nil, nil, nil, nil
	v.nextID = 0
}
