// Package lazy implements an on-demand DFA over a save-stripped NFA
// program, for anchored and unanchored existence tests.
//
// DFA states are epsilon-closed subsets of NFA instructions, built and
// cached only as the input demands them. The cache is a small FIFO ring;
// patterns that churn through more states than it holds degrade first by
// resetting the cache and finally by surrendering to plain subset
// simulation for the rest of the search, so the test never fails, it only
// slows down.
package lazy

import (
	"fmt"

	"github.com/2win9s/simpleregex/nfa"

	"github.com/2win9s/simpleregex/internal/sparse"
	"github.com/2win9s/simpleregex/internal/u8"
	"github.com/2win9s/simpleregex/internal/u8set"
)

// DFA answers existence tests over one compiled program. Not safe for
// concurrent use; scratch state and the cache are shared across calls.
type DFA struct {
	prog *nfa.Program
	cfg  Config

	cache    *cache
	startOps *sparse.Set

	// per-search degradation counters
	overflowC   int
	rebuildC    int
	surrendered bool

	// scratch
	work   []uint32
	subset *sparse.Set
}

// New builds a DFA for prog, which must be a save-stripped program (see
// nfa.Program.Strip).
//
// Errors: ErrInvalidConfig if cfg fails validation, a DFAError of kind
// Internal if prog still contains save instructions.
func New(prog *nfa.Program, cfg Config) (*DFA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i, inst := range prog.Insts {
		if inst.Kind == nfa.OpSave {
			return nil, &DFAError{Kind: Internal, Message: fmt.Sprintf("program not stripped: save at %d", i)}
		}
	}
	d := &DFA{
		prog:     prog,
		cfg:      cfg,
		cache:    newCache(cfg.CacheSize),
		startOps: sparse.NewSet(len(prog.Insts)),
		subset:   sparse.NewSet(len(prog.Insts)),
	}
	d.close(d.startOps, prog.Start)
	return d, nil
}

// Stats returns cumulative cache counters.
func (d *DFA) Stats() Stats {
	return d.cache.stats
}

// Clear drops all cached states and statistics, keeping the compiled
// program.
func (d *DFA) Clear() {
	d.cache = newCache(d.cfg.CacheSize)
}

// close epsilon-expands from op into set, following split branches.
func (d *DFA) close(set *sparse.Set, op uint32) {
	d.work = append(d.work[:0], op)
	for len(d.work) > 0 {
		op := d.work[len(d.work)-1]
		d.work = d.work[:len(d.work)-1]
		if set.Contains(op) {
			continue
		}
		set.Insert(op)
		if inst := &d.prog.Insts[op]; inst.Kind == nfa.OpSplit {
			d.work = append(d.work, inst.RB, inst.LB)
		}
	}
}

// find returns the cached state for ops, creating and inserting it on a
// miss. ok is false when inserting pushed the cache over its rebuild
// limit; the caller must fall back to subset iteration.
func (d *DFA) find(ops *sparse.Set) (*state, bool) {
	if st, hit := d.cache.index[ops.Key()]; hit {
		d.cache.stats.Hits++
		return st, true
	}
	d.cache.stats.Misses++
	st := &state{
		ops:    ops.Clone(),
		filter: u8set.NewSet(),
		next:   u8set.NewRefMap(),
		match:  ops.Contains(d.prog.MatchIdx()),
	}
	for _, op := range st.ops.Values() {
		switch inst := &d.prog.Insts[op]; inst.Kind {
		case nfa.OpChar:
			st.filter.Insert(inst.Data)
		case nfa.OpClass:
			st.filter.Union(d.prog.Classes[inst.Data])
		}
	}
	return st, d.insert(st)
}

func (d *DFA) insert(st *state) bool {
	if !d.cache.insert(st) {
		return true
	}
	// insert evicted: count it against the degradation budget
	d.overflowC++
	if d.overflowC < d.cfg.OverflowLimit {
		return true
	}
	d.cache.reset()
	d.overflowC = 0
	d.rebuildC++
	if d.rebuildC >= d.cfg.RebuildLimit {
		d.surrendered = true
		return false
	}
	d.cache.insert(st)
	return true
}

// step resolves the transition out of cur on codepoint c, deriving and
// caching it on a miss. A nil state with ok true is the dead transition
// (empty subset); ok false means the cache surrendered.
func (d *DFA) step(cur *state, c uint32) (*state, bool) {
	specific := cur.filter.Contains(c)
	var serial uint32
	var resolved bool
	if specific {
		serial, resolved = cur.next.Get(c)
	} else {
		serial, resolved = cur.next.Wildcard()
	}
	if resolved {
		if serial == deadSerial {
			return nil, true
		}
		if st, live := d.cache.live[serial]; live {
			d.cache.stats.Hits++
			return st, true
		}
		// target evicted since this entry was written; re-derive
	}

	d.subset.Clear()
	for _, op := range cur.ops.Values() {
		switch inst := &d.prog.Insts[op]; inst.Kind {
		case nfa.OpChar:
			if inst.Data == c {
				d.close(d.subset, inst.LB)
			}
		case nfa.OpClass:
			if d.prog.Classes[inst.Data].Contains(c) {
				d.close(d.subset, inst.LB)
			}
		case nfa.OpAny:
			d.close(d.subset, inst.LB)
		}
	}

	if d.subset.Len() == 0 {
		if specific {
			cur.next.Set(c, deadSerial)
		} else {
			cur.next.SetWildcard(deadSerial)
		}
		return nil, true
	}
	st, ok := d.find(d.subset)
	if !ok {
		return nil, false
	}
	if specific {
		cur.next.Set(c, st.serial)
	} else {
		cur.next.SetWildcard(st.serial)
	}
	return st, true
}

// unionStart folds the start subset into cur, for unanchored searches.
func (d *DFA) unionStart(cur *state) (*state, bool) {
	d.subset.CopyFrom(cur.ops)
	d.subset.Union(d.startOps)
	if d.subset.Len() == cur.ops.Len() {
		return cur, true
	}
	return d.find(d.subset)
}

// Search reports whether the program matches text, anchored at position 0
// or anywhere. The degradation budget (overflow and rebuild counters)
// resets at every call; cached states persist across calls.
//
// Errors: u8.ErrInvalidUTF8 if text is ill-formed.
func (d *DFA) Search(text []byte, unanchored bool) (bool, error) {
	d.overflowC, d.rebuildC, d.surrendered = 0, 0, false

	cur, ok := d.find(d.startOps)
	if !ok {
		return d.iterate(text, 0, d.startOps, unanchored)
	}
	if cur.match {
		return true, nil
	}
	for i := 0; i < len(text); {
		c, w, err := u8.Decode(text, i)
		if err != nil {
			return false, fmt.Errorf("input at offset %d: %w", i, err)
		}
		if unanchored && i > 0 {
			cur, ok = d.unionStart(cur)
			if !ok {
				return d.iterate(text, i, d.subset, unanchored)
			}
		}
		nxt, ok := d.step(cur, c)
		if !ok {
			return d.iterate(text, i, cur.ops, unanchored)
		}
		i += w
		if nxt == nil {
			if !unanchored {
				return false, nil
			}
			// Dead in unanchored mode just means no live thread; reseed
			// from the start state at the next position.
			cur, ok = d.find(d.startOps)
			if !ok {
				return d.iterate(text, i, d.startOps, unanchored)
			}
			continue
		}
		cur = nxt
		if cur.match {
			return true, nil
		}
	}
	return false, nil
}

// iterate is the surrendered path: plain subset simulation from position i
// with no caching. ops is the live subset at i.
func (d *DFA) iterate(text []byte, i int, ops *sparse.Set, unanchored bool) (bool, error) {
	matchIdx := d.prog.MatchIdx()
	cur := ops.Clone()
	nxt := sparse.NewSet(len(d.prog.Insts))
	for i < len(text) {
		if unanchored {
			cur.Union(d.startOps)
		}
		if cur.Contains(matchIdx) {
			return true, nil
		}
		c, w, err := u8.Decode(text, i)
		if err != nil {
			return false, fmt.Errorf("input at offset %d: %w", i, err)
		}
		nxt.Clear()
		for _, op := range cur.Values() {
			switch inst := &d.prog.Insts[op]; inst.Kind {
			case nfa.OpChar:
				if inst.Data == c {
					d.close(nxt, inst.LB)
				}
			case nfa.OpClass:
				if d.prog.Classes[inst.Data].Contains(c) {
					d.close(nxt, inst.LB)
				}
			case nfa.OpAny:
				d.close(nxt, inst.LB)
			}
		}
		cur, nxt = nxt, cur
		i += w
		if !unanchored && cur.Len() == 0 {
			return false, nil
		}
	}
	if unanchored {
		cur.Union(d.startOps)
	}
	return cur.Contains(matchIdx), nil
}
