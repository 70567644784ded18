// Package simpleregex is a regex engine built on Thompson's construction:
// patterns compile to a linear NFA instruction program, matching is a
// breadth-first simulation with linear-time guarantees, and existence
// tests run on a lazily built, cached DFA over the save-stripped program.
//
// Supported syntax: literal codepoints, `.`, `|`, `*`, `+`, `?`, capturing
// `(...)`, classes `[...]` with the ranges a-z, A-Z, 0-9, and `\x` literal
// escapes. Pattern and input must be valid UTF-8; the engine works on
// whole codepoints, so emoji and ASCII match through the same paths.
//
// Basic usage:
//
//	re, err := simpleregex.Compile("(a|b)+c")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ok, _ := re.TestUnanchored([]byte("xx abac yy"))
//	matches, _ := re.MatchUnanchored([]byte("xx abac yy"))
//	for _, m := range matches {
//	    fmt.Printf("%s at %d\n", m.Group(0), m.Start())
//	}
//
// A Regex is not safe for concurrent use: thread lists, the DFA cache and
// the recorded capture vectors are shared scratch. Use one instance per
// goroutine, or guard calls with a mutex.
package simpleregex

import (
	"errors"
	"fmt"

	"github.com/2win9s/simpleregex/dfa/lazy"
	"github.com/2win9s/simpleregex/literal"
	"github.com/2win9s/simpleregex/nfa"
	"github.com/2win9s/simpleregex/prefilter"

	"github.com/2win9s/simpleregex/internal/u8"
)

// Errors surfaced at the API boundary. Compilation and matching errors
// wrap these sentinels, so errors.Is works across the packages involved.
var (
	// ErrInvalidPattern reports a malformed pattern.
	ErrInvalidPattern = nfa.ErrInvalidPattern

	// ErrInvalidUTF8 reports ill-formed bytes in the pattern or input.
	ErrInvalidUTF8 = u8.ErrInvalidUTF8

	// ErrInternal reports a broken engine invariant (a bug).
	ErrInternal = nfa.ErrInternal

	// ErrNoProgram reports a call on an engine whose program was released
	// by FreeMemory(false). Recompile restores it.
	ErrNoProgram = errors.New("no compiled program")
)

// Config configures engine construction.
type Config struct {
	// Cache tunes the lazy DFA used by the existence tests.
	Cache lazy.Config

	// UsePrefilter enables literal extraction and prefiltering for
	// unanchored searches.
	UsePrefilter bool
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Cache:        lazy.DefaultConfig(),
		UsePrefilter: true,
	}
}

// maxCandidates bounds per-candidate verification in prefiltered
// existence tests; past it the test switches to one full DFA scan, which
// avoids quadratic behavior on candidate-dense inputs.
const maxCandidates = 16

// Regex is a compiled pattern with its matching machinery: the capturing
// NFA program and PikeVM, the save-stripped program with its lazy DFA, and
// an optional literal prefilter.
type Regex struct {
	pattern string
	cfg     Config

	prog *nfa.Program
	ruin *nfa.Program
	vm   *nfa.PikeVM
	dfa  *lazy.DFA
	pf   prefilter.Prefilter

	indices [][]int
}

// Compile compiles pattern with the default configuration.
//
// Errors: ErrInvalidPattern for malformed patterns, ErrInvalidUTF8 for
// ill-formed pattern bytes (wrapped in the pattern error).
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern with an explicit configuration.
func CompileWithConfig(pattern string, cfg Config) (*Regex, error) {
	e := &Regex{cfg: cfg}
	if err := e.build(pattern); err != nil {
		return nil, err
	}
	return e, nil
}

// MustCompile is Compile but panics on error, for package-level patterns.
func MustCompile(pattern string) *Regex {
	e, err := Compile(pattern)
	if err != nil {
		panic(fmt.Sprintf("simpleregex: Compile(%q): %v", pattern, err))
	}
	return e
}

func (e *Regex) build(pattern string) error {
	prog, err := nfa.Compile([]byte(pattern))
	if err != nil {
		return err
	}
	ruin, err := prog.Strip()
	if err != nil {
		return err
	}
	d, err := lazy.New(ruin, e.cfg.Cache)
	if err != nil {
		return err
	}
	e.pattern = pattern
	e.prog = prog
	e.ruin = ruin
	e.vm = nfa.NewPikeVM(prog)
	e.dfa = d
	e.pf = nil
	if e.cfg.UsePrefilter {
		e.pf = prefilter.FromSeq(literal.Extract(ruin))
	}
	e.indices = nil
	return nil
}

// Recompile replaces the compiled pattern in place, dropping all cached
// state. On error the engine keeps its previous program.
func (e *Regex) Recompile(pattern string) error {
	return e.build(pattern)
}

// String returns the source pattern.
func (e *Regex) String() string {
	return e.pattern
}

// NumGroups returns the number of capture groups, counting the implicit
// whole-match group 0.
func (e *Regex) NumGroups() int {
	if e.prog == nil {
		return 0
	}
	return e.prog.NumGroups()
}

// DumpProgram renders the compiled instruction list, for debugging.
func (e *Regex) DumpProgram() string {
	if e.prog == nil {
		return ""
	}
	return e.prog.Dump()
}

// CacheStats returns the lazy DFA's cumulative cache counters.
func (e *Regex) CacheStats() lazy.Stats {
	if e.dfa == nil {
		return lazy.Stats{}
	}
	return e.dfa.Stats()
}

// TestAnchored reports whether a match starts at position 0 of text. Runs
// on the lazy DFA; no captures are produced.
//
// Errors: ErrInvalidUTF8 for ill-formed input, ErrNoProgram after
// FreeMemory(false).
func (e *Regex) TestAnchored(text []byte) (bool, error) {
	if e.dfa == nil {
		return false, ErrNoProgram
	}
	return e.dfa.Search(text, false)
}

// TestUnanchored reports whether a match starts anywhere in text. When a
// prefilter exists, only candidate positions are verified; otherwise the
// lazy DFA scans the whole input.
//
// Errors: ErrInvalidUTF8 for ill-formed input, ErrNoProgram after
// FreeMemory(false).
func (e *Regex) TestUnanchored(text []byte) (bool, error) {
	if e.dfa == nil {
		return false, ErrNoProgram
	}
	if e.pf == nil {
		return e.dfa.Search(text, true)
	}
	// The prefilter skips the codec, so check encoding up front to keep
	// failure behavior identical to the unfiltered path.
	if err := u8.Validate(text); err != nil {
		return false, err
	}
	pos := e.pf.Find(text, 0)
	if pos < 0 {
		return false, nil
	}
	if e.pf.IsComplete() {
		return true, nil
	}
	for n := 0; pos >= 0 && n < maxCandidates; n++ {
		ok, err := e.dfa.Search(text[pos:], false)
		if ok || err != nil {
			return ok, err
		}
		pos = e.pf.Find(text, pos+1)
	}
	if pos < 0 {
		return false, nil
	}
	// Candidate-dense input: one linear scan beats quadratic verification.
	return e.dfa.Search(text, true)
}

// MatchAnchored runs the capturing simulation anchored at position 0 and
// returns every accepting path's captures, shortest first. An empty slice
// means no match. The result aliases engine scratch and is valid until the
// next match call.
//
// Errors: ErrInvalidUTF8 for ill-formed input, ErrNoProgram after
// FreeMemory(false).
func (e *Regex) MatchAnchored(text []byte) ([]Match, error) {
	return e.match(text, false)
}

// MatchUnanchored is MatchAnchored with match starts at any position.
// Vectors are ordered by the position where each accepting path fires:
// earlier match ends first, earlier starts breaking ties.
func (e *Regex) MatchUnanchored(text []byte) ([]Match, error) {
	if e.vm != nil && e.pf != nil {
		if err := u8.Validate(text); err != nil {
			return nil, err
		}
		if e.pf.Find(text, 0) < 0 {
			e.indices = nil
			return nil, nil
		}
	}
	return e.match(text, true)
}

func (e *Regex) match(text []byte, unanchored bool) ([]Match, error) {
	if e.vm == nil {
		return nil, ErrNoProgram
	}
	ok, err := e.vm.Search(text, unanchored, false)
	if err != nil {
		return nil, err
	}
	e.indices = e.vm.Matches()
	if !ok {
		return nil, nil
	}
	matches := make([]Match, len(e.indices))
	for i, caps := range e.indices {
		matches[i] = Match{text: text, caps: caps}
	}
	return matches, nil
}

// MatchIndices returns the capture vectors recorded by the last
// MatchAnchored or MatchUnanchored call: one flat
// [start0, end0, start1, end1, ...] per accepting path, byte offsets into
// that call's text, -1 for slots never written.
func (e *Regex) MatchIndices() [][]int {
	return e.indices
}

// FreeMemory releases scratch buffers: thread lists, the DFA state cache,
// and recorded capture vectors. With keepProgram false the compiled
// program goes too, and the engine returns ErrNoProgram until Recompile.
func (e *Regex) FreeMemory(keepProgram bool) {
	if e.vm != nil {
		e.vm.FreeScratch()
	}
	if e.dfa != nil {
		e.dfa.Clear()
	}
	e.indices = nil
	if keepProgram {
		return
	}
	e.prog = nil
	e.ruin = nil
	e.vm = nil
	e.dfa = nil
	e.pf = nil
}

// Match is one accepting path: a capture vector over the searched text.
type Match struct {
	text []byte
	caps []int
}

// Start returns the byte offset where the match begins.
func (m Match) Start() int {
	return m.caps[0]
}

// End returns the byte offset just past the match.
func (m Match) End() int {
	return m.caps[1]
}

// NumGroups returns the number of groups, counting group 0.
func (m Match) NumGroups() int {
	return len(m.caps) / 2
}

// GroupIndex returns the [start, end) byte offsets of group i, or (-1, -1)
// when the group did not participate in the match.
func (m Match) GroupIndex(i int) (int, int) {
	lo, hi := m.caps[2*i], m.caps[2*i+1]
	if lo < 0 || hi < 0 {
		return -1, -1
	}
	return lo, hi
}

// Group returns the text of group i, nil when the group did not
// participate. The slice aliases the searched text.
func (m Match) Group(i int) []byte {
	lo, hi := m.GroupIndex(i)
	if lo < 0 {
		return nil
	}
	return m.text[lo:hi]
}

// String returns the whole match text.
func (m Match) String() string {
	return string(m.Group(0))
}
