package nfa

import (
	"fmt"
	"strings"

	"github.com/2win9s/simpleregex/internal/conv"
	"github.com/2win9s/simpleregex/internal/u8"
	"github.com/2win9s/simpleregex/internal/u8set"
)

// Op identifies an instruction kind.
type Op uint8

// Instruction kinds
const (
	// OpChar matches one literal codepoint (Data, packed UTF-8) and jumps to LB
	OpChar Op = iota
	// OpClass matches any codepoint in class table entry Data and jumps to LB
	OpClass
	// OpAny matches any single codepoint and jumps to LB
	OpAny
	// OpSplit forks execution to both LB and RB without consuming input
	OpSplit
	// OpSave records the current position in capture slot Data and jumps to LB
	OpSave
	// OpMatch accepts; always the last instruction of a program
	OpMatch
)

func (op Op) String() string {
	switch op {
	case OpChar:
		return "char"
	case OpClass:
		return "class"
	case OpAny:
		return "any"
	case OpSplit:
		return "split"
	case OpSave:
		return "save"
	case OpMatch:
		return "match"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// InvalidRef marks an unresolved jump target. Compilation patches every
// dangling edge before returning, so a finished Program never contains it.
const InvalidRef uint32 = 0xFFFFFFFF

// Inst is one NFA instruction. Data is the operand (packed codepoint,
// class-table index, or capture slot). LB is the jump target; RB is the
// second branch of OpSplit and unused otherwise.
type Inst struct {
	Kind Op
	Data uint32
	LB   uint32
	RB   uint32
}

// Program is a compiled pattern: a flat instruction list plus the character
// class table it references.
//
// Invariants: exactly one OpMatch, and it is the last instruction; OpSave
// slots are even for group opens and odd for group closes, with slots 0 and
// 1 bracketing the whole match.
type Program struct {
	Insts   []Inst
	Classes []*u8set.Set

	// Start is the entry instruction. Zero for a freshly compiled program;
	// a stripped program starts past the leading save chain.
	Start uint32

	// Slots is the number of capture slots: 2 + 2 per group.
	Slots int
}

// NumGroups returns the number of capture groups, counting the implicit
// whole-match group 0.
func (p *Program) NumGroups() int {
	return p.Slots / 2
}

// MatchIdx returns the index of the OpMatch instruction.
func (p *Program) MatchIdx() uint32 {
	return conv.IntToUint32(len(p.Insts) - 1)
}

// Strip returns a copy of the program with every OpSave removed and all
// edges retargeted past the deleted instructions. The DFA runs the stripped
// program: it answers existence only, so capture bookkeeping is dead weight
// there. The class table is shared with the original.
//
// Errors: ErrInternal if a save chain forms a cycle, which a compiled
// program cannot contain.
func (p *Program) Strip() (*Program, error) {
	remap := make([]uint32, len(p.Insts))
	n := uint32(0)
	for i, inst := range p.Insts {
		remap[i] = n
		if inst.Kind != OpSave {
			n++
		}
	}

	// resolve chases a target through consecutive saves to the first
	// instruction that survives.
	resolve := func(idx uint32) (uint32, error) {
		for steps := 0; ; steps++ {
			if steps > len(p.Insts) {
				return 0, fmt.Errorf("%w: save chain does not terminate", ErrInternal)
			}
			if p.Insts[idx].Kind != OpSave {
				return remap[idx], nil
			}
			idx = p.Insts[idx].LB
		}
	}

	out := &Program{
		Insts:   make([]Inst, 0, n),
		Classes: p.Classes,
	}
	for _, inst := range p.Insts {
		if inst.Kind == OpSave {
			continue
		}
		ni := inst
		if ni.LB != InvalidRef {
			t, err := resolve(ni.LB)
			if err != nil {
				return nil, err
			}
			ni.LB = t
		}
		if ni.Kind == OpSplit {
			t, err := resolve(ni.RB)
			if err != nil {
				return nil, err
			}
			ni.RB = t
		}
		out.Insts = append(out.Insts, ni)
	}
	start, err := resolve(p.Start)
	if err != nil {
		return nil, err
	}
	out.Start = start
	return out, nil
}

// Dump renders the program as one instruction per line, followed by the
// class table. Intended for debugging and tests.
func (p *Program) Dump() string {
	var b strings.Builder
	for i, inst := range p.Insts {
		fmt.Fprintf(&b, "[%3d] ", i)
		switch inst.Kind {
		case OpChar:
			fmt.Fprintf(&b, "char %q\tjmp %d", u8.Append(nil, inst.Data), inst.LB)
		case OpClass:
			fmt.Fprintf(&b, "class %d\tjmp %d", inst.Data, inst.LB)
		case OpAny:
			fmt.Fprintf(&b, "any\tjmp %d", inst.LB)
		case OpSplit:
			fmt.Fprintf(&b, "split %d, %d", inst.LB, inst.RB)
		case OpSave:
			fmt.Fprintf(&b, "save %d\tjmp %d", inst.Data, inst.LB)
		case OpMatch:
			b.WriteString("match")
		}
		b.WriteByte('\n')
	}
	for i, cls := range p.Classes {
		fmt.Fprintf(&b, "class %d = [%s]\n", i, cls)
	}
	return b.String()
}
