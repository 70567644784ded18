package nfa

import (
	"github.com/2win9s/simpleregex/internal/conv"
	"github.com/2win9s/simpleregex/internal/u8"
	"github.com/2win9s/simpleregex/internal/u8set"
)

// Pattern metacharacters: ( ) [ ] | ? * + . and backslash escapes. The NUL
// byte is reserved as the implicit concatenation operator and is stripped
// from input patterns before tokenizing.

// tokenize copies the pattern, validating UTF-8 and bracket classes, and
// inserts NUL concatenation operators between adjacent atoms. Character
// classes are carried through verbatim as a `[...]` run; escapes as a
// backslash plus one codepoint.
func tokenize(pattern []byte) ([]byte, error) {
	src := make([]byte, 0, len(pattern))
	for _, b := range pattern {
		if b != 0 {
			src = append(src, b)
		}
	}

	out := make([]byte, 0, 2*len(src))
	for i := 0; i < len(src); {
		switch src[i] {
		case '(', '|':
			// Prefix context: nothing concatenates onto these.
			out = append(out, src[i])
			i++
			continue
		case '[':
			j := i + 1
			for j < len(src) && src[j] != ']' {
				j++
			}
			if j == len(src) {
				return nil, parseErr(pattern, i, "character class not terminated")
			}
			out = append(out, src[i:j+1]...)
			i = j + 1
		case ']':
			return nil, parseErr(pattern, i, "stray ] outside character class")
		case '\\':
			if i+1 == len(src) {
				return nil, parseErr(pattern, i, "trailing escape")
			}
			_, w, err := u8.Decode(src, i+1)
			if err != nil {
				return nil, parseErr(pattern, i+1, "escape: %v", err)
			}
			out = append(out, src[i:i+1+w]...)
			i += 1 + w
		default:
			_, w, err := u8.Decode(src, i)
			if err != nil {
				return nil, parseErr(pattern, i, "%v", err)
			}
			out = append(out, src[i:i+w]...)
			i += w
		}
		// An atom (or a group close / quantifier) just ended. Unless the
		// next token is an infix or postfix operator, a new atom starts
		// and the two are concatenated.
		if i < len(src) {
			switch src[i] {
			case ')', '|', '?', '*', '+':
			default:
				out = append(out, 0)
			}
		}
	}
	return out, nil
}

func prec(op byte) int {
	switch op {
	case '\\':
		return 100
	case '(':
		return 90
	case '[':
		return 80
	case '?', '*', '+':
		return 70
	case 0:
		return 60
	case '|':
		return 50
	}
	return 0
}

// reorder converts the token stream to postfix with a shunting yard.
// Parentheses survive into the output (the compiler turns them into SAVE
// instructions); escapes and classes pass through as opaque runs.
func reorder(pattern, tok []byte) ([]byte, error) {
	out := make([]byte, 0, len(tok))
	var ops []byte
	for i := 0; i < len(tok); {
		switch c := tok[i]; c {
		case '\\':
			_, w, err := u8.Decode(tok, i+1)
			if err != nil {
				return nil, parseErr(pattern, i, "escape: %v", err)
			}
			out = append(out, tok[i:i+1+w]...)
			i += 1 + w
		case '[':
			j := i + 1
			for j < len(tok) && tok[j] != ']' {
				j++
			}
			if j == len(tok) {
				return nil, parseErr(pattern, i, "character class not terminated")
			}
			out = append(out, tok[i:j+1]...)
			i = j + 1
		case '(':
			out = append(out, '(')
			ops = append(ops, '(')
			i++
		case ')':
			for len(ops) > 0 && ops[len(ops)-1] != '(' {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			if len(ops) == 0 {
				return nil, parseErr(pattern, i, "unmatched )")
			}
			ops = ops[:len(ops)-1]
			out = append(out, ')')
			i++
		case '?', '*', '+', 0, '|':
			for len(ops) > 0 && ops[len(ops)-1] != '(' && prec(c) <= prec(ops[len(ops)-1]) {
				out = append(out, ops[len(ops)-1])
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, c)
			i++
		default:
			_, w, err := u8.Decode(tok, i)
			if err != nil {
				return nil, parseErr(pattern, i, "%v", err)
			}
			out = append(out, tok[i:i+w]...)
			i += w
		}
	}
	for len(ops) > 0 {
		op := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if op == '(' {
			return nil, parseErr(pattern, -1, "unmatched (")
		}
		out = append(out, op)
	}
	return out, nil
}

// parseClass builds the member set for a bracket expression. i indexes the
// first byte after '['. The named ranges a-z, A-Z and 0-9 expand; every
// other codepoint, multi-byte included, is a literal member. ']' always
// terminates the class and cannot be a member.
func parseClass(pattern, post []byte, i int) (*u8set.Set, int, error) {
	set := u8set.NewSet()
	for i < len(post) && post[i] != ']' {
		if i+2 < len(post) && post[i+1] == '-' {
			switch {
			case post[i] == 'a' && post[i+2] == 'z':
				set.InsertByteRange('a', 'z')
				i += 3
				continue
			case post[i] == 'A' && post[i+2] == 'Z':
				set.InsertByteRange('A', 'Z')
				i += 3
				continue
			case post[i] == '0' && post[i+2] == '9':
				set.InsertByteRange('0', '9')
				i += 3
				continue
			}
		}
		c, w, err := u8.Decode(post, i)
		if err != nil {
			return nil, 0, parseErr(pattern, i, "character class: %v", err)
		}
		set.Insert(c)
		i += w
	}
	if i == len(post) {
		return nil, 0, parseErr(pattern, -1, "character class not terminated")
	}
	return set, i + 1, nil
}

// patchRef is one dangling edge: the lb (or, for a split, rb) slot of an
// emitted instruction whose target is not yet known.
type patchRef struct {
	inst uint32
	rb   bool
}

// frag is a partially built sub-automaton: an entry instruction plus the
// dangling edges leaving it.
type frag struct {
	start    uint32
	dangling []patchRef
}

type compiler struct {
	pattern []byte
	insts   []Inst
	classes []*u8set.Set
	stack   []frag
}

// groupMark records an open capture group: its open slot and the fragment
// stack length with the group's save fragment on top. Fragments at or
// below depth belong to the enclosing context, so operators inside the
// group must not consume them.
type groupMark struct {
	slot  uint32
	depth int
}

func (c *compiler) emit(kind Op, data uint32) uint32 {
	c.insts = append(c.insts, Inst{Kind: kind, Data: data, LB: InvalidRef, RB: InvalidRef})
	return conv.IntToUint32(len(c.insts) - 1)
}

// patch plants target into every dangling edge of f and empties the list.
func (c *compiler) patch(f *frag, target uint32) {
	for _, r := range f.dangling {
		if r.rb {
			c.insts[r.inst].RB = target
		} else {
			c.insts[r.inst].LB = target
		}
	}
	f.dangling = f.dangling[:0]
}

func (c *compiler) pushAtom(idx uint32) {
	c.stack = append(c.stack, frag{start: idx, dangling: []patchRef{{inst: idx}}})
}

func (c *compiler) top() *frag {
	return &c.stack[len(c.stack)-1]
}

// Compile builds the NFA program for a pattern.
//
// Supported syntax: literal codepoints, `.` (any codepoint), `[...]`
// classes with the ranges a-z, A-Z and 0-9, alternation `|`, grouping and
// capturing `(...)`, the quantifiers `?`, `*`, `+`, and `\` escaping the
// following codepoint. The empty pattern compiles and matches empty text.
//
// Errors: ErrInvalidPattern (via ParseError) for malformed patterns,
// u8.ErrInvalidUTF8 wrapped within it for ill-formed pattern bytes.
//
// Example:
//
//	prog, err := nfa.Compile([]byte(`(a|b)+c`))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(prog.Dump())
func Compile(pattern []byte) (*Program, error) {
	tok, err := tokenize(pattern)
	if err != nil {
		return nil, err
	}
	post, err := reorder(pattern, tok)
	if err != nil {
		return nil, err
	}

	c := &compiler{pattern: pattern}
	s0 := c.emit(OpSave, 0)
	c.stack = append(c.stack, frag{start: s0, dangling: []patchRef{{inst: s0}}})

	nextSlot := uint32(2)
	var groups []groupMark
	floor := func() int {
		if len(groups) > 0 {
			return groups[len(groups)-1].depth
		}
		return 1
	}

	for i := 0; i < len(post); {
		switch ch := post[i]; ch {
		case '\\':
			// Escaped codepoints are always literal, '.' included.
			cp, w, derr := u8.Decode(post, i+1)
			if derr != nil {
				return nil, parseErr(pattern, i+1, "escape: %v", derr)
			}
			c.pushAtom(c.emit(OpChar, cp))
			i += 1 + w

		case '[':
			set, ni, perr := parseClass(pattern, post, i+1)
			if perr != nil {
				return nil, perr
			}
			c.classes = append(c.classes, set)
			c.pushAtom(c.emit(OpClass, conv.IntToUint32(len(c.classes)-1)))
			i = ni

		case '(':
			// The group-open save heads its own fragment, so a quantifier
			// applied to the closed group loops back through it and every
			// iteration rewrites both capture slots.
			idx := c.emit(OpSave, nextSlot)
			c.pushAtom(idx)
			groups = append(groups, groupMark{slot: nextSlot, depth: len(c.stack)})
			nextSlot += 2
			i++

		case ')':
			if len(groups) == 0 {
				return nil, parseErr(pattern, i, "unmatched )")
			}
			g := groups[len(groups)-1]
			groups = groups[:len(groups)-1]
			if len(c.stack) > g.depth+1 {
				return nil, parseErr(pattern, i, "missing operator in group")
			}
			if len(c.stack) > g.depth {
				// Fuse the body onto the open save; an empty group chains
				// the open save straight into the close.
				body := c.stack[len(c.stack)-1]
				c.stack = c.stack[:len(c.stack)-1]
				f := c.top()
				c.patch(f, body.start)
				f.dangling = append(f.dangling, body.dangling...)
			}
			f := c.top()
			idx := c.emit(OpSave, g.slot+1)
			c.patch(f, idx)
			f.dangling = append(f.dangling, patchRef{inst: idx})
			i++

		case '?':
			if len(c.stack) <= floor() {
				return nil, parseErr(pattern, i, "? with no operand")
			}
			f := c.top()
			idx := c.emit(OpSplit, 0)
			c.insts[idx].LB = f.start
			f.dangling = append(f.dangling, patchRef{inst: idx, rb: true})
			f.start = idx
			i++

		case '*':
			if len(c.stack) <= floor() {
				return nil, parseErr(pattern, i, "* with no operand")
			}
			f := c.top()
			idx := c.emit(OpSplit, 0)
			c.insts[idx].LB = f.start
			c.patch(f, idx)
			f.dangling = append(f.dangling, patchRef{inst: idx, rb: true})
			f.start = idx
			i++

		case '+':
			if len(c.stack) <= floor() {
				return nil, parseErr(pattern, i, "+ with no operand")
			}
			f := c.top()
			idx := c.emit(OpSplit, 0)
			c.insts[idx].LB = f.start
			c.patch(f, idx)
			f.dangling = append(f.dangling, patchRef{inst: idx, rb: true})
			i++

		case 0: // concatenation
			if len(c.stack) < floor()+2 {
				return nil, parseErr(pattern, i, "concatenation with missing operand")
			}
			f2 := c.stack[len(c.stack)-1]
			c.stack = c.stack[:len(c.stack)-1]
			f1 := c.top()
			c.patch(f1, f2.start)
			f1.dangling = append(f1.dangling, f2.dangling...)
			i++

		case '|':
			if len(c.stack) < floor()+2 {
				return nil, parseErr(pattern, i, "| with missing operand")
			}
			f2 := c.stack[len(c.stack)-1]
			c.stack = c.stack[:len(c.stack)-1]
			f1 := c.top()
			idx := c.emit(OpSplit, 0)
			c.insts[idx].LB = f1.start
			c.insts[idx].RB = f2.start
			f1.dangling = append(f1.dangling, f2.dangling...)
			f1.start = idx
			i++

		case '.':
			c.pushAtom(c.emit(OpAny, 0))
			i++

		default:
			cp, w, derr := u8.Decode(post, i)
			if derr != nil {
				return nil, parseErr(pattern, i, "%v", derr)
			}
			c.pushAtom(c.emit(OpChar, cp))
			i += w
		}
	}

	if len(c.stack) > 2 {
		return nil, parseErr(pattern, -1, "dangling operand; missing operator")
	}

	end := c.emit(OpSave, 1)
	switch len(c.stack) {
	case 1:
		// Empty pattern: the start save chains straight into the end save.
		c.patch(&c.stack[0], end)
	case 2:
		c.patch(&c.stack[0], c.stack[1].start)
		c.patch(&c.stack[1], end)
	}
	match := c.emit(OpMatch, 0)
	c.insts[end].LB = match

	return &Program{
		Insts:   c.insts,
		Classes: c.classes,
		Slots:   int(nextSlot),
	}, nil
}
