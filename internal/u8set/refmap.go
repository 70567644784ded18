package u8set

import "github.com/2win9s/simpleregex/internal/u8"

// None is the sentinel for an unresolved RefMap entry.
const None uint32 = 0xFFFFFFFF

// wildcardSlot is the reserved tier-1 index holding the fallback value.
// 0xFF is never the leading byte of well-formed UTF-8, so the slot cannot
// collide with a real codepoint.
const wildcardSlot = 255

// RefMap maps packed UTF-8 codepoints to uint32 values using the same
// four-tier layout as Set. The lazy DFA uses it as a per-state transition
// table: value = target state serial, wildcard slot = the transition taken
// by codepoints with no specific entry.
type RefMap struct {
	one   [256]uint32
	two   *[tier2Bits]uint32
	three *[tier3Bits]uint32
	four  []*[tier4Bits]uint32 // tier4Maps entries once allocated
}

// NewRefMap returns a map with every entry, including the wildcard slot,
// set to None.
func NewRefMap() *RefMap {
	m := &RefMap{}
	for i := range m.one {
		m.one[i] = None
	}
	return m
}

func newTier2() *[tier2Bits]uint32 {
	var t [tier2Bits]uint32
	for i := range t {
		t[i] = None
	}
	return &t
}

func newTier3() *[tier3Bits]uint32 {
	var t [tier3Bits]uint32
	for i := range t {
		t[i] = None
	}
	return &t
}

func newTier4() *[tier4Bits]uint32 {
	var t [tier4Bits]uint32
	for i := range t {
		t[i] = None
	}
	return &t
}

// Set stores v for the packed codepoint c, allocating the tier on first
// use.
func (m *RefMap) Set(c uint32, v uint32) {
	a, b, cc, d := u8.Bytes(c)
	switch u8.SeqLen(a) {
	case 1:
		m.one[a] = v
	case 2:
		if m.two == nil {
			m.two = newTier2()
		}
		m.two[idx2(a, b)] = v
	case 3:
		if m.three == nil {
			m.three = newTier3()
		}
		m.three[idx3(a, b, cc)] = v
	default:
		if m.four == nil {
			m.four = make([]*[tier4Bits]uint32, tier4Maps)
		}
		outer, inner := idx4(a, b, cc, d)
		if m.four[outer] == nil {
			m.four[outer] = newTier4()
		}
		m.four[outer][inner] = v
	}
}

// Get returns the value stored for c. ok is false when the entry is
// unresolved.
func (m *RefMap) Get(c uint32) (uint32, bool) {
	a, b, cc, d := u8.Bytes(c)
	var v uint32 = None
	switch u8.SeqLen(a) {
	case 1:
		v = m.one[a]
	case 2:
		if m.two != nil {
			v = m.two[idx2(a, b)]
		}
	case 3:
		if m.three != nil {
			v = m.three[idx3(a, b, cc)]
		}
	default:
		if m.four != nil {
			outer, inner := idx4(a, b, cc, d)
			if m.four[outer] != nil {
				v = m.four[outer][inner]
			}
		}
	}
	return v, v != None
}

// SetWildcard stores the fallback value in the reserved slot.
func (m *RefMap) SetWildcard(v uint32) {
	m.one[wildcardSlot] = v
}

// Wildcard returns the fallback value. ok is false when it has not been
// resolved yet.
func (m *RefMap) Wildcard() (uint32, bool) {
	v := m.one[wildcardSlot]
	return v, v != None
}
