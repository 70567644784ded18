package u8set

import (
	"errors"
	"testing"

	"github.com/2win9s/simpleregex/internal/u8"
)

func cp(t *testing.T, s string) uint32 {
	t.Helper()
	c, _, err := u8.Decode([]byte(s), 0)
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return c
}

func TestInsertContainsAllWidths(t *testing.T) {
	s := NewSet()
	members := []string{"a", "~", "é", "߿", "世", "ᚠ", "\U0001F60A"}
	for _, m := range members {
		s.Insert(cp(t, m))
	}
	for _, m := range members {
		if !s.Contains(cp(t, m)) {
			t.Errorf("Contains(%q) = false", m)
		}
	}
	for _, m := range []string{"b", "ê", "丗"} {
		if s.Contains(cp(t, m)) {
			t.Errorf("Contains(%q) = true", m)
		}
	}
	if s.Count() != len(members) {
		t.Errorf("Count = %d, want %d", s.Count(), len(members))
	}
}

func TestLazyTierAllocation(t *testing.T) {
	s := NewSet()
	s.Insert(cp(t, "a"))
	if s.two != nil || s.three != nil || s.four != nil {
		t.Error("multi-byte tiers allocated for ASCII-only set")
	}
	s.Insert(cp(t, "é"))
	if s.two == nil || s.three != nil {
		t.Error("tier allocation wrong after 2-byte insert")
	}
}

func TestRemoveShrink(t *testing.T) {
	s := NewSet()
	s.Insert(cp(t, "世"))
	s.Remove(cp(t, "世"))
	if s.Contains(cp(t, "世")) || s.Count() != 0 {
		t.Error("Remove failed")
	}
	if s.three == nil {
		t.Fatal("tier freed before Shrink")
	}
	s.Shrink()
	if s.three != nil {
		t.Error("Shrink kept an empty tier")
	}
}

func TestFromStringInvalid(t *testing.T) {
	if _, err := NewSetFromString([]byte{'a', 0xE4, 0xB8}); !errors.Is(err, u8.ErrInvalidUTF8) {
		t.Errorf("truncated input: err = %v, want ErrInvalidUTF8", err)
	}
}

func TestUnionIntersect(t *testing.T) {
	a := NewSet()
	b := NewSet()
	a.Insert(cp(t, "a"))
	a.Insert(cp(t, "世"))
	b.Insert(cp(t, "世"))
	b.Insert(cp(t, "é"))

	u := NewSet()
	u.Union(a)
	u.Union(b)
	for _, m := range []string{"a", "世", "é"} {
		if !u.Contains(cp(t, m)) {
			t.Errorf("union missing %q", m)
		}
	}

	i := NewSet()
	i.Union(a)
	i.Intersect(b)
	if !i.Contains(cp(t, "世")) || i.Count() != 1 {
		t.Error("intersection wrong")
	}
}

func TestEqualTreatsMissingTierAsEmpty(t *testing.T) {
	a := NewSet()
	b := NewSet()
	a.Insert(cp(t, "é"))
	a.Remove(cp(t, "é")) // a has an allocated empty tier 2, b has none
	if !a.Equal(b) || !b.Equal(a) {
		t.Error("empty allocated tier compared unequal to missing tier")
	}
	a.Insert(cp(t, "é"))
	if a.Equal(b) {
		t.Error("distinct sets compared equal")
	}
}

func TestStringRendersMembers(t *testing.T) {
	s := NewSet()
	for _, m := range []string{"b", "a", "é", "世"} {
		s.Insert(cp(t, m))
	}
	if got := s.String(); got != "abé世" {
		t.Errorf("String() = %q, want %q", got, "abé世")
	}
}

func TestInsertByteRange(t *testing.T) {
	s := NewSet()
	s.InsertByteRange('a', 'z')
	if s.Count() != 26 || !s.Contains(cp(t, "m")) || s.Contains(cp(t, "A")) {
		t.Error("InsertByteRange wrong")
	}
}

func TestRefMap(t *testing.T) {
	m := NewRefMap()
	if _, ok := m.Get(cp(t, "a")); ok {
		t.Error("fresh map resolved an entry")
	}
	m.Set(cp(t, "a"), 7)
	m.Set(cp(t, "é"), 8)
	m.Set(cp(t, "世"), 9)
	m.Set(cp(t, "\U0001F60A"), 10)
	for i, s := range []string{"a", "é", "世", "\U0001F60A"} {
		v, ok := m.Get(cp(t, s))
		if !ok || v != uint32(7+i) {
			t.Errorf("Get(%q) = (%d, %v), want (%d, true)", s, v, ok, 7+i)
		}
	}
	if _, ok := m.Wildcard(); ok {
		t.Error("wildcard resolved before SetWildcard")
	}
	m.SetWildcard(3)
	if v, ok := m.Wildcard(); !ok || v != 3 {
		t.Error("wildcard wrong after SetWildcard")
	}
	// The wildcard slot must not alias any real codepoint entry.
	if _, ok := m.Get(cp(t, "ÿ")); ok {
		t.Error("wildcard slot aliased a codepoint")
	}
}
