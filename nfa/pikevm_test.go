package nfa

import (
	"errors"
	"testing"

	"github.com/2win9s/simpleregex/internal/u8"
)

func cpOf(t *testing.T, s string) uint32 {
	t.Helper()
	c, _, err := u8.Decode([]byte(s), 0)
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return c
}

func search(t *testing.T, pattern, text string, unanchored bool) (*PikeVM, bool) {
	t.Helper()
	vm := NewPikeVM(mustCompile(t, pattern))
	ok, err := vm.Search([]byte(text), unanchored, false)
	if err != nil {
		t.Fatalf("Search(%q, %q): %v", pattern, text, err)
	}
	return vm, ok
}

// group cuts the span of capture group g out of text, or returns "" for an
// unset group.
func group(caps []int, text string, g int) string {
	lo, hi := caps[2*g], caps[2*g+1]
	if lo < 0 || hi < 0 {
		return ""
	}
	return text[lo:hi]
}

func TestAnchoredGreedyPlus(t *testing.T) {
	vm, ok := search(t, "a+", "aaab", false)
	if !ok {
		t.Fatal("no match")
	}
	ms := vm.Matches()
	if len(ms) == 0 {
		t.Fatal("no capture vectors")
	}
	// One accepting path per prefix length, shortest first.
	last := ms[len(ms)-1]
	if got := group(last, "aaab", 0); got != "aaa" {
		t.Errorf("longest group 0 = %q, want %q", got, "aaa")
	}
	if got := group(ms[0], "aaab", 0); got != "a" {
		t.Errorf("shortest group 0 = %q, want %q", got, "a")
	}
}

func TestNestedGroupsWithEmoji(t *testing.T) {
	const text = "ab\U0001F60Ad"
	vm, ok := search(t, "(a(b))(c|\U0001F60A)(p|[\U0001F60Ad])", text, false)
	if !ok {
		t.Fatal("no match")
	}
	ms := vm.Matches()
	caps := ms[len(ms)-1]
	for g, want := range map[int]string{0: text, 1: "ab", 2: "b", 3: "\U0001F60A", 4: "d"} {
		if got := group(caps, text, g); got != want {
			t.Errorf("group %d = %q, want %q", g, got, want)
		}
	}
}

func TestUnanchoredDotStar(t *testing.T) {
	_, ok := search(t, "f.*l ", "the full moon and the fall wind", true)
	if !ok {
		t.Error("expected unanchored match")
	}
	_, ok = search(t, "f.*l ", "nothing here", true)
	if ok {
		t.Error("unexpected match")
	}
}

func TestUnanchoredClassRun(t *testing.T) {
	vm, ok := search(t, "[a-z]+", "AbC", true)
	if !ok {
		t.Fatal("no match")
	}
	ms := vm.Matches()
	if len(ms) != 1 {
		t.Fatalf("got %d capture vectors, want 1", len(ms))
	}
	if got := group(ms[0], "AbC", 0); got != "b" {
		t.Errorf("group 0 = %q, want %q", got, "b")
	}
}

func TestStarGroupKeepsLastIteration(t *testing.T) {
	const text = "ababac"
	vm, ok := search(t, "(a|b)*c", text, false)
	if !ok {
		t.Fatal("no match")
	}
	caps := vm.Matches()[0]
	if got := group(caps, text, 0); got != text {
		t.Errorf("group 0 = %q, want %q", got, text)
	}
	if got := group(caps, text, 1); got != "a" {
		t.Errorf("group 1 = %q, want last iteration %q", got, "a")
	}
}

// In unanchored mode the leftmost match must keep growing across positions:
// per-position seeding must not displace threads spawned earlier.
func TestUnanchoredLeftmostLongest(t *testing.T) {
	vm, ok := search(t, "a*", "aa", true)
	if !ok {
		t.Fatal("no match")
	}
	ms := vm.Matches()
	last := ms[len(ms)-1]
	if last[0] != 0 || last[1] != 2 {
		t.Errorf("final span = [%d,%d], want [0,2]", last[0], last[1])
	}
}

func TestEmptyPattern(t *testing.T) {
	for _, text := range []string{"", "xyz"} {
		vm, ok := search(t, "", text, false)
		if !ok {
			t.Fatalf("empty pattern did not match %q", text)
		}
		caps := vm.Matches()[0]
		if caps[0] != 0 || caps[1] != 0 {
			t.Errorf("span = [%d,%d], want [0,0]", caps[0], caps[1])
		}
	}
}

// Both saves of a group sit inside the fragment a quantifier wraps, so a
// skipped optional group touches neither slot.
func TestSkippedGroupNeverCloses(t *testing.T) {
	vm, ok := search(t, "(a)?b", "b", false)
	if !ok {
		t.Fatal("no match")
	}
	caps := vm.Matches()[0]
	if caps[2] != -1 || caps[3] != -1 {
		t.Errorf("group 1 slots = [%d,%d], want [-1,-1]", caps[2], caps[3])
	}
	if got := group(caps, "b", 1); got != "" {
		t.Errorf("group 1 = %q, want unset", got)
	}
}

// A quantified group re-enters through its open save, so every iteration
// rewrites both slots and the final capture is the last iteration alone.
func TestPlusGroupKeepsLastIteration(t *testing.T) {
	const text = "foobarbaz!"
	vm, ok := search(t, "(foo|bar|baz)+!", text, false)
	if !ok {
		t.Fatal("no match")
	}
	caps := vm.Matches()[0]
	if got := group(caps, text, 1); got != "baz" {
		t.Errorf("group 1 = %q, want last iteration %q", got, "baz")
	}
	if caps[2] != 6 || caps[3] != 9 {
		t.Errorf("group 1 slots = [%d,%d], want [6,9]", caps[2], caps[3])
	}
}

func TestFirstOnlyStopsEarly(t *testing.T) {
	vm := NewPikeVM(mustCompile(t, "ab"))
	ok, err := vm.Search([]byte("abxxxxxxxx"), false, true)
	if err != nil || !ok {
		t.Fatalf("Search = %v, %v", ok, err)
	}
	if len(vm.Matches()) != 1 {
		t.Errorf("got %d capture vectors, want 1", len(vm.Matches()))
	}
}

func TestSearchInvalidInput(t *testing.T) {
	vm := NewPikeVM(mustCompile(t, "a"))
	_, err := vm.Search([]byte{'a', 0xF0, 0x9F}, true, false)
	if !errors.Is(err, u8.ErrInvalidUTF8) {
		t.Errorf("err = %v, want ErrInvalidUTF8", err)
	}
}

func TestScratchReuseAcrossSearches(t *testing.T) {
	vm := NewPikeVM(mustCompile(t, "(a|b)+"))
	for i, tt := range []struct {
		text string
		want bool
	}{
		{"abab", true},
		{"zzz", false},
		{"ba", true},
	} {
		ok, err := vm.Search([]byte(tt.text), false, false)
		if err != nil {
			t.Fatal(err)
		}
		if ok != tt.want {
			t.Errorf("search %d (%q) = %v, want %v", i, tt.text, ok, tt.want)
		}
	}
	vm.FreeScratch()
	if ok, err := vm.Search([]byte("ab"), false, false); err != nil || !ok {
		t.Errorf("search after FreeScratch = %v, %v", ok, err)
	}
}
