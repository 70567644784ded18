package prefilter

import (
	"testing"

	"github.com/2win9s/simpleregex/literal"
)

func seqOf(complete bool, lits ...string) *literal.Seq {
	s := &literal.Seq{Complete: complete}
	for _, l := range lits {
		s.Lits = append(s.Lits, literal.Literal{Bytes: []byte(l), Complete: complete})
	}
	return s
}

func TestFromSeqSelection(t *testing.T) {
	if p := FromSeq(nil); p != nil {
		t.Error("nil seq built a prefilter")
	}
	if p := FromSeq(&literal.Seq{}); p != nil {
		t.Error("empty seq built a prefilter")
	}
	if _, ok := FromSeq(seqOf(false, "x")).(*memchrPrefilter); !ok {
		t.Error("single byte literal did not select memchr")
	}
	if _, ok := FromSeq(seqOf(false, "abc")).(*memmemPrefilter); !ok {
		t.Error("single literal did not select memmem")
	}
	if _, ok := FromSeq(seqOf(false, "ab", "cd")).(*ahoPrefilter); !ok {
		t.Error("alternation did not select aho-corasick")
	}
}

func TestFindCandidates(t *testing.T) {
	tests := []struct {
		name     string
		seq      *literal.Seq
		haystack string
		start    int
		want     int
	}{
		{"memchr hit", seqOf(false, "x"), "aaxbbxcc", 0, 2},
		{"memchr resume", seqOf(false, "x"), "aaxbbxcc", 3, 5},
		{"memchr miss", seqOf(false, "x"), "aabbcc", 0, -1},
		{"memchr past end", seqOf(false, "x"), "ax", 2, -1},
		{"memmem hit", seqOf(false, "needle"), "hay needle hay", 0, 4},
		{"memmem resume", seqOf(false, "ab"), "ab ab", 1, 3},
		{"memmem miss", seqOf(false, "needle"), "haystack only", 0, -1},
		{"aho first of two", seqOf(false, "foo", "bar"), "a bar then foo", 0, 2},
		{"aho resume", seqOf(false, "foo", "bar"), "a bar then foo", 3, 11},
		{"aho miss", seqOf(false, "foo", "bar"), "neither here", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromSeq(tt.seq)
			if p == nil {
				t.Fatal("no prefilter built")
			}
			if got := p.Find([]byte(tt.haystack), tt.start); got != tt.want {
				t.Errorf("Find(%q, %d) = %d, want %d", tt.haystack, tt.start, got, tt.want)
			}
		})
	}
}

func TestCompletePropagates(t *testing.T) {
	if !FromSeq(seqOf(true, "exact")).IsComplete() {
		t.Error("complete literal lost its flag")
	}
	if FromSeq(seqOf(false, "prefix")).IsComplete() {
		t.Error("incomplete literal reported complete")
	}
	if !FromSeq(seqOf(true, "ab", "cd")).IsComplete() {
		t.Error("complete alternation lost its flag")
	}
}

func TestLiteralLen(t *testing.T) {
	if got := FromSeq(seqOf(false, "x")).LiteralLen(); got != 1 {
		t.Errorf("memchr LiteralLen = %d", got)
	}
	if got := FromSeq(seqOf(false, "abcd")).LiteralLen(); got != 4 {
		t.Errorf("memmem LiteralLen = %d", got)
	}
	if got := FromSeq(seqOf(false, "ab", "wxyz")).LiteralLen(); got != 2 {
		t.Errorf("aho LiteralLen = %d", got)
	}
}
