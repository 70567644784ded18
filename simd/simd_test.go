package simd

import (
	"bytes"
	"strings"
	"testing"
)

func TestMemchr(t *testing.T) {
	tests := []struct {
		haystack string
		needle   byte
	}{
		{"", 'a'},
		{"a", 'a'},
		{"b", 'a'},
		{"hello world", 'o'},
		{"hello world", 'z'},
		{"short", 't'},
		{strings.Repeat("x", 100) + "y", 'y'},
		{strings.Repeat("x", 7), 'x'},
		{strings.Repeat("ab", 64), 'b'},
		{"\x00\x01\x02", 0},
		{"aaaaaaaa" + "b", 'b'}, // match in the tail after aligned chunks
	}
	for _, tt := range tests {
		want := bytes.IndexByte([]byte(tt.haystack), tt.needle)
		if got := Memchr([]byte(tt.haystack), tt.needle); got != want {
			t.Errorf("Memchr(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, want)
		}
	}
}

func TestMemchrEveryOffset(t *testing.T) {
	// Matches must be found at every alignment relative to the 8-byte step.
	base := bytes.Repeat([]byte{'.'}, 40)
	for i := range base {
		h := append([]byte(nil), base...)
		h[i] = '!'
		if got := Memchr(h, '!'); got != i {
			t.Fatalf("offset %d: got %d", i, got)
		}
	}
}

func TestMemmem(t *testing.T) {
	tests := []struct {
		haystack, needle string
	}{
		{"", ""},
		{"abc", ""},
		{"", "a"},
		{"hello world", "world"},
		{"hello world", "hello"},
		{"hello world", "o w"},
		{"hello world", "worlds"},
		{"aaaaaabaaaa", "aab"},
		{"abababab", "bab"},
		{"needle way past the midpoint of the haystack text", "haystack"},
		{"short", "longer than haystack"},
		{strings.Repeat("ab", 100) + "aq", "aq"},
		{"日本語のテキスト", "テキスト"},
		{"xyxyxyxyz", "xyz"},
	}
	for _, tt := range tests {
		want := bytes.Index([]byte(tt.haystack), []byte(tt.needle))
		if got := Memmem([]byte(tt.haystack), []byte(tt.needle)); got != want {
			t.Errorf("Memmem(%q, %q) = %d, want %d", tt.haystack, tt.needle, got, want)
		}
	}
}

func TestSelectRareByte(t *testing.T) {
	b, i := selectRareByte([]byte("qqqe"))
	if b != 'q' || i != 0 {
		t.Errorf("selectRareByte = %q, %d; want 'q', 0", b, i)
	}
	// 'z' is rarer than any of the vowels around it.
	b, i = selectRareByte([]byte("aazaa"))
	if b != 'z' || i != 2 {
		t.Errorf("selectRareByte = %q, %d; want 'z', 2", b, i)
	}
}
